package hostinfo

// UnitEvent carries a fresh unit report, or the error that prevented one
type UnitEvent struct {
	Info UnitInfo
	Err  error
}

// WatchCleanupFunc stops a watch and waits for its goroutine to exit
type WatchCleanupFunc func() error
