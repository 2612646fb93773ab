package hostinfo

// Version is the current version of the go-hostinfo library
const Version = "1.0.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Manager is the service manager the unit queries target
	Manager string
	// Commands lists the external programs the library runs
	Commands []string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version:  Version,
		Manager:  "systemd",
		Commands: []string{DefaultSystemctlPath, uptimeCommand.Name, freeCommand.Name},
	}
}
