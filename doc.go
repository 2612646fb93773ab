// Package hostinfo reports host uptime, memory and systemd unit status by
// running the host's diagnostic commands and parsing their output into typed
// records.
//
// The InfoBuilder is the entry point. It is composed from a CommandRunner,
// which executes commands, and a Systemctl, which wraps the service manager
// queries:
//
//	runner := hostinfo.NewExecRunner(hostinfo.WithCommandTimeout(5 * time.Second))
//	builder := hostinfo.NewInfoBuilder(hostinfo.NewSystemctl(runner), runner)
//
//	up, err := builder.Uptime(ctx)
//	fmt.Printf("%s (load %.2f)\n", up.Pretty, up.Load1)
//
//	info, err := builder.UnitInfo(ctx, "nginx.service")
//	switch u := info.(type) {
//	case *hostinfo.ServiceInfo:
//	    fmt.Println(u.ID, u.ActiveStatus, u.User)
//	case *hostinfo.TimerInfo:
//	    fmt.Println(u.ID, u.NextElapse, u.Unit)
//	}
//
// # Errors
//
// Failures are typed and match a sentinel through errors.Is:
//
//   - *CommandError (ErrCommand): a command did not start or exited non-zero
//   - *ParseError (ErrParse): output did not have the expected structure
//   - *UnknownUnitError (ErrUnknownUnit): the manager does not know the unit
//   - *UnsupportedUnitTypeError (ErrUnsupportedUnitType): neither service nor timer
//   - *DateParseError (ErrDateParse): a timestamp could not be read
//
// Service manager failures arrive wrapped in a *UnitQueryError naming the
// unit and query. No report is ever returned partially filled.
//
// Memory is the one report that tolerates a non-zero exit status: free
// output is parsed even when the command reports failure.
//
// # Design Philosophy
//
// The library is read-only. It never starts, stops or reloads units, and it
// keeps no state between calls: there is no cache and no history. Every call
// runs its commands sequentially and blocks until they finish. The Manager
// overlaps lookups of different units for callers that need several at once.
package hostinfo
