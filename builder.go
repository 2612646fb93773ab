package hostinfo

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Matches "load average: 0.50, 0.20, 0.05" (procps) as well as
	// "load averages: 0,50 0,20 0,05" (BSD style, comma decimal locales).
	loadAvgPattern = regexp.MustCompile(`load averages?: ([0-9]+[.,][0-9]+),?\s+([0-9]+[.,][0-9]+),?\s+([0-9]+[.,][0-9]+)`)

	memPattern  = regexp.MustCompile(`(?m)^Mem:[ \t]+([0-9]+)[ \t]+([0-9]+)`)
	swapPattern = regexp.MustCompile(`(?m)^Swap:[ \t]+([0-9]+)[ \t]+([0-9]+)`)
)

var (
	uptimePrettyCommand = Command{Name: "uptime", Args: []string{"-p"}}
	uptimeCommand       = Command{Name: "uptime"}
	freeCommand         = Command{Name: "free", Args: []string{"--bytes"}}
)

// InfoBuilder assembles uptime, memory and unit reports from command output.
// It holds no mutable state; every call runs fresh commands.
type InfoBuilder struct {
	query  *Systemctl
	runner CommandRunner
}

// NewInfoBuilder creates an InfoBuilder from its two collaborators
func NewInfoBuilder(query *Systemctl, runner CommandRunner) *InfoBuilder {
	return &InfoBuilder{
		query:  query,
		runner: runner,
	}
}

// Systemctl returns the unit query layer the builder uses
func (b *InfoBuilder) Systemctl() *Systemctl {
	return b.query
}

// Uptime reports the pretty uptime string and the three load averages.
func (b *InfoBuilder) Uptime(ctx context.Context) (UptimeInfo, error) {
	pretty, err := b.runner.Run(ctx, uptimePrettyCommand)
	if err != nil {
		return UptimeInfo{}, err
	}

	out, err := b.runner.Run(ctx, uptimeCommand)
	if err != nil {
		return UptimeInfo{}, err
	}

	loads, err := parseLoadAverages(out)
	if err != nil {
		return UptimeInfo{}, err
	}

	return UptimeInfo{
		Pretty: strings.TrimSpace(pretty),
		Load1:  loads[0],
		Load5:  loads[1],
		Load15: loads[2],
	}, nil
}

// Memory reports physical memory and swap usage in bytes.
//
// Unlike the other reports, a non-zero exit status of free is tolerated and
// whatever it printed is parsed. Only a failure to start it at all is
// returned as a *CommandError.
func (b *InfoBuilder) Memory(ctx context.Context) (MemoryInfo, error) {
	out, err := b.runner.Run(ctx, freeCommand)
	if err != nil {
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) || !cmdErr.Started() {
			return MemoryInfo{}, err
		}
	}
	return parseMemory(out)
}

func parseLoadAverages(out string) ([3]float64, error) {
	var loads [3]float64

	m := loadAvgPattern.FindStringSubmatch(out)
	if m == nil {
		return loads, &ParseError{Command: uptimeCommand.String(), Expected: "load average", Output: out}
	}

	for i := range loads {
		v, err := strconv.ParseFloat(strings.Replace(m[i+1], ",", ".", 1), 64)
		if err != nil {
			return loads, &ParseError{Command: uptimeCommand.String(), Expected: "load average", Output: out}
		}
		loads[i] = v
	}
	return loads, nil
}

func parseMemory(out string) (MemoryInfo, error) {
	memTotal, memUsed, ok := matchUintPair(memPattern, out)
	if !ok {
		return MemoryInfo{}, &ParseError{Command: freeCommand.String(), Expected: `"Mem:" line`, Output: out}
	}

	swapTotal, swapUsed, ok := matchUintPair(swapPattern, out)
	if !ok {
		return MemoryInfo{}, &ParseError{Command: freeCommand.String(), Expected: `"Swap:" line`, Output: out}
	}

	return MemoryInfo{
		MemTotal:  memTotal,
		MemUsed:   memUsed,
		SwapTotal: swapTotal,
		SwapUsed:  swapUsed,
	}, nil
}

func matchUintPair(re *regexp.Regexp, out string) (uint64, uint64, bool) {
	m := re.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, false
	}
	a, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}
