package hostinfo

import (
	"strconv"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
)

// TimestampLayout is the layout systemctl uses for timestamp properties,
// e.g. "Thu 2019-03-07 23:42:01 CET".
const TimestampLayout = "Mon 2006-01-02 15:04:05 MST"

// Layouts accepted when parsing, in order. Fractional seconds after the
// seconds field are accepted by time.Parse without being spelled out.
var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04:05 MST",
}

// isUnsetTimestamp reports whether v is one of the values systemctl prints
// for a timestamp that was never set.
func isUnsetTimestamp(v string) bool {
	switch v {
	case "", "n/a", "0":
		return true
	}
	return false
}

// ParseTimestamp parses a timestamp as printed by systemctl show. It returns
// nil for the "unset" placeholders and a *DateParseError for anything else
// it cannot read.
//
// Zone abbreviations are resolved against the local time zone; "UTC" and
// "GMT" are always recognized. Any other abbreviation the local zone does
// not use is a *DateParseError, since its offset is unknown.
func ParseTimestamp(value string) (*time.Time, error) {
	v := strings.TrimSpace(value)
	if isUnsetTimestamp(v) {
		return nil, nil
	}

	// --timestamp=unix form
	if strings.HasPrefix(v, "@") {
		t, err := parseUnixTimestamp(v[1:])
		if err != nil {
			return nil, &DateParseError{Value: value, Err: err}
		}
		return &t, nil
	}

	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, v, time.Local)
		if err != nil {
			lastErr = err
			continue
		}
		if !zoneResolved(t) {
			name, _ := t.Zone()
			return nil, &DateParseError{Value: value, Err: cerr.Newf("unknown time zone abbreviation %q", name)}
		}
		return &t, nil
	}
	return nil, &DateParseError{Value: value, Err: lastErr}
}

// zoneResolved reports whether the parsed abbreviation mapped to a real
// offset. Abbreviations the local zone does not use come back in a fixed
// zone with offset 0; only the GMT[+-]N forms carry their offset that way.
func zoneResolved(t time.Time) bool {
	switch t.Location() {
	case time.Local, time.UTC:
		return true
	}
	name, _ := t.Zone()
	return strings.HasPrefix(name, "GMT")
}

func parseUnixTimestamp(v string) (time.Time, error) {
	secStr, fracStr, hasFrac := strings.Cut(v, ".")
	sec, err := strconv.ParseInt(secStr, 10, 64)
	if err != nil {
		return time.Time{}, cerr.Wrapf(err, "unix seconds %q", secStr)
	}
	var nsec int64
	if hasFrac {
		if fracStr == "" || len(fracStr) > 9 {
			return time.Time{}, cerr.Newf("unix fraction %q", fracStr)
		}
		n, err := strconv.ParseInt(fracStr, 10, 64)
		if err != nil {
			return time.Time{}, cerr.Wrapf(err, "unix fraction %q", fracStr)
		}
		nsec = n * pow10(9-len(fracStr))
	}
	return time.Unix(sec, nsec), nil
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// FormatTimestamp renders t the way systemctl show prints timestamps, in
// the local time zone. ParseTimestamp(FormatTimestamp(t)) yields the same
// instant at second precision.
func FormatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(TimestampLayout)
}
