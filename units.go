package hostinfo

import (
	"context"
	"strings"
	"time"
)

// Unit properties read by the builder
const (
	propID                 = "Id"
	propLoadState          = "LoadState"
	propType               = "Type"
	propDescription        = "Description"
	propCanStart           = "CanStart"
	propCanStop            = "CanStop"
	propCanReload          = "CanReload"
	propStateChange        = "StateChangeTimestamp"
	propUser               = "User"
	propLastTrigger        = "LastTriggerUSec"
	propNextElapseRealtime = "NextElapseUSecRealtime"
	propTriggerUnit        = "Unit"
	propFragmentPath       = "FragmentPath"
)

const loadStateNotFound = "not-found"

// UnitInfo looks the unit up and returns a *ServiceInfo or *TimerInfo
// depending on its type suffix.
func (b *InfoBuilder) UnitInfo(ctx context.Context, unit string) (UnitInfo, error) {
	if strings.TrimSpace(unit) == "" {
		return nil, &UnknownUnitError{Unit: unit}
	}

	id, err := b.query.ShowProperty(ctx, unit, propID)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &UnknownUnitError{Unit: unit}
	}

	// systemd echoes the requested name as Id even for units it cannot load
	loadState, err := b.query.ShowProperty(ctx, unit, propLoadState)
	if err != nil {
		return nil, err
	}
	if loadState == loadStateNotFound {
		return nil, &UnknownUnitError{Unit: unit}
	}

	switch suffix := unitSuffix(id); suffix {
	case UnitKindService.String():
		info, err := b.ServiceInfo(ctx, unit)
		if err != nil {
			return nil, err
		}
		return info, nil
	case UnitKindTimer.String():
		info, err := b.TimerInfo(ctx, unit)
		if err != nil {
			return nil, err
		}
		return info, nil
	default:
		return nil, &UnsupportedUnitTypeError{ID: id, Type: suffix}
	}
}

// ServiceInfo assembles the report for a service unit.
func (b *InfoBuilder) ServiceInfo(ctx context.Context, unit string) (*ServiceInfo, error) {
	r := &unitReader{ctx: ctx, query: b.query, unit: unit}

	info := &ServiceInfo{
		UnitBase: UnitBase{
			ID: r.property(propID),
		},
		Type: r.property(propType),
	}
	r.base(&info.UnitBase)
	info.CanStart = r.boolProperty(propCanStart)
	info.CanStop = r.boolProperty(propCanStop)
	info.CanReload = r.boolProperty(propCanReload)
	info.StateChange = r.dateProperty(propStateChange)
	info.User = r.property(propUser)

	if r.err != nil {
		return nil, r.err
	}
	return info, nil
}

// TimerInfo assembles the report for a timer unit.
func (b *InfoBuilder) TimerInfo(ctx context.Context, unit string) (*TimerInfo, error) {
	r := &unitReader{ctx: ctx, query: b.query, unit: unit}

	info := &TimerInfo{
		UnitBase: UnitBase{
			ID: r.property(propID),
		},
	}
	r.base(&info.UnitBase)
	info.LastTrigger = r.dateProperty(propLastTrigger)
	info.NextElapse = r.dateProperty(propNextElapseRealtime)
	info.Unit = r.property(propTriggerUnit)

	if r.err != nil {
		return nil, r.err
	}
	return info, nil
}

// unitReader runs queries for one unit in order and stops issuing commands
// after the first failure, which it keeps in err.
type unitReader struct {
	ctx   context.Context
	query *Systemctl
	unit  string
	err   error
}

func (r *unitReader) base(b *UnitBase) {
	b.Description = r.property(propDescription)
	b.Active = r.check(r.query.IsActive)
	b.Enabled = r.check(r.query.IsEnabled)
	b.ActiveStatus = r.word(r.query.ActiveStatus)
	b.EnabledStatus = r.word(r.query.EnabledStatus)
	b.StatusDetail = r.statusDetail()
}

func (r *unitReader) property(name string) string {
	if r.err != nil {
		return ""
	}
	v, err := r.query.ShowProperty(r.ctx, r.unit, name)
	r.err = err
	return v
}

func (r *unitReader) boolProperty(name string) bool {
	if r.err != nil {
		return false
	}
	v, err := r.query.ShowPropertyBool(r.ctx, r.unit, name)
	r.err = err
	return v
}

func (r *unitReader) dateProperty(name string) *time.Time {
	if r.err != nil {
		return nil
	}
	v, err := r.query.ShowPropertyDate(r.ctx, r.unit, name)
	r.err = err
	return v
}

func (r *unitReader) check(fn func(context.Context, string) (bool, error)) bool {
	if r.err != nil {
		return false
	}
	v, err := fn(r.ctx, r.unit)
	r.err = err
	return v
}

func (r *unitReader) word(fn func(context.Context, string) (string, error)) string {
	if r.err != nil {
		return ""
	}
	v, err := fn(r.ctx, r.unit)
	r.err = err
	return v
}

func (r *unitReader) statusDetail() string {
	if r.err != nil {
		return ""
	}
	text, err := r.query.Status(r.ctx, r.unit, 0)
	r.err = err
	return stripFirstLine(text)
}

// stripFirstLine drops the header line of a systemctl status report, which
// repeats the unit Id and description.
func stripFirstLine(text string) string {
	_, rest, found := strings.Cut(text, "\n")
	if !found {
		return ""
	}
	return rest
}

// unitSuffix returns the unit type, the part of id after the last dot.
func unitSuffix(id string) string {
	i := strings.LastIndexByte(id, '.')
	if i < 0 {
		return ""
	}
	return id[i+1:]
}
