package hostinfo

import (
	"fmt"
	"time"
)

// UptimeInfo holds the host uptime and its 1, 5 and 15 minute load averages.
type UptimeInfo struct {
	Pretty string  `json:"pretty" yaml:"pretty"`
	Load1  float64 `json:"load_avg_1" yaml:"load_avg_1"`
	Load5  float64 `json:"load_avg_5" yaml:"load_avg_5"`
	Load15 float64 `json:"load_avg_15" yaml:"load_avg_15"`
}

// String returns a one-line summary in the style of uptime(1)
func (u UptimeInfo) String() string {
	return fmt.Sprintf("%s, load average: %.2f, %.2f, %.2f", u.Pretty, u.Load1, u.Load5, u.Load15)
}

// MemoryInfo holds physical memory and swap figures in bytes.
type MemoryInfo struct {
	MemTotal  uint64 `json:"mem_total" yaml:"mem_total"`
	MemUsed   uint64 `json:"mem_used" yaml:"mem_used"`
	SwapTotal uint64 `json:"swap_total" yaml:"swap_total"`
	SwapUsed  uint64 `json:"swap_used" yaml:"swap_used"`
}

// UnitKind identifies the variant behind a UnitInfo
type UnitKind int

const (
	// UnitKindService is a .service unit
	UnitKindService UnitKind = iota + 1
	// UnitKindTimer is a .timer unit
	UnitKindTimer
)

// String returns the unit file suffix for the kind
func (k UnitKind) String() string {
	switch k {
	case UnitKindService:
		return "service"
	case UnitKindTimer:
		return "timer"
	default:
		return "unknown"
	}
}

// UnitInfo is implemented by *ServiceInfo and *TimerInfo only. Use a type
// switch or Kind to get at the variant.
type UnitInfo interface {
	// Base returns the fields shared by every unit kind
	Base() *UnitBase
	// Kind reports which variant this is
	Kind() UnitKind

	unitInfo()
}

// UnitBase holds the fields shared by services and timers.
type UnitBase struct {
	ID            string `json:"id" yaml:"id"`
	Description   string `json:"description" yaml:"description"`
	Active        bool   `json:"is_active" yaml:"is_active"`
	Enabled       bool   `json:"is_enabled" yaml:"is_enabled"`
	ActiveStatus  string `json:"active_status" yaml:"active_status"`
	EnabledStatus string `json:"enabled_status" yaml:"enabled_status"`
	// StatusDetail is the systemctl status report without its header line
	StatusDetail string `json:"status_detail" yaml:"status_detail"`
}

// Base returns the shared fields
func (b *UnitBase) Base() *UnitBase {
	return b
}

// ServiceInfo describes a .service unit.
type ServiceInfo struct {
	UnitBase `yaml:",inline"`

	Type      string `json:"service_type" yaml:"service_type"`
	CanStart  bool   `json:"can_start" yaml:"can_start"`
	CanStop   bool   `json:"can_stop" yaml:"can_stop"`
	CanReload bool   `json:"can_reload" yaml:"can_reload"`
	// StateChange is nil if the unit never changed state
	StateChange *time.Time `json:"state_change_timestamp" yaml:"state_change_timestamp"`
	// User is the account the service runs as; empty means root
	User string `json:"run_as_user" yaml:"run_as_user"`
}

// Kind returns UnitKindService
func (*ServiceInfo) Kind() UnitKind { return UnitKindService }

func (*ServiceInfo) unitInfo() {}

// TimerInfo describes a .timer unit.
type TimerInfo struct {
	UnitBase `yaml:",inline"`

	// LastTrigger is nil if the timer never elapsed
	LastTrigger *time.Time `json:"last_trigger_timestamp" yaml:"last_trigger_timestamp"`
	// NextElapse is nil if no further elapse is scheduled
	NextElapse *time.Time `json:"next_elapse_timestamp" yaml:"next_elapse_timestamp"`
	// Unit is the unit the timer activates
	Unit string `json:"trigger_unit" yaml:"trigger_unit"`
}

// Kind returns UnitKindTimer
func (*TimerInfo) Kind() UnitKind { return UnitKindTimer }

func (*TimerInfo) unitInfo() {}

var (
	_ UnitInfo = (*ServiceInfo)(nil)
	_ UnitInfo = (*TimerInfo)(nil)
)
