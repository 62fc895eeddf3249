package config

import "time"

const (
	defaultCachedTimeResolution = 10 * time.Millisecond
	defaultMaxCyclesPerSec      = 10
	defaultTelemetryInterval    = 5 * time.Second
)

// CachedTimeCfg configures a time source that is refreshed by a ticker instead of
// reading the clock on every decision. Staleness checks become as coarse as Resolution.
type CachedTimeCfg struct {
	// Resolution is the refresh period of the cached timestamp. Default: 10ms.
	Resolution time.Duration `yaml:"resolution"`
}

func (cfg *CachedTimeCfg) Enabled() bool {
	return cfg != nil
}

// DriverCfg configures the built-in collection driver which turns positive decisions
// into collections and reports their completion back to the scheduler.
type DriverCfg struct {
	// MaxCyclesPerSec bounds how many full collections the driver performs per second.
	// Requests arriving while a cycle is pending are coalesced into it. Default: 10.
	MaxCyclesPerSec int `yaml:"max_cycles_per_sec"`
}

func (cfg *DriverCfg) Enabled() bool {
	return cfg != nil
}

type TelemetryCfg struct {
	// Interval between two stats log lines. Default: 5s.
	Interval time.Duration `yaml:"interval"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}
