package config

import (
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

var ErrUnknownMode = errors.New("unknown scheduler mode")

// Mode selects the decision policy bound into every thread accumulator.
type Mode string

const (
	// ModeRegular asks for a collection on allocation volume or staleness since the last full GC.
	ModeRegular Mode = "regular"

	// ModeStress forces every trigger point to escalate and asks for a collection
	// exactly once per distinct call stack reaching a trigger point.
	ModeStress Mode = "stress"
)

// Scheduler groups configuration of the trigger engine and its collaborators.
// Optional components are disabled by leaving them nil.
type Scheduler struct {
	// Mode is resolved once, when the scheduler is constructed.
	// Empty value means ModeRegular.
	Mode Mode `yaml:"mode"`

	// Thresholds are the initial values of the process-wide tunables.
	// If nil, defaults are used. Ignored (forced to zero) in stress mode.
	Thresholds *ThresholdsCfg `yaml:"thresholds"`

	// CachedTime configures a ticker-backed time source for the staleness check.
	// If nil, a monotonic clock is read on every decision.
	CachedTime *CachedTimeCfg `yaml:"cached_time"`

	// Driver configures the built-in collection driver.
	// If nil, collection requests are dropped and the caller is expected to drive GC itself.
	Driver *DriverCfg `yaml:"driver"`

	// Telemetry configures periodic stats logs.
	// If nil, no stats are logged.
	Telemetry *TelemetryCfg `yaml:"telemetry"`
}

func (cfg *Scheduler) IsStress() bool {
	return cfg != nil && cfg.Mode == ModeStress
}

// AdjustConfig fills derived and default values. It must be called before the config is used.
func (cfg *Scheduler) AdjustConfig() error {
	switch cfg.Mode {
	case "":
		cfg.Mode = ModeRegular
	case ModeRegular, ModeStress:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}

	if cfg.Thresholds == nil {
		cfg.Thresholds = DefaultThresholds()
	}

	if cfg.CachedTime.Enabled() && cfg.CachedTime.Resolution <= 0 {
		cfg.CachedTime.Resolution = defaultCachedTimeResolution
	}

	if cfg.Driver.Enabled() && cfg.Driver.MaxCyclesPerSec <= 0 {
		cfg.Driver.MaxCyclesPerSec = defaultMaxCyclesPerSec
	}

	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval <= 0 {
		cfg.Telemetry.Interval = defaultTelemetryInterval
	}

	return nil
}

func LoadConfig(path string) (*Scheduler, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Scheduler
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if cfg == nil {
		cfg = &Scheduler{}
	}
	if err = cfg.AdjustConfig(); err != nil {
		return nil, fmt.Errorf("adjust config from %s: %w", path, err)
	}

	return cfg, nil
}
