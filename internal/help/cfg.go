package help

import (
	"github.com/Borislavv/go-gc-trigger/config"
	"time"
)

func Cfg() *config.Scheduler {
	c := &config.Scheduler{
		Mode:       config.ModeRegular,
		Thresholds: config.DefaultThresholds(),
	}
	_ = c.AdjustConfig()
	return c
}

func StressCfg() *config.Scheduler {
	c := Cfg()
	c.Mode = config.ModeStress
	return c
}

func DriverCfg() *config.Scheduler {
	c := Cfg()
	c.Driver = &config.DriverCfg{MaxCyclesPerSec: 1000}
	return c
}

func TelemetryCfg(interval time.Duration) *config.Scheduler {
	c := DriverCfg()
	c.Telemetry = &config.TelemetryCfg{Interval: interval}
	return c
}

func CachedTimeCfg() *config.Scheduler {
	c := Cfg()
	c.CachedTime = &config.CachedTimeCfg{Resolution: time.Millisecond}
	return c
}
