// Package tunables holds the process-wide thresholds consulted by thread accumulators
// and by the global decision. Every field is an independent atomic; there is no
// cross-field invariant and readers may observe a mix of old and new values.
package tunables

import (
	"sync/atomic"
	"time"
)

// Values is a plain copy of the tunables.
type Values struct {
	SafepointThreshold       uint64
	AllocationThresholdBytes uint64
	CooldownNs               uint64
	AutoTune                 bool
}

// Config is shared by every accumulator of a scheduler and outlives all of them.
type Config struct {
	safepointThreshold       atomic.Uint64
	allocationThresholdBytes atomic.Uint64
	cooldownNs               atomic.Uint64
	autoTune                 atomic.Bool // reserved
}

// New builds tunables from initial values. In stress mode all numeric thresholds
// are forced to zero so that every trigger point escalates.
func New(stress bool, initial Values) *Config {
	c := &Config{}
	c.Apply(initial)
	if stress {
		c.safepointThreshold.Store(0)
		c.allocationThresholdBytes.Store(0)
		c.cooldownNs.Store(0)
	}
	return c
}

func (c *Config) SafepointThreshold() uint64       { return c.safepointThreshold.Load() }
func (c *Config) AllocationThresholdBytes() uint64 { return c.allocationThresholdBytes.Load() }
func (c *Config) CooldownNs() uint64               { return c.cooldownNs.Load() }
func (c *Config) Cooldown() time.Duration          { return time.Duration(c.cooldownNs.Load()) }
func (c *Config) AutoTune() bool                   { return c.autoTune.Load() }

func (c *Config) SetSafepointThreshold(v uint64)       { c.safepointThreshold.Store(v) }
func (c *Config) SetAllocationThresholdBytes(v uint64) { c.allocationThresholdBytes.Store(v) }
func (c *Config) SetCooldownNs(v uint64)               { c.cooldownNs.Store(v) }
func (c *Config) SetAutoTune(v bool)                   { c.autoTune.Store(v) }

// Apply stores every field. Each store is independent.
func (c *Config) Apply(v Values) {
	c.safepointThreshold.Store(v.SafepointThreshold)
	c.allocationThresholdBytes.Store(v.AllocationThresholdBytes)
	c.cooldownNs.Store(v.CooldownNs)
	c.autoTune.Store(v.AutoTune)
}

func (c *Config) Snapshot() Values {
	return Values{
		SafepointThreshold:       c.safepointThreshold.Load(),
		AllocationThresholdBytes: c.allocationThresholdBytes.Load(),
		CooldownNs:               c.cooldownNs.Load(),
		AutoTune:                 c.autoTune.Load(),
	}
}
