package config

import "time"

const (
	// DefaultSafepointThreshold is roughly one escalation per 10ms of safepoint traffic.
	DefaultSafepointThreshold uint64 = 100_000
	// DefaultAllocationThresholdBytes is 10MiB.
	DefaultAllocationThresholdBytes uint64 = 10 * 1024 * 1024
	// DefaultCooldown is the minimum age of the last full GC before a staleness-based request.
	DefaultCooldown = 200 * time.Millisecond
)

// ThresholdsCfg holds values of the process-wide tunables.
// Zero is a valid value for every field and means "escalate on the first trigger point".
type ThresholdsCfg struct {
	// SafepointCounter is the accumulated trigger weight a thread reaches before it escalates.
	SafepointCounter uint64 `yaml:"safepoint_counter"`

	// AllocationBytes is the accumulated allocation size a thread reaches before it escalates.
	// The regular policy also compares the escalated byte count against it.
	AllocationBytes uint64 `yaml:"allocation_bytes"`

	// Cooldown is the minimum time since the last full GC before the regular policy
	// asks for a collection regardless of allocation volume.
	// Example: "200ms".
	Cooldown time.Duration `yaml:"cooldown"`

	// AutoTune is reserved. It is stored and reported but nothing acts on it.
	AutoTune bool `yaml:"auto_tune"`
}

func DefaultThresholds() *ThresholdsCfg {
	return &ThresholdsCfg{
		SafepointCounter: DefaultSafepointThreshold,
		AllocationBytes:  DefaultAllocationThresholdBytes,
		Cooldown:         DefaultCooldown,
	}
}
