package driver

import "time"

// NoOpDriver drops every request and reports zero metrics.
type NoOpDriver struct{}

// Request always returns false.
func (NoOpDriver) Request() bool {
	return false
}

// ForceCall does nothing and returns nil immediately.
func (NoOpDriver) ForceCall(timeout time.Duration) error {
	return nil
}

// DriverMetrics always returns zero values.
func (NoOpDriver) DriverMetrics() (requested, coalesced, cycles int64) {
	return 0, 0, 0
}

// Close does nothing and returns nil.
func (NoOpDriver) Close() error {
	return nil
}
