package gctrigger

import (
	"github.com/benbjohnson/clock"
	"runtime"
)

type options struct {
	clock   clock.Clock
	nowNs   func() uint64
	collect func()
}

func defaultOptions() *options {
	return &options{
		clock:   clock.New(),
		collect: runtime.GC,
	}
}

// Option configures a Scheduler built by [New].
type Option func(*options)

// WithClock replaces the wall clock used by time sources and the collection driver.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		if clk != nil {
			o.clock = clk
		}
	}
}

// WithTimeSource overrides the nanosecond source used by the staleness check.
// It takes precedence over both the cached time config and WithClock.
func WithTimeSource(nowNs func() uint64) Option {
	return func(o *options) {
		o.nowNs = nowNs
	}
}

// WithCollector replaces runtime.GC as the collection performed by the driver.
func WithCollector(collect func()) Option {
	return func(o *options) {
		if collect != nil {
			o.collect = collect
		}
	}
}
