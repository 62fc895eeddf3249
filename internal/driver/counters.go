package driver

import "sync/atomic"

type driverCounters struct {
	requested atomic.Int64 // accepted requests
	coalesced atomic.Int64 // requests merged into an already pending one
	cycles    atomic.Int64 // completed full collections
}

func newDriverCounters() *driverCounters {
	return &driverCounters{
		requested: atomic.Int64{},
		coalesced: atomic.Int64{},
		cycles:    atomic.Int64{},
	}
}

func (c *driverCounters) snapshot() (requested, coalesced, cycles int64) {
	return c.requested.Load(), c.coalesced.Load(), c.cycles.Load()
}
