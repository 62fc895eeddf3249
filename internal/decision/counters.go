package decision

import "sync/atomic"

// counters are touched on the escalation path only.
type counters struct {
	regularCalls     atomic.Int64 // DecideRegular invocations
	regularByBytes   atomic.Int64 // positive decisions caused by allocation volume
	regularByTime    atomic.Int64 // positive decisions caused by staleness
	stressNewSites   atomic.Int64 // DecideStress invocations on a never seen stack
	stressKnownSites atomic.Int64 // DecideStress invocations on an already exercised stack
	fullGCs          atomic.Int64 // OnPerformFullGC invocations
}

func newCounters() *counters {
	return &counters{}
}

func (c *counters) snapshot() Metrics {
	return Metrics{
		RegularCalls:     c.regularCalls.Load(),
		RegularByBytes:   c.regularByBytes.Load(),
		RegularByTime:    c.regularByTime.Load(),
		StressNewSites:   c.stressNewSites.Load(),
		StressKnownSites: c.stressKnownSites.Load(),
		FullGCs:          c.fullGCs.Load(),
	}
}

// Metrics is a point-in-time copy of cumulative decision counters.
type Metrics struct {
	RegularCalls     int64
	RegularByBytes   int64
	RegularByTime    int64
	StressNewSites   int64
	StressKnownSites int64
	FullGCs          int64
}
