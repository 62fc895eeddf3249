package telemetry

import (
	"github.com/Borislavv/go-gc-trigger/internal/decision"
	"github.com/Borislavv/go-gc-trigger/internal/driver"
)

type sampler struct {
	gcData *decision.GCData
	driver driver.Driver
}

func newSampler(d *decision.GCData, drv driver.Driver) sampler {
	return sampler{gcData: d, driver: drv}
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	regularCalls     uint64
	regularByBytes   uint64
	regularByTime    uint64
	stressNewSites   uint64
	stressKnownSites uint64
	fullGCs          uint64

	driverRequested uint64
	driverCoalesced uint64
	driverCycles    uint64
}

func (s sampler) snapshot() snapshot {
	m := s.gcData.Metrics()
	requested, coalesced, cycles := s.driver.DriverMetrics()

	return snapshot{
		regularCalls:     uint64(max(m.RegularCalls, 0)),
		regularByBytes:   uint64(max(m.RegularByBytes, 0)),
		regularByTime:    uint64(max(m.RegularByTime, 0)),
		stressNewSites:   uint64(max(m.StressNewSites, 0)),
		stressKnownSites: uint64(max(m.StressKnownSites, 0)),
		fullGCs:          uint64(max(m.FullGCs, 0)),

		driverRequested: uint64(max(requested, 0)),
		driverCoalesced: uint64(max(coalesced, 0)),
		driverCycles:    uint64(max(cycles, 0)),
	}
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		regularCalls:     delta(prev.regularCalls, cur.regularCalls),
		regularByBytes:   delta(prev.regularByBytes, cur.regularByBytes),
		regularByTime:    delta(prev.regularByTime, cur.regularByTime),
		stressNewSites:   delta(prev.stressNewSites, cur.stressNewSites),
		stressKnownSites: delta(prev.stressKnownSites, cur.stressKnownSites),
		fullGCs:          delta(prev.fullGCs, cur.fullGCs),

		driverRequested: delta(prev.driverRequested, cur.driverRequested),
		driverCoalesced: delta(prev.driverCoalesced, cur.driverCoalesced),
		driverCycles:    delta(prev.driverCycles, cur.driverCycles),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
