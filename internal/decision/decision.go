// Package decision holds the state shared by all accumulators of a scheduler and
// implements the two policies they escalate to.
package decision

import (
	"github.com/Borislavv/go-gc-trigger/internal/fingerprint"
	"github.com/Borislavv/go-gc-trigger/internal/tunables"
	"github.com/rs/zerolog/log"
	"sync/atomic"
)

// NowNsFunc returns nanoseconds since an arbitrary fixed point. It must be monotonic.
type NowNsFunc func() uint64

// GCData may be used by any number of goroutines. OnPerformFullGC is expected to be
// called by the goroutine driving collections.
type GCData struct {
	cfg      *tunables.Config
	nowNs    NowNsFunc
	counters *counters

	timeOfLastFullGCNs atomic.Uint64

	// used by the stress policy only; never shrinks
	exercisedSites *fingerprint.Set
}

func New(cfg *tunables.Config, nowNs NowNsFunc) *GCData {
	d := &GCData{
		cfg:            cfg,
		nowNs:          nowNs,
		counters:       newCounters(),
		exercisedSites: fingerprint.NewSet(),
	}
	d.timeOfLastFullGCNs.Store(nowNs())
	return d
}

// DecideRegular asks for a collection when the escalating goroutine allocated more than
// the allocation threshold, or when the last full collection is at least cooldown old.
// triggerWeight is not used.
func (d *GCData) DecideRegular(allocatedBytes, triggerWeight uint64) bool {
	d.counters.regularCalls.Add(1)

	if allocatedBytes > d.cfg.AllocationThresholdBytes() {
		d.counters.regularByBytes.Add(1)
		return true
	}

	if d.sinceLastFullGC() >= d.cfg.CooldownNs() {
		d.counters.regularByTime.Add(1)
		return true
	}

	return false
}

// DecideStress asks for a collection the first time a call stack reaches it.
// The fingerprint starts at the caller of DecideStress.
//
//go:noinline
func (d *GCData) DecideStress(allocatedBytes, triggerWeight uint64) bool {
	fp := fingerprint.Capture(1)
	if !d.exercisedSites.Insert(fp) {
		d.counters.stressKnownSites.Add(1)
		return false
	}

	d.counters.stressNewSites.Add(1)
	log.Debug().
		Int64("met_sites", d.exercisedSites.Len()).
		Int("depth", len(fp)).
		Msg("[gc-stress] trigger collection on a new safepoint")

	return true
}

// OnPerformFullGC records completion of a full collection.
func (d *GCData) OnPerformFullGC() {
	d.timeOfLastFullGCNs.Store(d.nowNs())
	d.counters.fullGCs.Add(1)
}

func (d *GCData) TimeOfLastFullGC() uint64 { return d.timeOfLastFullGCNs.Load() }
func (d *GCData) ExercisedSites() int64    { return d.exercisedSites.Len() }
func (d *GCData) Metrics() Metrics         { return d.counters.snapshot() }

// SinceLastFullGC returns nanoseconds elapsed since the last reported full collection.
func (d *GCData) SinceLastFullGC() uint64 { return d.sinceLastFullGC() }

func (d *GCData) sinceLastFullGC() uint64 {
	now := d.nowNs()
	last := d.timeOfLastFullGCNs.Load()
	if now < last {
		// completion stored after now was read
		return 0
	}
	return now - last
}
