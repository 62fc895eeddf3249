// Package accumulator implements the per-goroutine side of the trigger engine.
//
// A ThreadData counts trigger points and allocated bytes locally and only consults
// the shared decision once a cached threshold is crossed. The fast path is an add and
// a compare: no atomics, no locks, no allocations.
package accumulator

import "github.com/Borislavv/go-gc-trigger/internal/tunables"

// Weights of the trigger points placed by instrumentation.
const (
	FunctionEpilogueWeight uint64 = 1
	LoopBodyWeight         uint64 = 1
	ExceptionUnwindWeight  uint64 = 1
)

// DecideFunc is the shared decision a ThreadData escalates to.
// It may be called concurrently by many accumulators.
type DecideFunc func(allocatedBytes, triggerWeight uint64) bool

// ThreadData is owned by exactly one goroutine and must not be shared.
type ThreadData struct {
	cfg    *tunables.Config
	decide DecideFunc

	triggerWeight    uint64
	triggerThreshold uint64
	allocatedBytes   uint64
	bytesThreshold   uint64
}

func New(cfg *tunables.Config, decide DecideFunc) *ThreadData {
	td := &ThreadData{cfg: cfg, decide: decide}
	td.clearCountersAndUpdateThresholds()
	return td
}

// OnRegularTriggerPoint must be called on every regular trigger point
// (function epilogue, loop back-edge, exception unwind).
func (td *ThreadData) OnRegularTriggerPoint(weight uint64) bool {
	td.triggerWeight += weight
	if td.triggerWeight < td.triggerThreshold {
		return false
	}
	return td.slowPath()
}

// OnAllocationTriggerPoint must be called by the allocator with the allocation size.
func (td *ThreadData) OnAllocationTriggerPoint(size uint64) bool {
	td.allocatedBytes += size
	if td.allocatedBytes < td.bytesThreshold {
		return false
	}
	return td.slowPath()
}

// OnStoppedForGC is called when the owning goroutine is parked for a collection.
// Pressure accumulated before the collection is dropped.
func (td *ThreadData) OnStoppedForGC() {
	td.clearCountersAndUpdateThresholds()
}

func (td *ThreadData) AccumulatedTriggerWeight() uint64 { return td.triggerWeight }
func (td *ThreadData) AccumulatedBytes() uint64         { return td.allocatedBytes }
func (td *ThreadData) TriggerThreshold() uint64         { return td.triggerThreshold }
func (td *ThreadData) BytesThreshold() uint64           { return td.bytesThreshold }

// slowPath resets the counters whatever the decision is.
func (td *ThreadData) slowPath() bool {
	result := td.decide(td.allocatedBytes, td.triggerWeight)
	td.clearCountersAndUpdateThresholds()
	return result
}

// clearCountersAndUpdateThresholds is the only place the tunables are read.
// Threshold changes made in between are picked up here and nowhere else.
func (td *ThreadData) clearCountersAndUpdateThresholds() {
	td.triggerWeight = 0
	td.allocatedBytes = 0

	td.triggerThreshold = td.cfg.SafepointThreshold()
	td.bytesThreshold = td.cfg.AllocationThresholdBytes()
}
