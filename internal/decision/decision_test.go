package decision

import (
	"github.com/Borislavv/go-gc-trigger/internal/tunables"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	allocThreshold = 10 * 1024 * 1024
	cooldown       = 200 * time.Millisecond
)

func newData(t *testing.T) (*GCData, *clock.Mock, *tunables.Config) {
	t.Helper()
	mock := clock.NewMock()
	cfg := tunables.New(false, tunables.Values{
		SafepointThreshold:       100_000,
		AllocationThresholdBytes: allocThreshold,
		CooldownNs:               uint64(cooldown),
	})
	return New(cfg, func() uint64 { return uint64(mock.Now().UnixNano()) }), mock, cfg
}

// TestNew_StampsLastFullGC initializes the last full GC with the current time.
func TestNew_StampsLastFullGC(t *testing.T) {
	mock := clock.NewMock()
	mock.Add(time.Hour)
	d := New(tunables.New(false, tunables.Values{}), func() uint64 { return uint64(mock.Now().UnixNano()) })

	require.Equal(t, uint64(mock.Now().UnixNano()), d.TimeOfLastFullGC())
	require.Equal(t, uint64(0), d.SinceLastFullGC())
}

// TestDecideRegular_ByBytes is true above the allocation threshold regardless of time.
func TestDecideRegular_ByBytes(t *testing.T) {
	d, _, _ := newData(t)

	require.True(t, d.DecideRegular(allocThreshold+1, 0))
	require.False(t, d.DecideRegular(allocThreshold, 0))
	require.False(t, d.DecideRegular(0, 1_000_000))

	m := d.Metrics()
	require.Equal(t, int64(3), m.RegularCalls)
	require.Equal(t, int64(1), m.RegularByBytes)
	require.Equal(t, int64(0), m.RegularByTime)
}

// TestDecideRegular_ByTime is true once cooldown elapsed regardless of bytes.
func TestDecideRegular_ByTime(t *testing.T) {
	d, mock, _ := newData(t)

	mock.Add(cooldown - time.Nanosecond)
	require.False(t, d.DecideRegular(0, 0))

	mock.Add(time.Nanosecond)
	require.True(t, d.DecideRegular(0, 0))
	require.True(t, d.DecideRegular(allocThreshold, 0))

	require.Equal(t, int64(2), d.Metrics().RegularByTime)
}

// TestOnPerformFullGC_RestartsCooldown verifies that completion is consumed by the staleness check.
func TestOnPerformFullGC_RestartsCooldown(t *testing.T) {
	d, mock, _ := newData(t)

	mock.Add(time.Second)
	require.True(t, d.DecideRegular(0, 0))

	d.OnPerformFullGC()
	require.Equal(t, uint64(mock.Now().UnixNano()), d.TimeOfLastFullGC())
	require.False(t, d.DecideRegular(0, 0))

	mock.Add(cooldown)
	require.True(t, d.DecideRegular(0, 0))
	require.Equal(t, int64(1), d.Metrics().FullGCs)
}

// TestDecideRegular_ReadsTunablesOnEveryCall verifies that the shared policy sees tuning immediately.
func TestDecideRegular_ReadsTunablesOnEveryCall(t *testing.T) {
	d, mock, cfg := newData(t)

	mock.Add(50 * time.Millisecond)
	require.False(t, d.DecideRegular(100, 0))

	cfg.SetAllocationThresholdBytes(99)
	require.True(t, d.DecideRegular(100, 0))

	cfg.SetAllocationThresholdBytes(allocThreshold)
	cfg.SetCooldownNs(uint64(50 * time.Millisecond))
	require.True(t, d.DecideRegular(100, 0))
}

// TestDecideRegular_StaleTimestamp treats a completion newer than now as zero elapsed time.
func TestDecideRegular_StaleTimestamp(t *testing.T) {
	d, _, cfg := newData(t)
	d.timeOfLastFullGCNs.Store(uint64(time.Hour))

	require.Equal(t, uint64(0), d.SinceLastFullGC())
	require.False(t, d.DecideRegular(0, 0))

	cfg.SetCooldownNs(0)
	require.True(t, d.DecideRegular(0, 0))
}

//go:noinline
func stressSiteA(d *GCData) bool { return d.DecideStress(0, 0) }

//go:noinline
func stressSiteB(d *GCData) bool { return d.DecideStress(0, 0) }

// TestDecideStress_OncePerStack is true on the first visit of a stack and false afterwards.
func TestDecideStress_OncePerStack(t *testing.T) {
	d, _, _ := newData(t)

	var got []bool
	for i := 0; i < 3; i++ {
		got = append(got, stressSiteA(d))
	}
	require.Equal(t, []bool{true, false, false}, got)

	m := d.Metrics()
	require.Equal(t, int64(1), m.StressNewSites)
	require.Equal(t, int64(2), m.StressKnownSites)
	require.Equal(t, int64(1), d.ExercisedSites())
}

// TestDecideStress_DistinctStacks is true for each distinct stack.
func TestDecideStress_DistinctStacks(t *testing.T) {
	d, _, _ := newData(t)

	require.True(t, stressSiteA(d))
	require.True(t, stressSiteB(d))
	require.Equal(t, int64(2), d.ExercisedSites())
}

// TestDecideStress_IgnoresTime does not look at tunables or the clock.
func TestDecideStress_IgnoresTime(t *testing.T) {
	d, mock, _ := newData(t)

	require.True(t, stressSiteA(d))
	mock.Add(time.Hour)
	d.OnPerformFullGC()
	require.False(t, stressSiteA(d))
}

// TestDecideStress_ConcurrentExactlyOnce verifies a single winner among racing callers
// sharing one fingerprint.
func TestDecideStress_ConcurrentExactlyOnce(t *testing.T) {
	d, _, _ := newData(t)

	const goroutines = 64

	var (
		wg   sync.WaitGroup
		wins atomic.Int64
		gate = make(chan struct{})
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-gate
			if stressSiteA(d) {
				wins.Add(1)
			}
		}()
	}
	close(gate)
	wg.Wait()

	require.Equal(t, int64(1), wins.Load())
	require.Equal(t, int64(1), d.ExercisedSites())
	require.Equal(t, int64(goroutines-1), d.Metrics().StressKnownSites)
}

// TestDecideRegular_ConcurrentWithCompletion runs readers against a single writer.
func TestDecideRegular_ConcurrentWithCompletion(t *testing.T) {
	d, mock, _ := newData(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				d.DecideRegular(uint64(j), 0)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			mock.Add(time.Millisecond)
			d.OnPerformFullGC()
		}
	}()
	wg.Wait()

	require.Equal(t, int64(8000), d.Metrics().RegularCalls)
	require.Equal(t, int64(100), d.Metrics().FullGCs)
}

//go:noinline
func stressRecurse(d *GCData, depth int) bool {
	if depth == 0 {
		return d.DecideStress(0, 0)
	}
	return stressRecurse(d, depth-1)
}

//go:noinline
func deepCallerA(d *GCData) bool { return stressRecurse(d, 80) }

//go:noinline
func deepCallerB(d *GCData) bool { return stressRecurse(d, 80) }

// TestDecideStress_DeepStacksStayDistinct separates paths that differ only far from the trigger site.
func TestDecideStress_DeepStacksStayDistinct(t *testing.T) {
	d, _, _ := newData(t)

	var gotA, gotB []bool
	for i := 0; i < 2; i++ {
		gotA = append(gotA, deepCallerA(d))
		gotB = append(gotB, deepCallerB(d))
	}

	require.Equal(t, []bool{true, false}, gotA)
	require.Equal(t, []bool{true, false}, gotB)
	require.Equal(t, int64(2), d.ExercisedSites())
}
