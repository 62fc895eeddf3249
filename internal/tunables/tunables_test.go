package tunables

import (
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

var defaults = Values{
	SafepointThreshold:       100_000,
	AllocationThresholdBytes: 10 * 1024 * 1024,
	CooldownNs:               uint64(200 * time.Millisecond),
}

// TestNew_Regular keeps initial values.
func TestNew_Regular(t *testing.T) {
	c := New(false, defaults)
	require.Equal(t, defaults, c.Snapshot())
	require.Equal(t, 200*time.Millisecond, c.Cooldown())
	require.False(t, c.AutoTune())
}

// TestNew_Stress forces numeric thresholds to zero and keeps AutoTune as is.
func TestNew_Stress(t *testing.T) {
	in := defaults
	in.AutoTune = true

	c := New(true, in)
	require.Equal(t, uint64(0), c.SafepointThreshold())
	require.Equal(t, uint64(0), c.AllocationThresholdBytes())
	require.Equal(t, uint64(0), c.CooldownNs())
	require.True(t, c.AutoTune())
}

// TestConfig_Setters verifies independent per-field updates.
func TestConfig_Setters(t *testing.T) {
	c := New(false, defaults)

	c.SetSafepointThreshold(7)
	require.Equal(t, uint64(7), c.SafepointThreshold())
	require.Equal(t, defaults.AllocationThresholdBytes, c.AllocationThresholdBytes())

	c.SetAllocationThresholdBytes(0)
	require.Equal(t, uint64(0), c.AllocationThresholdBytes())

	c.SetCooldownNs(42)
	require.Equal(t, uint64(42), c.CooldownNs())

	c.SetAutoTune(true)
	require.True(t, c.AutoTune())
}

// TestConfig_ConcurrentAccess verifies that concurrent readers never see a value
// other than one of the written ones.
func TestConfig_ConcurrentAccess(t *testing.T) {
	c := New(false, defaults)

	const writers, readers, ops = 4, 8, 1000

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < ops; j++ {
				if j%2 == 0 {
					c.SetSafepointThreshold(1)
				} else {
					c.SetSafepointThreshold(2)
				}
			}
		}()
	}
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < ops; j++ {
				v := c.SafepointThreshold()
				if v != 1 && v != 2 && v != defaults.SafepointThreshold {
					t.Errorf("unexpected threshold %d", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}
