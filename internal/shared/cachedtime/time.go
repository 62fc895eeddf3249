package cachedtime

import (
	"context"
	"github.com/benbjohnson/clock"
	"sync/atomic"
	"time"
)

// Monotonic returns a nanosecond source counting from the moment it was created.
// It relies on the monotonic reading of clk and never goes backwards.
func Monotonic(clk clock.Clock) func() uint64 {
	start := clk.Now()
	return func() uint64 {
		return uint64(clk.Since(start))
	}
}

// Source caches a monotonic nanosecond reading refreshed once per resolution.
// Reads are a single atomic load. After ctx is done it falls back to reading the clock.
type Source struct {
	nowNs  atomic.Uint64
	closed atomic.Bool
	read   func() uint64
}

const defaultResolution = 10 * time.Millisecond

func New(ctx context.Context, clk clock.Clock, resolution time.Duration) *Source {
	if resolution <= 0 {
		resolution = defaultResolution
	}

	s := &Source{read: Monotonic(clk)}
	s.nowNs.Store(s.read())

	ticker := clk.Ticker(resolution)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.closed.Store(true)
				return
			case <-ticker.C:
				s.refresh()
			}
		}
	}()

	return s
}

// NowNs never returns less than a previously returned value.
func (s *Source) NowNs() uint64 {
	if s.closed.Load() {
		s.refresh()
	}
	return s.nowNs.Load()
}

func (s *Source) refresh() {
	now := s.read()
	for {
		prev := s.nowNs.Load()
		if now <= prev || s.nowNs.CompareAndSwap(prev, now) {
			return
		}
	}
}
