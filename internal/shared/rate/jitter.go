package rate

import (
	"context"
	"github.com/benbjohnson/clock"
	"go.uber.org/ratelimit"
)

// Jitter hands out at most limit tokens per second through a buffered channel.
// Up to 10% of limit (at least one) tokens may be banked while nobody takes them.
type Jitter struct {
	ch    chan struct{}
	l     ratelimit.Limiter
	limit int
}

func NewJitter(ctx context.Context, limit int, clk clock.Clock) *Jitter {
	if limit < 1 {
		limit = 1
	}
	brst := int(float64(limit) * 0.1)
	if brst < 1 {
		brst = 1
	}
	jitter := &Jitter{
		limit: limit,
		ch:    make(chan struct{}, brst),
		l:     ratelimit.New(limit, ratelimit.WithClock(clk)),
	}
	go jitter.provider(ctx)
	return jitter
}

func (l *Jitter) provider(ctx context.Context) {
	defer close(l.ch)
	for {
		l.l.Take()
		select {
		case <-ctx.Done():
			return
		case l.ch <- struct{}{}:
		}
	}
}

// Take blocks until a token is available. It returns false once the context is done.
func (l *Jitter) Take() bool {
	_, ok := <-l.ch
	return ok
}

func (l *Jitter) Chan() <-chan struct{} {
	return l.ch
}

func (l *Jitter) Limit() int {
	return l.limit
}
