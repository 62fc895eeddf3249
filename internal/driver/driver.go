package driver

import (
	"context"
	"errors"
	"github.com/Borislavv/go-gc-trigger/config"
	"github.com/Borislavv/go-gc-trigger/internal/shared/rate"
	"github.com/benbjohnson/clock"
	"log/slog"
	"time"
)

var ErrDriverNotResponded = errors.New("collection driver not responded")

// Driver turns positive decisions into full collections.
type Driver interface {
	// Request asks for a collection without blocking. It returns false if the request
	// was merged into one that is already pending.
	Request() bool
	// ForceCall blocks until the request is accepted or timeout expires.
	// It returns the context error once the driver is closed.
	ForceCall(timeout time.Duration) error
	DriverMetrics() (requested, coalesced, cycles int64)
	Close() error
}

// Completer receives the completion of every full collection.
type Completer interface {
	OnPerformFullGC()
}

type CollectionWorker struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       *config.DriverCfg
	logger    *slog.Logger
	completer Completer
	collect   func()
	jitter    *rate.Jitter
	counters  *driverCounters
	invokeCh  chan struct{}
}

// New starts a driver. collect performs one full collection synchronously.
func New(
	ctx context.Context,
	cfg *config.DriverCfg,
	logger *slog.Logger,
	clk clock.Clock,
	completer Completer,
	collect func(),
) Driver {
	if !cfg.Enabled() {
		return &NoOpDriver{}
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&CollectionWorker{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		logger:    logger,
		completer: completer,
		collect:   collect,
		jitter:    rate.NewJitter(ctx, cfg.MaxCyclesPerSec, clk),
		counters:  newDriverCounters(),
		invokeCh:  make(chan struct{}, 1),
	}).run()
}

func (w *CollectionWorker) Request() bool {
	if w.ctx.Err() != nil {
		return false
	}
	select {
	case w.invokeCh <- struct{}{}:
		w.counters.requested.Add(1)
		return true
	default:
		w.counters.coalesced.Add(1)
		return false
	}
}

func (w *CollectionWorker) ForceCall(timeout time.Duration) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	after := time.NewTimer(timeout)
	defer after.Stop()

	select {
	case <-w.ctx.Done():
		return w.ctx.Err()
	case w.invokeCh <- struct{}{}:
		w.counters.requested.Add(1)
	case <-after.C:
		return ErrDriverNotResponded
	}
	return nil
}

func (w *CollectionWorker) DriverMetrics() (requested, coalesced, cycles int64) {
	return w.counters.snapshot()
}

func (w *CollectionWorker) Close() error {
	w.cancel()
	return nil
}

func (w *CollectionWorker) run() *CollectionWorker {
	w.logger.Info("collection driver is running", "max_cycles_per_sec", w.cfg.MaxCyclesPerSec)
	go w.consumer()
	return w
}

// consumer performs one collection per pending request, no more often than the jitter allows.
func (w *CollectionWorker) consumer() {
	defer w.logger.Info("collection driver is stopped")

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.invokeCh:
		}

		select {
		case <-w.ctx.Done():
			return
		case _, ok := <-w.jitter.Chan():
			if !ok {
				return
			}
		}

		w.collect()
		w.completer.OnPerformFullGC()
		w.counters.cycles.Add(1)
	}
}
