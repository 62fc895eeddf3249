package telemetry

import (
	"context"
	"github.com/Borislavv/go-gc-trigger/config"
	"github.com/Borislavv/go-gc-trigger/internal/decision"
	"github.com/Borislavv/go-gc-trigger/internal/driver"
	"github.com/Borislavv/go-gc-trigger/internal/shared/bytes"
	"github.com/Borislavv/go-gc-trigger/internal/tunables"
	"github.com/benbjohnson/clock"
	"log/slog"
	"time"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.Scheduler
	logger   *slog.Logger
	clock    clock.Clock
	tunables *tunables.Config
	gcData   *decision.GCData
	driver   driver.Driver
	interval time.Duration
}

func New(
	ctx context.Context,
	cfg *config.Scheduler,
	logger *slog.Logger,
	clk clock.Clock,
	tunables *tunables.Config,
	gcData *decision.GCData,
	driver driver.Driver,
) *Logs {
	var interval time.Duration
	if cfg.Telemetry.Enabled() {
		interval = cfg.Telemetry.Interval
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&Logs{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger,
		clock:    clk,
		tunables: tunables,
		gcData:   gcData,
		driver:   driver,
		interval: interval,
	}).run()
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

func (l *Logs) Close() error {
	l.cancel()
	return nil
}

func (l *Logs) run() *Logs {
	if l.cfg.Telemetry.Enabled() && l.interval > 0 {
		// ticker exists before New returns
		go l.loop(l.clock.Ticker(l.interval))
	}
	return l
}

func (l *Logs) loop(ticker *clock.Ticker) {
	defer ticker.Stop()

	s := newSampler(l.gcData, l.driver)
	prev := s.snapshot()

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			cur := s.snapshot()
			d := deltaSnapshot(prev, cur)
			prev = cur

			common := []any{"interval", l.interval.String(), "mode", string(l.cfg.Mode)}
			tv := l.tunables.Snapshot()

			l.logger.Info("gc_tunables",
				append(common,
					"safepoint_threshold", tv.SafepointThreshold,
					"allocation_threshold", bytes.FmtThreshold(tv.AllocationThresholdBytes),
					"cooldown", time.Duration(tv.CooldownNs).String(),
					"auto_tune", tv.AutoTune,
				)...,
			)

			if l.cfg.IsStress() {
				l.logger.Info("gc_stress",
					append(common,
						"new_sites", int64(d.stressNewSites),
						"known_sites", int64(d.stressKnownSites),
						"met_sites_total", l.gcData.ExercisedSites(),
					)...,
				)
			} else {
				l.logger.Info("gc_decision",
					append(common,
						"escalations", int64(d.regularCalls),
						"by_bytes", int64(d.regularByBytes),
						"by_time", int64(d.regularByTime),
						"since_last_full_gc", time.Duration(l.gcData.SinceLastFullGC()).String(),
					)...,
				)
			}

			if l.cfg.Driver.Enabled() {
				l.logger.Info("gc_driver",
					append(common,
						"requested", int64(d.driverRequested),
						"coalesced", int64(d.driverCoalesced),
						"cycles", int64(d.driverCycles),
						"full_gcs", int64(d.fullGCs),
					)...,
				)
			}
		}
	}
}
