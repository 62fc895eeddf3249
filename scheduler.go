// Package gctrigger decides, cheaply and from any goroutine, when a garbage collection
// should be requested.
//
// Every mutator goroutine owns a [ThreadData] obtained from [Scheduler.NewThreadAccumulator]
// and reports trigger points to it. Accumulators count locally and escalate to the shared
// decision only after crossing a threshold snapshotted from the scheduler tunables. A true
// result means "request a collection"; performing it and reporting its completion through
// GCData().OnPerformFullGC is up to the caller, or to the built-in driver when configured.
package gctrigger

import (
	"context"
	"github.com/Borislavv/go-gc-trigger/config"
	"github.com/Borislavv/go-gc-trigger/internal/accumulator"
	"github.com/Borislavv/go-gc-trigger/internal/decision"
	"github.com/Borislavv/go-gc-trigger/internal/driver"
	"github.com/Borislavv/go-gc-trigger/internal/shared/cachedtime"
	"github.com/Borislavv/go-gc-trigger/internal/telemetry"
	"github.com/Borislavv/go-gc-trigger/internal/tunables"
	"github.com/rs/zerolog/log"
	"io"
	"log/slog"
	"time"
)

// Weights of regular trigger points.
const (
	FunctionEpilogueWeight = accumulator.FunctionEpilogueWeight
	LoopBodyWeight         = accumulator.LoopBodyWeight
	ExceptionUnwindWeight  = accumulator.ExceptionUnwindWeight
)

type (
	ThreadData = accumulator.ThreadData
	Tunables   = tunables.Config
	GCData     = decision.GCData
)

type GCScheduler interface {
	NewThreadAccumulator() *ThreadData
	Config() *Tunables
	GCData() *GCData
	Tune(t config.ThresholdsCfg)
	RequestCollection() bool
	io.Closer
}

var _ GCScheduler = (*Scheduler)(nil)

type Scheduler struct {
	cfg       *config.Scheduler
	logger    *slog.Logger
	tunables  *tunables.Config
	gcData    *decision.GCData
	driver    driver.Driver
	telemetry telemetry.Logger
	cls       context.CancelFunc
}

// New builds a scheduler. cfg must have been adjusted (see config.LoadConfig).
// The mode is resolved here once and never changes afterwards.
func New(ctx context.Context, cfg *config.Scheduler, logger *slog.Logger, opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	ctx, cancel := context.WithCancel(ctx)

	nowNs := o.nowNs
	if nowNs == nil {
		if cfg.CachedTime.Enabled() {
			nowNs = cachedtime.New(ctx, o.clock, cfg.CachedTime.Resolution).NowNs
		} else {
			nowNs = cachedtime.Monotonic(o.clock)
		}
	}

	tv := tunables.New(cfg.IsStress(), thresholdsToValues(cfg.Thresholds))
	gcData := decision.New(tv, nowNs)
	drv := driver.New(ctx, cfg.Driver, logger, o.clock, gcData, o.collect)
	logs := telemetry.New(ctx, cfg, logger, o.clock, tv, gcData, drv)

	logger.Info("gc scheduler is running",
		"mode", string(cfg.Mode),
		"safepoint_threshold", tv.SafepointThreshold(),
		"allocation_threshold_bytes", tv.AllocationThresholdBytes(),
		"cooldown", tv.Cooldown().String(),
	)

	return &Scheduler{
		cfg:       cfg,
		logger:    logger,
		tunables:  tv,
		gcData:    gcData,
		driver:    drv,
		telemetry: logs,
		cls:       cancel,
	}
}

// NewThreadAccumulator must be called once per mutator goroutine. The result belongs to that goroutine.
func (s *Scheduler) NewThreadAccumulator() *ThreadData {
	log.Debug().
		Str("mode", string(s.cfg.Mode)).
		Msg("[gc-scheduler] new thread accumulator")

	if s.cfg.IsStress() {
		return accumulator.New(s.tunables, s.gcData.DecideStress)
	}
	return accumulator.New(s.tunables, s.gcData.DecideRegular)
}

// Config gives the tuning agent access to the tunables.
func (s *Scheduler) Config() *Tunables { return s.tunables }

// GCData gives the collection driver access to the shared decision state.
func (s *Scheduler) GCData() *GCData { return s.gcData }

// Driver returns the built-in collection driver; a no-op one when it is not configured.
func (s *Scheduler) Driver() driver.Driver { return s.driver }

// Tune stores new thresholds. Accumulators pick them up at their next reset.
func (s *Scheduler) Tune(t config.ThresholdsCfg) {
	s.tunables.Apply(thresholdsToValues(&t))
	s.logger.Info("gc scheduler is tuned",
		"safepoint_threshold", t.SafepointCounter,
		"allocation_threshold_bytes", t.AllocationBytes,
		"cooldown", t.Cooldown.String(),
		"auto_tune", t.AutoTune,
	)
}

// RequestCollection hands a positive decision to the built-in driver.
func (s *Scheduler) RequestCollection() bool {
	return s.driver.Request()
}

func (s *Scheduler) Close() error {
	s.cls()
	return nil
}

func thresholdsToValues(t *config.ThresholdsCfg) tunables.Values {
	if t == nil {
		t = config.DefaultThresholds()
	}
	return tunables.Values{
		SafepointThreshold:       t.SafepointCounter,
		AllocationThresholdBytes: t.AllocationBytes,
		CooldownNs:               uint64(max(t.Cooldown, time.Duration(0))),
		AutoTune:                 t.AutoTune,
	}
}
