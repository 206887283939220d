package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/workpulse-hq/timetrack-backend-go/internal/config"
	"github.com/workpulse-hq/timetrack-backend-go/internal/domain/contractor"
	"github.com/workpulse-hq/timetrack-backend-go/internal/service/autoclock"
)

type AutoClockJobs struct {
	engine *autoclock.Engine
	cfg    config.AutoClockConfig
	now    func() time.Time
}

func NewAutoClockJobs(engine *autoclock.Engine, cfg config.AutoClockConfig) *AutoClockJobs {
	return &AutoClockJobs{
		engine: engine,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (j *AutoClockJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("autoclock_proactive_daily", j.cfg.TickInterval, j.RunProactiveDaily)
	scheduler.AddJob("autoclock_reactive_daily", j.cfg.TickInterval, j.RunReactiveDaily)
	scheduler.AddJob("autoclock_weekly_batch", j.cfg.TickInterval, j.RunWeeklyBatch)
}

// RunProactiveDaily generates today's entries near the start of the day.
func (j *AutoClockJobs) RunProactiveDaily(ctx context.Context) error {
	if j.now().UTC().Hour() != j.cfg.ProactiveHour {
		return nil
	}

	slog.Info("Cron: Starting proactive auto-clocking cycle")
	result, err := j.engine.RunDailyCycle(ctx, contractor.ModeProactive, time.Time{})
	if err != nil {
		return err
	}
	slog.Info("Cron: Proactive auto-clocking cycle finished",
		"processed", result.Processed, "created", result.Created, "failed", result.Failed)
	return nil
}

// RunReactiveDaily generates today's entries near the end of the day, so
// a contractor who reported an exception during the day is not clocked.
func (j *AutoClockJobs) RunReactiveDaily(ctx context.Context) error {
	if j.now().UTC().Hour() != j.cfg.ReactiveHour {
		return nil
	}

	slog.Info("Cron: Starting reactive auto-clocking cycle")
	result, err := j.engine.RunDailyCycle(ctx, contractor.ModeReactive, time.Time{})
	if err != nil {
		return err
	}
	slog.Info("Cron: Reactive auto-clocking cycle finished",
		"processed", result.Processed, "created", result.Created, "failed", result.Failed)
	return nil
}

// RunWeeklyBatch generates the whole work week on Monday mornings.
func (j *AutoClockJobs) RunWeeklyBatch(ctx context.Context) error {
	now := j.now().UTC()
	if now.Weekday() != time.Monday || now.Hour() != j.cfg.ProactiveHour {
		return nil
	}

	slog.Info("Cron: Starting weekly batch auto-clocking cycle")
	result, err := j.engine.RunWeeklyCycle(ctx, now)
	if err != nil {
		return err
	}
	slog.Info("Cron: Weekly batch auto-clocking cycle finished",
		"processed", result.Processed, "created", result.Created, "failed", result.Failed)
	return nil
}
