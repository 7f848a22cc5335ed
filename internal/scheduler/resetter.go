package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/config"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/domain/recurrence"
	"github.com/phrazzld/goalpost/internal/platform/logger"
	"github.com/phrazzld/goalpost/internal/redact"
	"github.com/phrazzld/goalpost/internal/store"
)

// ResetterConfig holds the settings of the recurring reset loop.
type ResetterConfig struct {
	Location    *time.Location
	Interval    time.Duration
	CallTimeout time.Duration
}

// NewResetterConfig builds a ResetterConfig from the loaded scheduler settings.
func NewResetterConfig(cfg config.SchedulerConfig) ResetterConfig {
	return ResetterConfig{
		Location:    cfg.Location(),
		Interval:    cfg.ResetInterval,
		CallTimeout: cfg.CallTimeout,
	}
}

func (c ResetterConfig) withDefaults() ResetterConfig {
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Interval <= 0 {
		c.Interval = config.DefaultResetInterval
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = config.DefaultCallTimeout
	}
	return c
}

// ResetReport summarizes one reset pass.
type ResetReport struct {
	RanAt     time.Time `json:"ran_at"`
	Completed int       `json:"completed"`
	Recurring int       `json:"recurring"`
	Reset     int       `json:"reset"`
	Failed    int       `json:"failed"`
}

// Resetter reopens completed recurring tasks and advances their due dates.
type Resetter struct {
	store    store.TaskStore
	cfg      ResetterConfig
	logger   *slog.Logger
	timeFunc func() time.Time // Injectable for testing

	mu   sync.Mutex
	last *ResetReport
}

// NewResetter creates a Resetter. Zero-valued config fields take their defaults.
func NewResetter(taskStore store.TaskStore, cfg ResetterConfig, log *slog.Logger) *Resetter {
	if log == nil {
		log = slog.Default()
	}
	return &Resetter{
		store:    taskStore,
		cfg:      cfg.withDefaults(),
		logger:   log.With("component", "resetter"),
		timeFunc: time.Now,
	}
}

// LastReport returns the report of the most recent pass, if any has run.
func (r *Resetter) LastReport() (ResetReport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return ResetReport{}, false
	}
	return *r.last, true
}

// Run performs one pass immediately, then one pass every configured interval
// until ctx is cancelled.
func (r *Resetter) Run(ctx context.Context) {
	r.Tick(logger.WithLogger(ctx, r.logger))
	runTicker(ctx, r.cfg.Interval, r.logger, "reset", r.Tick)
}

// Tick runs one pass and logs its outcome. Panics are recovered.
func (r *Resetter) Tick(ctx context.Context) {
	defer recoverTick(r.logger, "reset")

	ctx = logger.WithCorrelationID(ctx, uuid.NewString())
	report, err := r.ResetOnce(ctx)
	log := tickLogger(ctx, r.logger)
	if err != nil {
		log.Error("reset pass failed", "error", redact.Error(err))
		return
	}
	if report.Recurring > 0 {
		log.Info("reset pass finished",
			"recurring", report.Recurring,
			"reset", report.Reset,
			"failed", report.Failed)
	}
}

// ResetOnce reopens every completed recurring task: the completion flag is
// cleared, the completion counter incremented, and a present due date moved
// to the next occurrence counted from today. Tasks without a due date keep
// none. A failed update is logged and counted; the remaining tasks are still
// processed. Only a failure to fetch the tasks is returned as an error.
func (r *Resetter) ResetOnce(ctx context.Context) (ResetReport, error) {
	now := r.timeFunc().In(r.cfg.Location)
	report := ResetReport{RanAt: now}
	defer r.remember(&report)

	log := tickLogger(ctx, r.logger)

	fetchCtx, cancel := callContext(ctx, r.cfg.CallTimeout)
	tasks, err := r.store.QueryCompleted(fetchCtx)
	cancel()
	if err != nil {
		return report, fmt.Errorf("failed to fetch completed tasks: %w", err)
	}
	report.Completed = len(tasks)

	for _, t := range tasks {
		if !t.Recurrence.IsRecurring() {
			continue
		}
		report.Recurring++

		reopened := reopen(t, now)

		updateCtx, cancel := callContext(ctx, r.cfg.CallTimeout)
		err := r.store.Update(updateCtx, reopened)
		cancel()
		if store.IsNotFoundError(err) {
			log.Warn("recurring task disappeared before reset",
				"task_id", t.ID)
			report.Failed++
			continue
		}
		if err != nil {
			log.Error("failed to reset recurring task",
				"task_id", t.ID,
				"recurrence", t.Recurrence,
				"error", redact.Error(err))
			report.Failed++
			continue
		}

		log.Debug("reset recurring task",
			"task_id", t.ID,
			"recurrence", t.Recurrence,
			"completed_count", reopened.CompletedCount)
		report.Reset++
	}

	return report, nil
}

func (r *Resetter) remember(report *ResetReport) {
	r.mu.Lock()
	last := *report
	r.last = &last
	r.mu.Unlock()
}

// reopen returns the next occurrence of a completed recurring task.
func reopen(t domain.Task, now time.Time) domain.Task {
	t.Completed = false
	t.CompletedCount++
	if t.DueDate != nil {
		t.DueDate = recurrence.AdvanceFromToday(t.Recurrence, now)
	}
	return t
}
