package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/config"
	"github.com/phrazzld/goalpost/internal/contact"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/notify"
	"github.com/phrazzld/goalpost/internal/platform/logger"
	"github.com/phrazzld/goalpost/internal/redact"
	"github.com/phrazzld/goalpost/internal/store"
	"golang.org/x/sync/errgroup"
)

// DispatcherConfig holds the settings of the reminder dispatch loop.
type DispatcherConfig struct {
	Morning     TimeOfDay
	Evening     TimeOfDay
	Tolerance   time.Duration
	Location    *time.Location
	Interval    time.Duration
	CallTimeout time.Duration
	Concurrency int
}

// DefaultDispatcherConfig returns a DispatcherConfig with the standard
// schedule: 08:00 and 20:00 UTC, checked every minute.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Morning:     DefaultMorning,
		Evening:     DefaultEvening,
		Tolerance:   MatchTolerance,
		Location:    time.UTC,
		Interval:    config.DefaultDispatchInterval,
		CallTimeout: config.DefaultCallTimeout,
		Concurrency: config.DefaultDispatchConcurrency,
	}
}

// NewDispatcherConfig builds a DispatcherConfig from the loaded scheduler
// settings. Malformed slot times fall back to the defaults.
func NewDispatcherConfig(cfg config.SchedulerConfig) DispatcherConfig {
	return DispatcherConfig{
		Morning:     ParseTimeOfDay(cfg.MorningTime, DefaultMorning),
		Evening:     ParseTimeOfDay(cfg.EveningTime, DefaultEvening),
		Tolerance:   MatchTolerance,
		Location:    cfg.Location(),
		Interval:    cfg.DispatchInterval,
		CallTimeout: cfg.CallTimeout,
		Concurrency: cfg.DispatchConcurrency,
	}
}

// Target returns the configured time of day of slot.
func (c DispatcherConfig) Target(slot domain.Slot) TimeOfDay {
	if slot.IsMorning() {
		return c.Morning
	}
	return c.Evening
}

func (c DispatcherConfig) withDefaults() DispatcherConfig {
	d := DefaultDispatcherConfig()
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.Location == nil {
		c.Location = d.Location
	}
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = d.CallTimeout
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	return c
}

// DispatchReport summarizes one dispatch of a slot.
type DispatchReport struct {
	Slot    domain.Slot `json:"slot"`
	Owners  int         `json:"owners"`
	Sent    int         `json:"sent"`
	Skipped int         `json:"skipped"`
	Failed  int         `json:"failed"`
}

type ownerOutcome int

const (
	outcomeSent ownerOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// Dispatcher sends digests of open tasks to their owners at the morning and
// evening slots.
type Dispatcher struct {
	store    store.TaskStore
	resolver *contact.CachingResolver
	notifier notify.Notifier
	cfg      DispatcherConfig
	state    *ScheduleState
	logger   *slog.Logger
	timeFunc func() time.Time // Injectable for testing
}

// NewDispatcher creates a Dispatcher. Zero-valued config fields take their
// defaults.
func NewDispatcher(
	taskStore store.TaskStore,
	resolver *contact.CachingResolver,
	notifier notify.Notifier,
	cfg DispatcherConfig,
	log *slog.Logger,
) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		store:    taskStore,
		resolver: resolver,
		notifier: notifier,
		cfg:      cfg.withDefaults(),
		state:    NewScheduleState(),
		logger:   log.With("component", "dispatcher"),
		timeFunc: time.Now,
	}
}

// State returns the dispatcher's record of fired slots.
func (d *Dispatcher) State() *ScheduleState {
	return d.state
}

// CacheLen returns the number of cached contacts.
func (d *Dispatcher) CacheLen() int {
	return d.resolver.Cache().Len()
}

// Run executes Tick every configured interval until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	runTicker(ctx, d.cfg.Interval, d.logger, "dispatch", d.Tick)
}

// Tick evicts expired contacts, then fires every slot whose window contains
// the current time and which has not fired yet today.
func (d *Dispatcher) Tick(ctx context.Context) {
	defer recoverTick(d.logger, "dispatch")

	if n := d.resolver.Cache().EvictExpired(); n > 0 {
		d.logger.Debug("evicted expired contacts", "count", n)
	}

	now := d.timeFunc().In(d.cfg.Location)
	for _, slot := range domain.Slots {
		if !d.cfg.Target(slot).Matches(now, d.cfg.Tolerance) {
			continue
		}
		if d.state.FiredOn(slot, now) {
			continue
		}
		d.fire(ctx, slot, now)
	}
}

// fire dispatches slot and records it as fired for now's date, whether the
// dispatch succeeded, failed or panicked.
func (d *Dispatcher) fire(ctx context.Context, slot domain.Slot, now time.Time) {
	defer d.state.Record(slot, now)

	ctx = logger.WithCorrelationID(ctx, uuid.NewString())
	log := tickLogger(ctx, d.logger)
	report, err := d.DispatchSlot(ctx, slot)
	if err != nil {
		log.Error("dispatch failed",
			"slot", slot,
			"error", redact.Error(err))
		return
	}
	log.Info("dispatch finished",
		"slot", report.Slot,
		"owners", report.Owners,
		"sent", report.Sent,
		"skipped", report.Skipped,
		"failed", report.Failed)
}

// DispatchSlot sends one digest per owner of incomplete tasks, immediately
// and regardless of the time of day or of whether slot already fired.
// Per-owner failures are counted in the report; only a failure to fetch the
// tasks is returned as an error.
func (d *Dispatcher) DispatchSlot(ctx context.Context, slot domain.Slot) (DispatchReport, error) {
	report := DispatchReport{Slot: slot}
	log := tickLogger(ctx, d.logger).With("slot", slot)

	fetchCtx, cancel := callContext(ctx, d.cfg.CallTimeout)
	tasks, err := d.store.QueryIncomplete(fetchCtx)
	cancel()
	if err != nil {
		return report, fmt.Errorf("failed to fetch incomplete tasks: %w", err)
	}

	byOwner := domain.GroupByOwner(tasks)
	owners := make([]uuid.UUID, 0, len(byOwner))
	for id := range byOwner {
		owners = append(owners, id)
	}
	slices.SortFunc(owners, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	report.Owners = len(owners)

	log.Info("dispatching digests", "owners", len(owners), "tasks", len(tasks))

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(d.cfg.Concurrency)
	for _, ownerID := range owners {
		ownerID := ownerID
		ownerTasks := byOwner[ownerID]
		g.Go(func() error {
			outcome := d.dispatchOwner(ctx, log, slot, ownerID, ownerTasks)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeSent:
				report.Sent++
			case outcomeSkipped:
				report.Skipped++
			default:
				report.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	return report, nil
}

// dispatchOwner resolves one owner and sends their digest. It never panics.
func (d *Dispatcher) dispatchOwner(
	ctx context.Context,
	log *slog.Logger,
	slot domain.Slot,
	ownerID uuid.UUID,
	tasks []domain.Task,
) (outcome ownerOutcome) {
	log = log.With("owner_id", ownerID)
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic while dispatching owner", "panic", fmt.Sprint(r))
			outcome = outcomeFailed
		}
	}()

	resolveCtx, cancel := callContext(ctx, d.cfg.CallTimeout)
	c, err := d.resolver.Resolve(resolveCtx, ownerID)
	cancel()
	if err != nil {
		log.Warn("skipping owner: contact lookup failed", "error", redact.Error(err))
		return outcomeSkipped
	}
	if !c.Usable() {
		log.Warn("skipping owner: no email address on record")
		return outcomeSkipped
	}

	sendCtx, cancel := callContext(ctx, d.cfg.CallTimeout)
	ok, err := d.notifier.SendDigest(sendCtx, c.Email, c.DisplayName(), tasks, slot.IsMorning())
	cancel()
	if err != nil {
		log.Warn("digest delivery failed", "error", redact.Error(err))
		return outcomeFailed
	}
	if !ok {
		log.Warn("digest was not accepted")
		return outcomeFailed
	}
	return outcomeSent
}
