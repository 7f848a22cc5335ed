package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/goalpost/internal/domain"
)

// ErrAlreadyStarted is returned by Start when the engine has been started before.
var ErrAlreadyStarted = errors.New("engine already started")

// Status is a point-in-time view of the engine.
type Status struct {
	Running   bool                   `json:"running"`
	LastFired map[domain.Slot]string `json:"last_fired"`
	LastReset *ResetReport           `json:"last_reset,omitempty"`
	CacheSize int                    `json:"cache_size"`
	CheckedAt time.Time              `json:"checked_at"`
}

// Engine runs the dispatch and reset loops on their own goroutines.
type Engine struct {
	dispatcher *Dispatcher
	resetter   *Resetter
	logger     *slog.Logger

	mu         sync.Mutex
	started    bool
	running    bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewEngine creates an engine around an already configured dispatcher and resetter.
func NewEngine(dispatcher *Dispatcher, resetter *Resetter, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		dispatcher: dispatcher,
		resetter:   resetter,
		logger:     log.With("component", "engine"),
	}
}

// Dispatcher returns the engine's dispatcher.
func (e *Engine) Dispatcher() *Dispatcher {
	return e.dispatcher
}

// Resetter returns the engine's resetter.
func (e *Engine) Resetter() *Resetter {
	return e.resetter
}

// DispatchSlot runs one dispatch of slot immediately, outside the schedule.
func (e *Engine) DispatchSlot(ctx context.Context, slot domain.Slot) (DispatchReport, error) {
	return e.dispatcher.DispatchSlot(ctx, slot)
}

// ResetOnce runs one reset pass immediately, outside the schedule.
func (e *Engine) ResetOnce(ctx context.Context) (ResetReport, error) {
	return e.resetter.ResetOnce(ctx)
}

// Start launches both loops. An engine can be started once.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true
	e.running = true

	ctx, cancel := context.WithCancel(context.Background())
	e.cancelFunc = cancel

	e.wg.Add(2)
	go func() {
		defer e.wg.Done()
		e.dispatcher.Run(ctx)
	}()
	go func() {
		defer e.wg.Done()
		e.resetter.Run(ctx)
	}()

	e.logger.Info("engine started")
	return nil
}

// Stop cancels both loops and waits for them to return. A tick in progress
// finishes first. Stop is safe to call more than once and before Start.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancelFunc
	wasRunning := e.running
	e.running = false
	e.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	e.wg.Wait()

	if wasRunning {
		e.logger.Info("engine stopped")
	}
}

// Status reports whether the loops are running, when each slot last fired,
// the last reset pass and the contact cache size.
func (e *Engine) Status() Status {
	e.mu.Lock()
	running := e.running
	e.mu.Unlock()

	s := Status{
		Running:   running,
		LastFired: e.dispatcher.State().Snapshot(),
		CacheSize: e.dispatcher.CacheLen(),
		CheckedAt: time.Now().UTC(),
	}
	if report, ok := e.resetter.LastReport(); ok {
		s.LastReset = &report
	}
	return s
}
