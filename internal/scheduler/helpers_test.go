package scheduler

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/config"
	"github.com/phrazzld/goalpost/internal/contact"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/mocks"
	"github.com/phrazzld/goalpost/internal/platform/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// logEntry returns the first JSON log entry with message msg, failing the
// test when there is none.
func logEntry(t *testing.T, buf *logger.TestLogBuffer, msg string) map[string]interface{} {
	t.Helper()

	entries, err := buf.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	for _, entry := range entries {
		if entry["msg"] == msg {
			return entry
		}
	}
	t.Fatalf("No log entry with message %q.\nLogs:\n%s", msg, buf.String())
	return nil
}

// fakeClock is a settable time source shared by the dispatcher and cache.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type dispatchFixture struct {
	store      *mocks.MockTaskStore
	resolver   *mocks.MockResolver
	notifier   *mocks.MockNotifier
	cache      *contact.Cache
	clock      *fakeClock
	dispatcher *Dispatcher
}

func newDispatchFixture(now time.Time) *dispatchFixture {
	f := &dispatchFixture{
		store:    &mocks.MockTaskStore{},
		resolver: &mocks.MockResolver{Contacts: map[uuid.UUID]domain.Contact{}},
		notifier: &mocks.MockNotifier{},
		clock:    newFakeClock(now),
	}
	f.cache = contact.NewCache(30*time.Minute, contact.WithClock(f.clock.Now))

	cfg := DefaultDispatcherConfig()
	cfg.CallTimeout = 2 * time.Second
	f.dispatcher = NewDispatcher(
		f.store,
		contact.NewCachingResolver(f.resolver, f.cache),
		f.notifier,
		cfg,
		testLogger(),
	)
	f.dispatcher.timeFunc = f.clock.Now
	return f
}

// addOwner registers a resolvable owner and returns their ID.
func (f *dispatchFixture) addOwner(email, name string) uuid.UUID {
	id := uuid.New()
	f.resolver.Contacts[id] = domain.Contact{OwnerID: id, Email: email, Name: name}
	return id
}

func openTask(owner uuid.UUID, title string) domain.Task {
	return domain.Task{
		ID:         uuid.New(),
		OwnerID:    owner,
		Title:      title,
		Recurrence: domain.RecurrenceNone,
	}
}

func morningAt(h, m, s int) time.Time {
	return time.Date(2026, 3, 10, h, m, s, 0, time.UTC)
}

func configWithTimes(morning, evening string) config.SchedulerConfig {
	return config.SchedulerConfig{
		MorningTime:         morning,
		EveningTime:         evening,
		Timezone:            "UTC",
		DispatchInterval:    time.Minute,
		ResetInterval:       time.Hour,
		CallTimeout:         time.Second,
		DispatchConcurrency: 2,
		CacheTTL:            time.Minute,
	}
}
