package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/notify"
)

// DigestCall records one SendDigest invocation.
type DigestCall struct {
	Email     string
	Name      string
	Tasks     []domain.Task
	IsMorning bool
}

// MockNotifier implements notify.Notifier for testing.
type MockNotifier struct {
	SendDigestFn func(ctx context.Context, email, name string, tasks []domain.Task, isMorning bool) (bool, error)

	// Rejected makes the default behavior report a declined digest.
	Rejected bool
	Err      error

	mu    sync.Mutex
	calls []DigestCall
}

// Ensure MockNotifier implements notify.Notifier
var _ notify.Notifier = (*MockNotifier)(nil)

// SendDigest implements notify.Notifier.
func (m *MockNotifier) SendDigest(
	ctx context.Context,
	email, name string,
	tasks []domain.Task,
	isMorning bool,
) (bool, error) {
	m.mu.Lock()
	m.calls = append(m.calls, DigestCall{
		Email:     email,
		Name:      name,
		Tasks:     tasks,
		IsMorning: isMorning,
	})
	m.mu.Unlock()

	if m.SendDigestFn != nil {
		return m.SendDigestFn(ctx, email, name, tasks, isMorning)
	}
	if m.Err != nil {
		return false, m.Err
	}
	return !m.Rejected, nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockNotifier) Calls() []DigestCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]DigestCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of recorded invocations.
func (m *MockNotifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// CallFor returns the first invocation addressed to email.
func (m *MockNotifier) CallFor(email string) (DigestCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c.Email == email {
			return c, true
		}
	}
	return DigestCall{}, false
}
