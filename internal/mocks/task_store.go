package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
type MockTaskStore struct {
	// Custom behavior functions
	QueryIncompleteFn func(ctx context.Context) ([]domain.Task, error)
	QueryCompletedFn  func(ctx context.Context) ([]domain.Task, error)
	UpdateFn          func(ctx context.Context, task domain.Task) error

	// Default response values
	Incomplete []domain.Task
	Completed  []domain.Task
	Err        error

	mu              sync.Mutex
	incompleteCalls int
	completedCalls  int
	updated         []domain.Task
	updatedByID     map[uuid.UUID]domain.Task
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// QueryIncomplete implements store.TaskStore.
func (m *MockTaskStore) QueryIncomplete(ctx context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	m.incompleteCalls++
	m.mu.Unlock()

	if m.QueryIncompleteFn != nil {
		return m.QueryIncompleteFn(ctx)
	}
	return m.Incomplete, m.Err
}

// QueryCompleted implements store.TaskStore.
func (m *MockTaskStore) QueryCompleted(ctx context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	m.completedCalls++
	m.mu.Unlock()

	if m.QueryCompletedFn != nil {
		return m.QueryCompletedFn(ctx)
	}
	return m.Completed, m.Err
}

// Update implements store.TaskStore. Every call is recorded, including ones
// for which UpdateFn returns an error.
func (m *MockTaskStore) Update(ctx context.Context, task domain.Task) error {
	m.mu.Lock()
	m.updated = append(m.updated, task)
	if m.updatedByID == nil {
		m.updatedByID = make(map[uuid.UUID]domain.Task)
	}
	m.updatedByID[task.ID] = task
	m.mu.Unlock()

	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	return m.Err
}

// IncompleteCalls returns how many times QueryIncomplete was called.
func (m *MockTaskStore) IncompleteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.incompleteCalls
}

// CompletedCalls returns how many times QueryCompleted was called.
func (m *MockTaskStore) CompletedCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completedCalls
}

// Updated returns a copy of every task passed to Update, in call order.
func (m *MockTaskStore) Updated() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Task, len(m.updated))
	copy(out, m.updated)
	return out
}

// UpdatedTask returns the last version of the task passed to Update.
func (m *MockTaskStore) UpdatedTask(id uuid.UUID) (domain.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.updatedByID[id]
	return t, ok
}
