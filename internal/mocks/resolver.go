package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/contact"
	"github.com/phrazzld/goalpost/internal/domain"
)

// MockResolver implements contact.Resolver for testing.
type MockResolver struct {
	ResolveFn func(ctx context.Context, ownerID uuid.UUID) (domain.Contact, error)

	// Contacts holds the default answers; owners missing from it resolve to
	// contact.ErrContactNotFound.
	Contacts map[uuid.UUID]domain.Contact

	mu    sync.Mutex
	calls []uuid.UUID
}

// Ensure MockResolver implements contact.Resolver
var _ contact.Resolver = (*MockResolver)(nil)

// Resolve implements contact.Resolver.
func (m *MockResolver) Resolve(ctx context.Context, ownerID uuid.UUID) (domain.Contact, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ownerID)
	m.mu.Unlock()

	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, ownerID)
	}
	c, ok := m.Contacts[ownerID]
	if !ok {
		return domain.Contact{}, contact.ErrContactNotFound
	}
	return c, nil
}

// CallCount returns how many lookups were made.
func (m *MockResolver) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// CallsFor returns how many lookups were made for ownerID.
func (m *MockResolver) CallsFor(ownerID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range m.calls {
		if id == ownerID {
			n++
		}
	}
	return n
}
