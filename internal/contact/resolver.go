package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/platform/logger"
)

// ErrContactNotFound is returned when the identity service knows no user with
// the requested ID.
var ErrContactNotFound = errors.New("contact not found")

// Resolver looks up the contact details of a task owner.
// Implementations may fail or time out; callers treat failures as non-fatal.
type Resolver interface {
	Resolve(ctx context.Context, ownerID uuid.UUID) (domain.Contact, error)
}

// ResolverFunc adapts an ordinary function to the Resolver interface.
type ResolverFunc func(ctx context.Context, ownerID uuid.UUID) (domain.Contact, error)

// Resolve calls f(ctx, ownerID).
func (f ResolverFunc) Resolve(ctx context.Context, ownerID uuid.UUID) (domain.Contact, error) {
	return f(ctx, ownerID)
}

// CachingResolver answers from the cache when possible and otherwise calls the
// wrapped resolver exactly once, caching usable results.
type CachingResolver struct {
	next  Resolver
	cache *Cache
}

// Ensure CachingResolver implements Resolver
var _ Resolver = (*CachingResolver)(nil)

// NewCachingResolver creates a CachingResolver in front of next.
func NewCachingResolver(next Resolver, cache *Cache) *CachingResolver {
	return &CachingResolver{
		next:  next,
		cache: cache,
	}
}

// Cache returns the cache backing the resolver.
func (r *CachingResolver) Cache() *Cache {
	return r.cache
}

// Resolve implements Resolver.
func (r *CachingResolver) Resolve(ctx context.Context, ownerID uuid.UUID) (domain.Contact, error) {
	if c, ok := r.cache.Get(ownerID); ok {
		return c, nil
	}

	c, err := r.next.Resolve(ctx, ownerID)
	if err != nil {
		return domain.Contact{}, err
	}

	c.OwnerID = ownerID
	if !c.Usable() {
		logger.FromContext(ctx).Debug("resolved contact has no address, not caching",
			"owner_id", ownerID)
		return c, nil
	}

	r.cache.Set(ownerID, c.Email, c.Name)
	return c, nil
}
