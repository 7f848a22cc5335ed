// Package notify defines the port through which reminder digests leave the
// system.
package notify

import (
	"context"

	"github.com/phrazzld/goalpost/internal/domain"
)

// Notifier delivers a digest of open tasks to one recipient.
//
// SendDigest reports whether the digest was accepted for delivery. A false
// result with a nil error means the downstream service declined the request;
// an error means the call itself failed. Callers treat both as non-fatal.
type Notifier interface {
	SendDigest(
		ctx context.Context,
		email, name string,
		tasks []domain.Task,
		isMorning bool,
	) (bool, error)
}

// Period names the digest variant for the given slot flag.
func Period(isMorning bool) string {
	if isMorning {
		return "morning"
	}
	return "evening"
}
