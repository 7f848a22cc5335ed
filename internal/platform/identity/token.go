package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/platform/logger"
)

const (
	serviceRole     = "service_role"
	tokenIssuer     = "goalpost"
	defaultTokenTTL = 5 * time.Minute
)

// serviceClaims are the claims the identity service expects on admin calls.
type serviceClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// tokenSigner mints short-lived service tokens.
type tokenSigner struct {
	signingKey []byte
	lifetime   time.Duration
	timeFunc   func() time.Time // Injectable for testing
}

func newTokenSigner(secret string, lifetime time.Duration) (*tokenSigner, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if lifetime <= 0 {
		lifetime = defaultTokenTTL
	}
	return &tokenSigner{
		signingKey: []byte(secret),
		lifetime:   lifetime,
		timeFunc:   time.Now,
	}, nil
}

// Sign returns a signed token valid for the signer's lifetime.
func (s *tokenSigner) Sign(ctx context.Context) (string, error) {
	now := s.timeFunc()
	claims := serviceClaims{
		Role: serviceRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   serviceRole,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign service token",
			"error", err,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}
	return signed, nil
}
