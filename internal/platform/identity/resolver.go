package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/goalpost/internal/config"
	"github.com/phrazzld/goalpost/internal/contact"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/redact"
)

// userResponse is the subset of the admin user payload the resolver reads.
type userResponse struct {
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
	} `json:"user_metadata"`
}

func (u userResponse) displayName() string {
	if n := strings.TrimSpace(u.UserMetadata.FullName); n != "" {
		return n
	}
	return strings.TrimSpace(u.UserMetadata.Name)
}

// Resolver looks up owners through GET {base_url}/admin/users/{id}.
type Resolver struct {
	client     *http.Client
	baseURL    string
	serviceKey string
	signer     *tokenSigner
	logger     *slog.Logger
}

// Ensure Resolver implements contact.Resolver
var _ contact.Resolver = (*Resolver)(nil)

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) {
		r.client = c
	}
}

// NewResolver creates a Resolver from the identity configuration.
func NewResolver(cfg config.IdentityConfig, log *slog.Logger, opts ...Option) (*Resolver, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("identity base url is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("identity service key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	r := &Resolver{
		client:     cleanhttp.DefaultPooledClient(),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		logger:     log.With("component", "identity"),
	}

	if cfg.JWTSecret != "" {
		signer, err := newTokenSigner(cfg.JWTSecret, defaultTokenTTL)
		if err != nil {
			return nil, err
		}
		r.signer = signer
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve implements contact.Resolver.
func (r *Resolver) Resolve(ctx context.Context, ownerID uuid.UUID) (domain.Contact, error) {
	endpoint := r.baseURL + "/admin/users/" + url.PathEscape(ownerID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("failed to build identity request: %w", err)
	}

	bearer := r.serviceKey
	if r.signer != nil {
		bearer, err = r.signer.Sign(ctx)
		if err != nil {
			return domain.Contact{}, err
		}
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("apikey", r.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("identity request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Contact{}, fmt.Errorf("owner %s: %w", ownerID, contact.ErrContactNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		r.logger.Warn("identity service returned an error status",
			"owner_id", ownerID,
			"status", resp.StatusCode)
		return domain.Contact{}, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return domain.Contact{}, fmt.Errorf("failed to decode identity response: %s", redact.Error(err))
	}

	return domain.Contact{
		OwnerID: ownerID,
		Email:   strings.TrimSpace(user.Email),
		Name:    user.displayName(),
	}, nil
}
