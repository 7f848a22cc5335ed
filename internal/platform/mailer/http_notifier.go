package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/phrazzld/goalpost/internal/config"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/notify"
	"github.com/phrazzld/goalpost/internal/platform/logger"
	"github.com/phrazzld/goalpost/internal/redact"
)

// maxErrorBody bounds how much of a failed response is read for logging.
const maxErrorBody = 1 << 10

// HTTPNotifier posts digests to the mail function endpoint.
type HTTPNotifier struct {
	client      *http.Client
	functionURL string
	apiKey      string
	logger      *slog.Logger
}

// Ensure HTTPNotifier implements notify.Notifier
var _ notify.Notifier = (*HTTPNotifier)(nil)

// Option configures an HTTPNotifier.
type Option func(*HTTPNotifier)

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(c *http.Client) Option {
	return func(n *HTTPNotifier) {
		n.client = c
	}
}

// NewHTTPNotifier creates a notifier for the configured function URL.
func NewHTTPNotifier(cfg config.MailerConfig, log *slog.Logger, opts ...Option) (*HTTPNotifier, error) {
	if cfg.FunctionURL == "" {
		return nil, fmt.Errorf("mailer function url is required")
	}
	if log == nil {
		log = slog.Default()
	}

	n := &HTTPNotifier{
		client:      cleanhttp.DefaultPooledClient(),
		functionURL: cfg.FunctionURL,
		apiKey:      cfg.APIKey,
		logger:      log.With("component", "mailer"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// SendDigest implements notify.Notifier. A non-2xx response yields false
// without an error; transport and encoding failures are returned.
func (n *HTTPNotifier) SendDigest(
	ctx context.Context,
	email, name string,
	tasks []domain.Task,
	isMorning bool,
) (bool, error) {
	log := n.logger
	if id := logger.CorrelationID(ctx); id != "" {
		log = log.With("correlation_id", id)
	}

	body, err := json.Marshal(newDigestRequest(email, name, tasks, isMorning))
	if err != nil {
		return false, fmt.Errorf("failed to encode digest: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.functionURL, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build digest request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("digest request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("mail function rejected digest",
			"status", resp.StatusCode,
			"recipient", redact.Email(email),
			"response", redact.String(string(snippet)))
		return false, nil
	}

	log.Debug("digest accepted",
		"recipient", redact.Email(email),
		"period", notify.Period(isMorning),
		"task_count", len(tasks))
	return true, nil
}
