package mailer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/config"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleTasks() []domain.Task {
	due := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	return []domain.Task{
		{ID: uuid.New(), OwnerID: uuid.New(), Title: "Water plants", DueDate: &due},
		{ID: uuid.New(), OwnerID: uuid.New(), Title: "Read", Description: "Chapter 3"},
	}
}

func TestNewHTTPNotifier_RequiresURL(t *testing.T) {
	_, err := NewHTTPNotifier(config.MailerConfig{}, testLogger())
	assert.Error(t, err)
}

func TestHTTPNotifier_SendDigest(t *testing.T) {
	tasks := sampleTasks()
	var got digestRequest
	var authHeader, contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		authHeader = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := NewHTTPNotifier(config.MailerConfig{
		FunctionURL: srv.URL,
		APIKey:      "mail-key",
	}, testLogger(), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	ok, err := n.SendDigest(context.Background(), "ada@example.com", "Ada", tasks, true)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "Bearer mail-key", authHeader)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "ada@example.com", got.To)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "morning", got.Period)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, tasks[0].ID.String(), got.Tasks[0].ID)
	require.NotNil(t, got.Tasks[0].DueDate)
	assert.Equal(t, "2026-04-02", *got.Tasks[0].DueDate)
	assert.Nil(t, got.Tasks[1].DueDate)
	assert.Equal(t, "Chapter 3", got.Tasks[1].Description)
}

func TestHTTPNotifier_OmitsAuthorizationWithoutKey(t *testing.T) {
	var authHeader atomic.Value
	authHeader.Store("unset")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader.Store(r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	n, err := NewHTTPNotifier(config.MailerConfig{FunctionURL: srv.URL}, testLogger())
	require.NoError(t, err)

	ok, err := n.SendDigest(context.Background(), "ada@example.com", "Ada", nil, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", authHeader.Load())
}

func TestHTTPNotifier_NonSuccessStatusReturnsFalse(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rejected", status)
			}))
			defer srv.Close()

			n, err := NewHTTPNotifier(config.MailerConfig{FunctionURL: srv.URL}, testLogger())
			require.NoError(t, err)

			ok, err := n.SendDigest(context.Background(), "ada@example.com", "Ada", sampleTasks(), false)
			assert.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestHTTPNotifier_TransportErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	n, err := NewHTTPNotifier(config.MailerConfig{FunctionURL: url}, testLogger())
	require.NoError(t, err)

	ok, err := n.SendDigest(context.Background(), "ada@example.com", "Ada", nil, true)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHTTPNotifier_RespectsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	n, err := NewHTTPNotifier(config.MailerConfig{FunctionURL: srv.URL}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ok, err := n.SendDigest(ctx, "ada@example.com", "Ada", nil, true)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestLogNotifier_AlwaysAccepts(t *testing.T) {
	l, buf := logger.GetTestLogger(t)
	n := NewLogNotifier(l)

	ok, err := n.SendDigest(context.Background(), "ada@example.com", "Ada", sampleTasks(), true)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 1, logger.CountLogEntries(t, buf, slog.LevelInfo, "digest not sent (dry run)"))
	logger.AssertLogContains(t, buf, "a***@example.com")
	logger.AssertLogContains(t, buf, "Water plants")
	assert.NotContains(t, buf.String(), "ada@example.com")
}
