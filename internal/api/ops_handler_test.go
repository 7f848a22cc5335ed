package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/goalpost/internal/api/shared"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOpsToken = "ops-token-0123456789"

// mockOperations implements Operations for testing.
type mockOperations struct {
	DispatchSlotFn func(ctx context.Context, slot domain.Slot) (scheduler.DispatchReport, error)
	ResetOnceFn    func(ctx context.Context) (scheduler.ResetReport, error)

	mu         sync.Mutex
	dispatched []domain.Slot
	resets     int
}

func (m *mockOperations) Status() scheduler.Status {
	return scheduler.Status{
		Running:   true,
		LastFired: map[domain.Slot]string{domain.SlotMorning: "2026-03-10"},
		CacheSize: 3,
	}
}

func (m *mockOperations) DispatchSlot(ctx context.Context, slot domain.Slot) (scheduler.DispatchReport, error) {
	m.mu.Lock()
	m.dispatched = append(m.dispatched, slot)
	m.mu.Unlock()
	if m.DispatchSlotFn != nil {
		return m.DispatchSlotFn(ctx, slot)
	}
	return scheduler.DispatchReport{Slot: slot, Owners: 2, Sent: 2}, nil
}

func (m *mockOperations) ResetOnce(ctx context.Context) (scheduler.ResetReport, error) {
	m.mu.Lock()
	m.resets++
	m.mu.Unlock()
	if m.ResetOnceFn != nil {
		return m.ResetOnceFn(ctx)
	}
	return scheduler.ResetReport{RanAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), Recurring: 1, Reset: 1}, nil
}

func newTestRouter(ops Operations, token string) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewOpsHandler(ops), token, log)
}

func do(t *testing.T, h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(&mockOperations{}, ""), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestStatus(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(&mockOperations{}, ""), http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["running"])
	assert.Equal(t, float64(3), body["cache_size"])
	assert.Equal(t, map[string]interface{}{"morning": "2026-03-10"}, body["last_fired"])
}

func TestOpsRoutesDisabledWithoutToken(t *testing.T) {
	t.Parallel()

	ops := &mockOperations{}
	h := newTestRouter(ops, "")

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/ops/dispatch/morning", "anything").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/ops/reset", "anything").Code)
	assert.Empty(t, ops.dispatched)
}

func TestOpsRoutesRequireToken(t *testing.T) {
	t.Parallel()

	ops := &mockOperations{}
	h := newTestRouter(ops, testOpsToken)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + testOpsToken},
		{"wrong token", "Bearer not-the-token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ops/reset", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.TraceID)
		})
	}

	ops.mu.Lock()
	defer ops.mu.Unlock()
	assert.Equal(t, 0, ops.resets)
}

func TestTriggerDispatch(t *testing.T) {
	t.Parallel()

	ops := &mockOperations{}
	h := newTestRouter(ops, testOpsToken)

	rec := do(t, h, http.MethodPost, "/ops/dispatch/Evening", testOpsToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var report scheduler.DispatchReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, domain.SlotEvening, report.Slot)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, []domain.Slot{domain.SlotEvening}, ops.dispatched)
}

func TestTriggerDispatch_UnknownSlot(t *testing.T) {
	t.Parallel()

	ops := &mockOperations{}
	rec := do(t, newTestRouter(ops, testOpsToken), http.MethodPost, "/ops/dispatch/noon", testOpsToken)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, ops.dispatched)
}

func TestTriggerDispatch_Failure(t *testing.T) {
	t.Parallel()

	ops := &mockOperations{
		DispatchSlotFn: func(ctx context.Context, slot domain.Slot) (scheduler.DispatchReport, error) {
			return scheduler.DispatchReport{}, errors.New("failed to connect to postgres://app:secret@db/goalpost")
		},
	}
	rec := do(t, newTestRouter(ops, testOpsToken), http.MethodPost, "/ops/dispatch/morning", testOpsToken)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), "secret"))
}

func TestTriggerReset(t *testing.T) {
	t.Parallel()

	ops := &mockOperations{}
	rec := do(t, newTestRouter(ops, testOpsToken), http.MethodPost, "/ops/reset", testOpsToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var report scheduler.ResetReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Reset)
	assert.Equal(t, 1, ops.resets)
}

func TestTriggerReset_Failure(t *testing.T) {
	t.Parallel()

	ops := &mockOperations{
		ResetOnceFn: func(ctx context.Context) (scheduler.ResetReport, error) {
			return scheduler.ResetReport{}, errors.New("store down")
		},
	}
	rec := do(t, newTestRouter(ops, testOpsToken), http.MethodPost, "/ops/reset", testOpsToken)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
