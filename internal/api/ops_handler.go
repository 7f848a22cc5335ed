package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/goalpost/internal/api/shared"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/scheduler"
)

// Operations is the part of the engine the ops endpoints drive.
type Operations interface {
	Status() scheduler.Status
	DispatchSlot(ctx context.Context, slot domain.Slot) (scheduler.DispatchReport, error)
	ResetOnce(ctx context.Context) (scheduler.ResetReport, error)
}

// OpsHandler serves the status and manual trigger endpoints.
type OpsHandler struct {
	ops Operations
}

// NewOpsHandler creates an OpsHandler.
func NewOpsHandler(ops Operations) *OpsHandler {
	return &OpsHandler{ops: ops}
}

// Health answers liveness probes.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Status returns the engine status as JSON.
func (h *OpsHandler) Status(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.ops.Status())
}

// TriggerDispatch runs one dispatch of the slot named in the URL immediately.
func (h *OpsHandler) TriggerDispatch(w http.ResponseWriter, r *http.Request) {
	slot, err := domain.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Unknown slot")
		return
	}

	report, err := h.ops.DispatchSlot(r.Context(), slot)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Dispatch failed", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// TriggerReset runs one reset pass immediately.
func (h *OpsHandler) TriggerReset(w http.ResponseWriter, r *http.Request) {
	report, err := h.ops.ResetOnce(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Reset failed", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}
