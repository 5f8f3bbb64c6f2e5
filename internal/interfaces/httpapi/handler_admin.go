package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/rdelcourt/guardpost/internal/usecase"
)

type resetRequest struct {
	Confirmation string `json:"confirmation"`
}

// ResetSchedule wipes the ledger and all served dates. The confirmation
// phrase must match the configured one; a mismatch is acknowledged with
// performed=false rather than treated as an error.
func (h *Handler) ResetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetSchedule")
	defer span.End()

	var req resetRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	performed, err := h.drawService.ResetAll(ctx, req.Confirmation)
	if err != nil {
		h.logger.ErrorContext(ctx, "reset schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"performed": performed})
}

type reconcileRequest struct {
	MaxWorkers int  `json:"maxWorkers" validate:"min=0,max=32"`
	DryRun     bool `json:"dryRun"`
}

func (h *Handler) RunReconcileServiceDates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReconcileServiceDates")
	defer span.End()

	var req reconcileRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.reconcileService.ReconcileServiceDates(ctx, usecase.ReconcileInput{
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "reconcile service dates failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
