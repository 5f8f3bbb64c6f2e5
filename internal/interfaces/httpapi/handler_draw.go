package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/rdelcourt/guardpost/internal/usecase"
)

func (h *Handler) ListDrawableWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDrawableWeeks")
	defer span.End()

	horizon := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("horizon")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: horizon must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		horizon = parsed
	}

	weeks, err := h.drawService.ListDrawableWeeks(ctx, horizon)
	if err != nil {
		h.logger.WarnContext(ctx, "list drawable weeks failed", "horizon", horizon, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]string, 0, len(weeks))
	for _, week := range weeks {
		items = append(items, week.String())
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DrawWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DrawWeek")
	defer span.End()

	weekID := r.PathValue("weekID")
	result, err := h.drawService.DrawWeek(ctx, weekID)
	if err != nil {
		h.logger.WarnContext(ctx, "draw week failed", "week", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, weekAssignmentsToDTO(result))
}

type editWeekRequest struct {
	Assignments []editAssignmentRequest `json:"assignments" validate:"required,len=7,dive"`
}

type editAssignmentRequest struct {
	Date       string `json:"date" validate:"required"`
	Titular    string `json:"titular" validate:"required"`
	Substitute string `json:"substitute" validate:"required"`
}

func (h *Handler) EditWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditWeek")
	defer span.End()

	weekID := r.PathValue("weekID")

	var req editWeekRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rows := make([]usecase.EditAssignmentInput, 0, len(req.Assignments))
	for _, row := range req.Assignments {
		date, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(row.Date), time.UTC)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, row.Date))
			return
		}
		rows = append(rows, usecase.EditAssignmentInput{
			Date:       date,
			Titular:    row.Titular,
			Substitute: row.Substitute,
		})
	}

	result, err := h.drawService.EditWeek(ctx, weekID, rows)
	if err != nil {
		h.logger.WarnContext(ctx, "edit week failed", "week", weekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekAssignmentsToDTO(result))
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHistory")
	defer span.End()

	history, err := h.drawService.History(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]weekAssignmentsDTO, 0, len(history))
	for _, group := range history {
		items = append(items, weekAssignmentsToDTO(group))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ExportHistoryCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportHistoryCSV")
	defer span.End()

	history, err := h.drawService.History(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "export history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	buf, err := historyToCSV(history)
	if err != nil {
		h.logger.ErrorContext(ctx, "render history csv failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	defer releaseCSVBuffer(buf)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="guard-schedule.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(ctx, "write csv export failed", "error", err)
	}
}
