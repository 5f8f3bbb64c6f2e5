package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rdelcourt/guardpost/internal/domain/member"
	"github.com/rdelcourt/guardpost/internal/domain/schedule"
	"github.com/rdelcourt/guardpost/internal/platform/logging"
	"github.com/rdelcourt/guardpost/internal/usecase"
)

type Handler struct {
	drawService      *usecase.DrawService
	rosterService    *usecase.RosterService
	reconcileService *usecase.ReconcileService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	drawService *usecase.DrawService,
	rosterService *usecase.RosterService,
	reconcileService *usecase.ReconcileService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		drawService:      drawService,
		rosterService:    rosterService,
		reconcileService: reconcileService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type assignmentDTO struct {
	Date       string `json:"date"`
	Week       string `json:"week"`
	DrawID     string `json:"drawId"`
	Titular    string `json:"titular"`
	Substitute string `json:"substitute"`
}

type weekAssignmentsDTO struct {
	Week        string          `json:"week"`
	Assignments []assignmentDTO `json:"assignments"`
}

type memberDTO struct {
	Handle      string   `json:"handle"`
	Rank        string   `json:"rank"`
	ExitReason  string   `json:"exitReason,omitempty"`
	ServedDates []string `json:"servedDates"`
}

func assignmentToDTO(item schedule.Assignment) assignmentDTO {
	return assignmentDTO{
		Date:       item.Date.Format(time.DateOnly),
		Week:       item.Week.String(),
		DrawID:     item.DrawID,
		Titular:    item.Titular,
		Substitute: item.Substitute,
	}
}

func weekAssignmentsToDTO(item schedule.WeekAssignments) weekAssignmentsDTO {
	assignments := make([]assignmentDTO, 0, len(item.Assignments))
	for _, assignment := range item.Assignments {
		assignments = append(assignments, assignmentToDTO(assignment))
	}
	return weekAssignmentsDTO{
		Week:        item.Week.String(),
		Assignments: assignments,
	}
}

func memberToDTO(item member.Member) memberDTO {
	dates := make([]string, 0, len(item.ServedDates))
	for _, date := range item.ServedDates {
		dates = append(dates, date.Format(time.DateOnly))
	}
	return memberDTO{
		Handle:      item.Handle,
		Rank:        item.Rank,
		ExitReason:  item.ExitReason,
		ServedDates: dates,
	}
}
