package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/rdelcourt/guardpost/internal/domain/member"
	"github.com/rdelcourt/guardpost/internal/usecase"
)

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMembers")
	defer span.End()

	members, err := h.rosterService.ListMembers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list members failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]memberDTO, 0, len(members))
	for _, item := range members {
		items = append(items, memberToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListEligibleMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEligibleMembers")
	defer span.End()

	members, err := h.rosterService.EligibleMembers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list eligible members failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]memberDTO, 0, len(members))
	for _, item := range members {
		items = append(items, memberToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

type importRosterRequest struct {
	Members []importMemberRequest `json:"members" validate:"required,min=1,dive"`
}

type importMemberRequest struct {
	Handle     string `json:"handle" validate:"required"`
	Rank       string `json:"rank" validate:"required"`
	ExitReason string `json:"exitReason"`
}

func (h *Handler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportRoster")
	defer span.End()

	var req importRosterRequest
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

	members := make([]member.Member, 0, len(req.Members))
	for _, item := range req.Members {
		members = append(members, member.Member{
			Handle:     item.Handle,
			Rank:       item.Rank,
			ExitReason: item.ExitReason,
		})
	}

	count, err := h.rosterService.ImportRoster(ctx, members)
	if err != nil {
		h.logger.WarnContext(ctx, "import roster failed", "count", len(members), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"imported": count})
}
