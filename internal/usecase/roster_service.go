package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rdelcourt/guardpost/internal/domain/member"
	"github.com/rdelcourt/guardpost/internal/platform/logging"
)

type RosterService struct {
	memberRepo   member.Repository
	excludedRank string
	logger       *logging.Logger
}

func NewRosterService(memberRepo member.Repository, excludedRank string, logger *logging.Logger) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		memberRepo:   memberRepo,
		excludedRank: excludedRank,
		logger:       logger,
	}
}

// ListMembers returns the full roster, exited members included.
func (s *RosterService) ListMembers(ctx context.Context) ([]member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ListMembers")
	defer span.End()

	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// EligibleMembers returns the members currently drawable for guard duty.
func (s *RosterService) EligibleMembers(ctx context.Context) ([]member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.EligibleMembers")
	defer span.End()

	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return eligibleMembers(members, s.excludedRank), nil
}

// ImportRoster upserts the given members by handle. Served dates of
// members already on the roster are preserved; setting an exit reason here
// is how a member leaves the draw pool.
func (s *RosterService) ImportRoster(ctx context.Context, members []member.Member) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ImportRoster")
	defer span.End()

	if len(members) == 0 {
		return 0, fmt.Errorf("%w: roster payload is empty", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(members))
	cleaned := make([]member.Member, 0, len(members))
	for _, item := range members {
		item.Handle = strings.TrimSpace(item.Handle)
		item.Rank = strings.TrimSpace(item.Rank)
		item.ExitReason = strings.TrimSpace(item.ExitReason)
		if err := item.Validate(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, dup := seen[item.Handle]; dup {
			return 0, fmt.Errorf("%w: duplicate handle %q in payload", ErrInvalidInput, item.Handle)
		}
		seen[item.Handle] = struct{}{}
		cleaned = append(cleaned, item)
	}

	if err := s.memberRepo.UpsertAll(ctx, cleaned); err != nil {
		return 0, fmt.Errorf("upsert roster: %w", err)
	}

	s.logger.InfoContext(ctx, "roster imported", "count", len(cleaned))
	return len(cleaned), nil
}

// eligibleMembers filters the roster down to drawable members: still
// active and not holding the excluded rank.
func eligibleMembers(members []member.Member, excludedRank string) []member.Member {
	out := make([]member.Member, 0, len(members))
	for _, item := range members {
		if !item.Active() {
			continue
		}
		if excludedRank != "" && item.Rank == excludedRank {
			continue
		}
		out = append(out, item)
	}
	return out
}
