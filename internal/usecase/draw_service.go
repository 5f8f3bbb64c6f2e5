package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rdelcourt/guardpost/internal/domain/draw"
	"github.com/rdelcourt/guardpost/internal/domain/member"
	"github.com/rdelcourt/guardpost/internal/domain/schedule"
	"github.com/rdelcourt/guardpost/internal/platform/cache"
	idgen "github.com/rdelcourt/guardpost/internal/platform/id"
	"github.com/rdelcourt/guardpost/internal/platform/logging"
	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
)

const (
	defaultHorizonWeeks = 8
	maxHorizonWeeks     = 52

	scheduleCachePrefix = "schedule:"
	historyCacheKey     = scheduleCachePrefix + "history"
)

// DrawSettings carries the configured draw policy.
type DrawSettings struct {
	// ExcludedRank is the rank tier never drawn for guard duty. Empty
	// disables rank exclusion.
	ExcludedRank string
	// ResetPhrase is the confirmation a caller must echo back before the
	// ledger is wiped.
	ResetPhrase string
	// HorizonWeeks is the default listing horizon for drawable weeks.
	HorizonWeeks int
}

// EditAssignmentInput is one day of a manual full-week edit.
type EditAssignmentInput struct {
	Date       time.Time
	Titular    string
	Substitute string
}

type DrawService struct {
	memberRepo member.Repository
	ledger     schedule.Ledger
	idGen      idgen.Generator
	settings   DrawSettings
	logger     *logging.Logger
	store      *cache.Store
	now        func() time.Time

	// mu makes the exists-check-then-append sequence a critical section.
	// The storage unique constraint on the week column backstops lost
	// races across processes.
	mu sync.Mutex
}

func NewDrawService(
	memberRepo member.Repository,
	ledger schedule.Ledger,
	idGen idgen.Generator,
	settings DrawSettings,
	logger *logging.Logger,
) *DrawService {
	if logger == nil {
		logger = logging.Default()
	}
	if settings.HorizonWeeks <= 0 {
		settings.HorizonWeeks = defaultHorizonWeeks
	}

	return &DrawService{
		memberRepo: memberRepo,
		ledger:     ledger,
		idGen:      idGen,
		settings:   settings,
		logger:     logger,
		now:        time.Now,
	}
}

// SetCache installs an optional read cache for history and drawable-week
// listings. Mutations invalidate it.
func (s *DrawService) SetCache(store *cache.Store) {
	s.store = store
}

// ListDrawableWeeks returns future weeks that are not yet in the ledger,
// nearest first. A non-positive horizon falls back to the configured one.
func (s *DrawService) ListDrawableWeeks(ctx context.Context, horizon int) ([]weekcal.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.ListDrawableWeeks")
	defer span.End()

	if horizon <= 0 {
		horizon = s.settings.HorizonWeeks
	}
	if horizon > maxHorizonWeeks {
		return nil, fmt.Errorf("%w: horizon must be at most %d weeks", ErrInvalidInput, maxHorizonWeeks)
	}

	value, err := s.store.GetOrLoad(ctx, fmt.Sprintf("%sdrawable:%d", scheduleCachePrefix, horizon), func(ctx context.Context) (any, error) {
		return s.listDrawableWeeks(ctx, horizon)
	})
	if err != nil {
		return nil, err
	}

	weeks, ok := value.([]weekcal.Week)
	if !ok {
		return s.listDrawableWeeks(ctx, horizon)
	}
	return weeks, nil
}

func (s *DrawService) listDrawableWeeks(ctx context.Context, horizon int) ([]weekcal.Week, error) {
	drawn, err := s.drawnWeeks(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]weekcal.Week, 0, horizon)
	for _, monday := range weekcal.UpcomingMondays(s.now(), horizon) {
		week := weekcal.WeekOf(monday)
		if _, ok := drawn[week]; ok {
			continue
		}
		out = append(out, week)
	}
	return out, nil
}

// DrawWeek draws titular and substitute pairs for all 7 dates of the week
// and persists them. The week must be in the future and not drawn yet.
func (s *DrawService) DrawWeek(ctx context.Context, weekID string) (schedule.WeekAssignments, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.DrawWeek")
	defer span.End()

	week, err := weekcal.Parse(weekID)
	if err != nil {
		return schedule.WeekAssignments{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !week.Monday().After(weekcal.MondayOf(s.now())) {
		return schedule.WeekAssignments{}, fmt.Errorf("%w: week %s is not in the future", ErrInvalidInput, week)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.ledger.HasWeek(ctx, week)
	if err != nil {
		return schedule.WeekAssignments{}, fmt.Errorf("check week %s: %w", week, err)
	}
	if exists {
		return schedule.WeekAssignments{}, fmt.Errorf("%w: %s", ErrAlreadyDrawn, week)
	}

	// Eligibility is re-evaluated from current roster state on every
	// draw; a cleared exit reason takes effect on the next draw.
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return schedule.WeekAssignments{}, fmt.Errorf("list members: %w", err)
	}
	pool := make([]string, 0, len(members))
	for _, item := range eligibleMembers(members, s.settings.ExcludedRank) {
		pool = append(pool, item.Handle)
	}

	dates := week.Dates()
	selections, err := draw.Draw(pool, dates)
	if err != nil {
		if errors.Is(err, draw.ErrInsufficientPool) {
			return schedule.WeekAssignments{}, fmt.Errorf("%w: have %d eligible, need %d", ErrInsufficientPool, len(pool), 2*len(dates))
		}
		return schedule.WeekAssignments{}, fmt.Errorf("draw week %s: %w", week, err)
	}

	drawID, err := s.idGen.NewID()
	if err != nil {
		return schedule.WeekAssignments{}, fmt.Errorf("generate draw id: %w", err)
	}

	assignments := make([]schedule.Assignment, 0, len(selections))
	for _, sel := range selections {
		assignment := schedule.Assignment{
			Date:       sel.Date,
			Week:       week,
			DrawID:     drawID,
			Titular:    sel.Titular,
			Substitute: sel.Substitute,
		}
		if err := assignment.Validate(); err != nil {
			return schedule.WeekAssignments{}, fmt.Errorf("drawn assignment invalid: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	if err := s.ledger.AppendWeek(ctx, week, assignments); err != nil {
		if errors.Is(err, schedule.ErrWeekExists) {
			// Lost the race between the pre-check and the write.
			return schedule.WeekAssignments{}, fmt.Errorf("%w: %s", ErrAlreadyDrawn, week)
		}
		return schedule.WeekAssignments{}, fmt.Errorf("append week %s: %w", week, err)
	}

	// Only titular duty is tracked on the roster; substitutes stay a
	// replenishable pool.
	for _, assignment := range assignments {
		if err := s.memberRepo.RecordService(ctx, assignment.Titular, assignment.Date); err != nil {
			return schedule.WeekAssignments{}, fmt.Errorf("record service for %s: %w", assignment.Titular, err)
		}
	}

	s.store.DeletePrefix(ctx, scheduleCachePrefix)
	s.logger.InfoContext(ctx, "week drawn",
		"week", week.String(),
		"draw_id", drawID,
		"pool_size", len(pool),
	)

	return schedule.WeekAssignments{Week: week, Assignments: assignments}, nil
}

// EditWeek replaces a drawn week's assignments wholesale. Per-day patching
// is deliberately unsupported so the no-repeat-titular invariant can be
// validated against the whole week.
func (s *DrawService) EditWeek(ctx context.Context, weekID string, rows []EditAssignmentInput) (schedule.WeekAssignments, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.EditWeek")
	defer span.End()

	week, err := weekcal.Parse(weekID)
	if err != nil {
		return schedule.WeekAssignments{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.ledger.HasWeek(ctx, week)
	if err != nil {
		return schedule.WeekAssignments{}, fmt.Errorf("check week %s: %w", week, err)
	}
	if !exists {
		return schedule.WeekAssignments{}, fmt.Errorf("%w: week %s has no assignments to edit", ErrNotFound, week)
	}

	assignments, err := s.validateEditedWeek(ctx, week, rows)
	if err != nil {
		return schedule.WeekAssignments{}, err
	}

	if err := s.ledger.ReplaceWeek(ctx, week, assignments); err != nil {
		return schedule.WeekAssignments{}, fmt.Errorf("replace week %s: %w", week, err)
	}

	// Re-annotate from scratch so the edit leaves no stale served dates.
	if err := s.memberRepo.ClearServiceInWeek(ctx, week); err != nil {
		return schedule.WeekAssignments{}, fmt.Errorf("clear service in week %s: %w", week, err)
	}
	for _, assignment := range assignments {
		if err := s.memberRepo.RecordService(ctx, assignment.Titular, assignment.Date); err != nil {
			return schedule.WeekAssignments{}, fmt.Errorf("record service for %s: %w", assignment.Titular, err)
		}
	}

	s.store.DeletePrefix(ctx, scheduleCachePrefix)
	s.logger.InfoContext(ctx, "week edited", "week", week.String())

	return schedule.WeekAssignments{Week: week, Assignments: assignments}, nil
}

func (s *DrawService) validateEditedWeek(ctx context.Context, week weekcal.Week, rows []EditAssignmentInput) ([]schedule.Assignment, error) {
	dates := week.Dates()
	if len(rows) != len(dates) {
		return nil, fmt.Errorf("%w: expected %d rows for week %s, got %d", ErrInvalidInput, len(dates), week, len(rows))
	}

	drawID, err := s.idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate draw id: %w", err)
	}

	seenDates := make(map[time.Time]struct{}, len(rows))
	seenTitular := make(map[string]struct{}, len(rows))
	assignments := make([]schedule.Assignment, 0, len(rows))
	for _, row := range rows {
		day := weekcal.Normalize(row.Date)
		// The stored week id is always recomputed from the date, never
		// trusted from the edit payload.
		if weekcal.WeekOf(day) != week {
			return nil, fmt.Errorf("%w: date %s is not part of week %s", ErrInvalidInput, day.Format(time.DateOnly), week)
		}
		if _, dup := seenDates[day]; dup {
			return nil, fmt.Errorf("%w: date %s appears twice", ErrInvalidInput, day.Format(time.DateOnly))
		}
		seenDates[day] = struct{}{}

		titular := strings.TrimSpace(row.Titular)
		substitute := strings.TrimSpace(row.Substitute)
		if titular == "" || substitute == "" {
			return nil, fmt.Errorf("%w: titular and substitute are required on %s", ErrInvalidInput, day.Format(time.DateOnly))
		}
		if titular == substitute {
			return nil, fmt.Errorf("%w: titular and substitute must differ on %s", ErrInvalidInput, day.Format(time.DateOnly))
		}
		if _, dup := seenTitular[titular]; dup {
			return nil, fmt.Errorf("%w: %s is titular more than once", ErrInvalidInput, titular)
		}
		seenTitular[titular] = struct{}{}

		for _, handle := range []string{titular, substitute} {
			_, ok, err := s.memberRepo.GetByHandle(ctx, handle)
			if err != nil {
				return nil, fmt.Errorf("get member %s: %w", handle, err)
			}
			if !ok {
				return nil, fmt.Errorf("%w: unknown member handle %q", ErrInvalidInput, handle)
			}
		}

		assignments = append(assignments, schedule.Assignment{
			Date:       day,
			Week:       week,
			DrawID:     drawID,
			Titular:    titular,
			Substitute: substitute,
		})
	}

	return assignments, nil
}

// ResetAll wipes the ledger and every member's served dates. The caller
// must echo the configured confirmation phrase; a mismatch is a no-op
// reported as not performed, not an error.
func (s *DrawService) ResetAll(ctx context.Context, confirmation string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.ResetAll")
	defer span.End()

	if strings.TrimSpace(confirmation) != s.settings.ResetPhrase {
		s.logger.WarnContext(ctx, "reset refused", "reason", "confirmation mismatch")
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.Reset(ctx); err != nil {
		return false, fmt.Errorf("reset ledger: %w", err)
	}
	if err := s.memberRepo.ClearAllService(ctx); err != nil {
		return false, fmt.Errorf("clear served dates: %w", err)
	}

	s.store.DeletePrefix(ctx, scheduleCachePrefix)
	s.logger.InfoContext(ctx, "ledger reset")
	return true, nil
}

// History lists every drawn week with its assignments, ordered by week.
func (s *DrawService) History(ctx context.Context) ([]schedule.WeekAssignments, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DrawService.History")
	defer span.End()

	value, err := s.store.GetOrLoad(ctx, historyCacheKey, func(ctx context.Context) (any, error) {
		return s.ledger.History(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	history, ok := value.([]schedule.WeekAssignments)
	if !ok {
		return s.ledger.History(ctx)
	}
	return history, nil
}

func (s *DrawService) drawnWeeks(ctx context.Context) (map[weekcal.Week]struct{}, error) {
	history, err := s.ledger.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	out := make(map[weekcal.Week]struct{}, len(history))
	for _, group := range history {
		out[group.Week] = struct{}{}
	}
	return out, nil
}
