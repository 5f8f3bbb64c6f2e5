package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/rdelcourt/guardpost/internal/domain/member"
	"github.com/rdelcourt/guardpost/internal/domain/schedule"
	"github.com/rdelcourt/guardpost/internal/infrastructure/repository/memory"
	"github.com/rdelcourt/guardpost/internal/platform/cache"
	"github.com/rdelcourt/guardpost/internal/platform/logging"
	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

// fixedNow is a Wednesday in ISO week 2025-W08, which makes 2025-W10 the
// first drawable week.
var fixedNow = time.Date(2025, time.February, 19, 15, 30, 0, 0, time.UTC)

func newDrawServiceForTest(t *testing.T) (*DrawService, *memory.MemberRepository, *memory.ScheduleRepository) {
	t.Helper()

	memberRepo := memory.NewMemberRepository(memory.SeedMembers())
	ledger := memory.NewScheduleRepository()
	service := NewDrawService(
		memberRepo,
		ledger,
		staticIDGenerator{id: "draw-1"},
		DrawSettings{
			ExcludedRank: "R1",
			ResetPhrase:  "RESET",
			HorizonWeeks: 4,
		},
		logging.NewNop(),
	)
	service.now = func() time.Time { return fixedNow }
	return service, memberRepo, ledger
}

func TestDrawService_ListDrawableWeeks(t *testing.T) {
	service, _, _ := newDrawServiceForTest(t)

	weeks, err := service.ListDrawableWeeks(t.Context(), 0)
	if err != nil {
		t.Fatalf("list drawable weeks failed: %v", err)
	}
	if len(weeks) != 4 {
		t.Fatalf("expected 4 weeks, got %d", len(weeks))
	}
	if weeks[0].String() != "2025-W10" {
		t.Fatalf("expected first drawable week 2025-W10, got %s", weeks[0])
	}
	if weeks[3].String() != "2025-W13" {
		t.Fatalf("expected last drawable week 2025-W13, got %s", weeks[3])
	}
}

func TestDrawService_ListDrawableWeeks_SkipsDrawnWeeks(t *testing.T) {
	service, _, _ := newDrawServiceForTest(t)

	if _, err := service.DrawWeek(t.Context(), "2025-W11"); err != nil {
		t.Fatalf("draw week failed: %v", err)
	}

	weeks, err := service.ListDrawableWeeks(t.Context(), 4)
	if err != nil {
		t.Fatalf("list drawable weeks failed: %v", err)
	}
	for _, week := range weeks {
		if week.String() == "2025-W11" {
			t.Fatalf("drawn week 2025-W11 still listed as drawable")
		}
	}
	if len(weeks) != 3 {
		t.Fatalf("expected 3 remaining weeks, got %d", len(weeks))
	}
}

func TestDrawService_DrawWeek(t *testing.T) {
	service, memberRepo, _ := newDrawServiceForTest(t)

	result, err := service.DrawWeek(t.Context(), "2025-W10")
	if err != nil {
		t.Fatalf("draw week failed: %v", err)
	}
	if len(result.Assignments) != 7 {
		t.Fatalf("expected 7 assignments, got %d", len(result.Assignments))
	}

	week, _ := weekcal.Parse("2025-W10")
	titulars := make(map[string]struct{}, 7)
	for i, assignment := range result.Assignments {
		if !assignment.Date.Equal(week.Dates()[i]) {
			t.Fatalf("assignment %d has date %s, expected %s", i, assignment.Date, week.Dates()[i])
		}
		if assignment.DrawID != "draw-1" {
			t.Fatalf("unexpected draw id %q", assignment.DrawID)
		}
		if assignment.Titular == assignment.Substitute {
			t.Fatalf("titular equals substitute on %s", assignment.Date)
		}
		if _, dup := titulars[assignment.Titular]; dup {
			t.Fatalf("titular %s drawn twice in the same week", assignment.Titular)
		}
		titulars[assignment.Titular] = struct{}{}

		if assignment.Titular == "Quillon" || assignment.Substitute == "Quillon" {
			t.Fatalf("rank-excluded member drawn on %s", assignment.Date)
		}
		if assignment.Titular == "Ravenne" || assignment.Substitute == "Ravenne" {
			t.Fatalf("exited member drawn on %s", assignment.Date)
		}
	}

	// Titular duty lands on the roster, substitute duty does not.
	for _, assignment := range result.Assignments {
		titular, ok, err := memberRepo.GetByHandle(t.Context(), assignment.Titular)
		if err != nil || !ok {
			t.Fatalf("get titular %s: ok=%v err=%v", assignment.Titular, ok, err)
		}
		if !containsDate(titular.ServedDates, assignment.Date) {
			t.Fatalf("titular %s missing served date %s", assignment.Titular, assignment.Date)
		}

		if _, drewTitular := titulars[assignment.Substitute]; drewTitular {
			continue
		}
		substitute, ok, err := memberRepo.GetByHandle(t.Context(), assignment.Substitute)
		if err != nil || !ok {
			t.Fatalf("get substitute %s: ok=%v err=%v", assignment.Substitute, ok, err)
		}
		if len(substitute.ServedDates) != 0 {
			t.Fatalf("substitute %s has served dates %v", assignment.Substitute, substitute.ServedDates)
		}
	}
}

func TestDrawService_DrawWeek_Idempotent(t *testing.T) {
	service, _, _ := newDrawServiceForTest(t)

	if _, err := service.DrawWeek(t.Context(), "2025-W10"); err != nil {
		t.Fatalf("first draw failed: %v", err)
	}
	_, err := service.DrawWeek(t.Context(), "2025-W10")
	if !errors.Is(err, ErrAlreadyDrawn) {
		t.Fatalf("expected ErrAlreadyDrawn, got %v", err)
	}
}

func TestDrawService_DrawWeek_RejectsPastAndCurrentWeek(t *testing.T) {
	service, _, _ := newDrawServiceForTest(t)

	for _, weekID := range []string{"2025-W07", "2025-W08"} {
		_, err := service.DrawWeek(t.Context(), weekID)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %s, got %v", weekID, err)
		}
	}
}

func TestDrawService_DrawWeek_InvalidWeekID(t *testing.T) {
	service, _, _ := newDrawServiceForTest(t)

	for _, weekID := range []string{"", "2025", "2025-W54", "2025-W53", "garbage"} {
		_, err := service.DrawWeek(t.Context(), weekID)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", weekID, err)
		}
	}
}

func TestDrawService_DrawWeek_InsufficientPool(t *testing.T) {
	memberRepo := memory.NewMemberRepository([]member.Member{
		{Handle: "Aldric", Rank: "R3"},
		{Handle: "Brasier", Rank: "R2"},
		{Handle: "Cendrelune", Rank: "R4"},
	})
	service := NewDrawService(
		memberRepo,
		memory.NewScheduleRepository(),
		staticIDGenerator{id: "draw-1"},
		DrawSettings{ExcludedRank: "R1", ResetPhrase: "RESET"},
		logging.NewNop(),
	)
	service.now = func() time.Time { return fixedNow }

	_, err := service.DrawWeek(t.Context(), "2025-W10")
	if !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}
}

func TestDrawService_DrawWeek_ClearedExitReasonRejoinsPool(t *testing.T) {
	// A roster sized so the draw only works once Ravenne is back.
	roster := []member.Member{
		{Handle: "Aldric", Rank: "R3"},
		{Handle: "Brasier", Rank: "R2"},
		{Handle: "Cendrelune", Rank: "R4"},
		{Handle: "Dorn", Rank: "R2"},
		{Handle: "Eclipsia", Rank: "R3"},
		{Handle: "Fenril", Rank: "R5"},
		{Handle: "Grimaud", Rank: "R2"},
		{Handle: "Helva", Rank: "R3"},
		{Handle: "Isilme", Rank: "R4"},
		{Handle: "Jorvik", Rank: "R2"},
		{Handle: "Kaelyss", Rank: "R3"},
		{Handle: "Lothar", Rank: "R5"},
		{Handle: "Morrigane", Rank: "R2"},
		{Handle: "Ravenne", Rank: "R3", ExitReason: "left the guild"},
	}
	memberRepo := memory.NewMemberRepository(roster)
	service := NewDrawService(
		memberRepo,
		memory.NewScheduleRepository(),
		staticIDGenerator{id: "draw-1"},
		DrawSettings{ExcludedRank: "R1", ResetPhrase: "RESET"},
		logging.NewNop(),
	)
	service.now = func() time.Time { return fixedNow }

	// 13 eligible of 14 needed: the exited member keeps the pool short.
	_, err := service.DrawWeek(t.Context(), "2025-W10")
	if !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool while Ravenne is out, got %v", err)
	}

	ravenne := member.Member{Handle: "Ravenne", Rank: "R3"}
	if err := memberRepo.UpsertAll(t.Context(), []member.Member{ravenne}); err != nil {
		t.Fatalf("upsert ravenne: %v", err)
	}

	result, err := service.DrawWeek(t.Context(), "2025-W10")
	if err != nil {
		t.Fatalf("draw after rejoin failed: %v", err)
	}
	found := false
	for _, assignment := range result.Assignments {
		if assignment.Titular == "Ravenne" || assignment.Substitute == "Ravenne" {
			found = true
		}
	}
	if !found {
		t.Fatalf("rejoined member not drawn even though the pool is exactly full")
	}
}

func TestDrawService_EditWeek(t *testing.T) {
	service, memberRepo, ledger := newDrawServiceForTest(t)

	drawn, err := service.DrawWeek(t.Context(), "2025-W10")
	if err != nil {
		t.Fatalf("draw week failed: %v", err)
	}

	// Swap Monday's titular for a member who was not drawn at all.
	replacement := pickUndrawnHandle(t, drawn.Assignments)
	previousTitular := drawn.Assignments[0].Titular

	rows := make([]EditAssignmentInput, 0, len(drawn.Assignments))
	for i, assignment := range drawn.Assignments {
		row := EditAssignmentInput{
			Date:       assignment.Date,
			Titular:    assignment.Titular,
			Substitute: assignment.Substitute,
		}
		if i == 0 {
			row.Titular = replacement
		}
		rows = append(rows, row)
	}

	edited, err := service.EditWeek(t.Context(), "2025-W10", rows)
	if err != nil {
		t.Fatalf("edit week failed: %v", err)
	}
	if edited.Assignments[0].Titular != replacement {
		t.Fatalf("edit did not apply, titular is %s", edited.Assignments[0].Titular)
	}

	monday := drawn.Assignments[0].Date
	newTitular, _, _ := memberRepo.GetByHandle(t.Context(), replacement)
	if !containsDate(newTitular.ServedDates, monday) {
		t.Fatalf("replacement %s did not gain served date %s", replacement, monday)
	}
	oldTitular, _, _ := memberRepo.GetByHandle(t.Context(), previousTitular)
	if containsDate(oldTitular.ServedDates, monday) {
		t.Fatalf("previous titular %s kept served date %s", previousTitular, monday)
	}

	history, err := ledger.History(t.Context())
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 1 || len(history[0].Assignments) != 7 {
		t.Fatalf("edit changed history shape: %+v", history)
	}
}

func TestDrawService_EditWeek_Validation(t *testing.T) {
	service, _, _ := newDrawServiceForTest(t)

	drawn, err := service.DrawWeek(t.Context(), "2025-W10")
	if err != nil {
		t.Fatalf("draw week failed: %v", err)
	}

	baseRows := func() []EditAssignmentInput {
		rows := make([]EditAssignmentInput, 0, len(drawn.Assignments))
		for _, assignment := range drawn.Assignments {
			rows = append(rows, EditAssignmentInput{
				Date:       assignment.Date,
				Titular:    assignment.Titular,
				Substitute: assignment.Substitute,
			})
		}
		return rows
	}

	t.Run("missing day", func(t *testing.T) {
		_, err := service.EditWeek(t.Context(), "2025-W10", baseRows()[:6])
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("titular equals substitute", func(t *testing.T) {
		rows := baseRows()
		rows[2].Substitute = rows[2].Titular
		_, err := service.EditWeek(t.Context(), "2025-W10", rows)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("repeated titular", func(t *testing.T) {
		rows := baseRows()
		rows[1].Titular = rows[0].Titular
		_, err := service.EditWeek(t.Context(), "2025-W10", rows)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown handle", func(t *testing.T) {
		rows := baseRows()
		rows[0].Substitute = "Nobody"
		_, err := service.EditWeek(t.Context(), "2025-W10", rows)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("date outside week", func(t *testing.T) {
		rows := baseRows()
		rows[0].Date = rows[0].Date.AddDate(0, 0, -7)
		_, err := service.EditWeek(t.Context(), "2025-W10", rows)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("week not drawn", func(t *testing.T) {
		_, err := service.EditWeek(t.Context(), "2025-W12", baseRows())
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDrawService_ResetAll(t *testing.T) {
	service, memberRepo, ledger := newDrawServiceForTest(t)

	if _, err := service.DrawWeek(t.Context(), "2025-W10"); err != nil {
		t.Fatalf("draw week failed: %v", err)
	}

	t.Run("wrong confirmation is a no-op", func(t *testing.T) {
		performed, err := service.ResetAll(t.Context(), "reset")
		if err != nil {
			t.Fatalf("reset returned error: %v", err)
		}
		if performed {
			t.Fatalf("reset performed despite confirmation mismatch")
		}

		history, err := ledger.History(t.Context())
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("ledger changed by refused reset: %d weeks", len(history))
		}
	})

	t.Run("matching confirmation wipes everything", func(t *testing.T) {
		performed, err := service.ResetAll(t.Context(), " RESET ")
		if err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if !performed {
			t.Fatalf("reset reported not performed")
		}

		history, err := ledger.History(t.Context())
		if err != nil {
			t.Fatalf("history failed: %v", err)
		}
		if len(history) != 0 {
			t.Fatalf("ledger not empty after reset: %d weeks", len(history))
		}

		members, err := memberRepo.List(t.Context())
		if err != nil {
			t.Fatalf("list members failed: %v", err)
		}
		for _, item := range members {
			if len(item.ServedDates) != 0 {
				t.Fatalf("member %s kept served dates after reset", item.Handle)
			}
		}
	})
}

func TestDrawService_History(t *testing.T) {
	service, _, _ := newDrawServiceForTest(t)
	service.SetCache(cache.NewStore(time.Minute))

	if _, err := service.DrawWeek(t.Context(), "2025-W11"); err != nil {
		t.Fatalf("draw W11 failed: %v", err)
	}
	if _, err := service.DrawWeek(t.Context(), "2025-W10"); err != nil {
		t.Fatalf("draw W10 failed: %v", err)
	}

	history, err := service.History(t.Context())
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 weeks of history, got %d", len(history))
	}
	if history[0].Week.String() != "2025-W10" || history[1].Week.String() != "2025-W11" {
		t.Fatalf("history out of order: %s then %s", history[0].Week, history[1].Week)
	}

	// Drawing another week invalidates the cached listing.
	if _, err := service.DrawWeek(t.Context(), "2025-W12"); err != nil {
		t.Fatalf("draw W12 failed: %v", err)
	}
	history, err = service.History(t.Context())
	if err != nil {
		t.Fatalf("history after draw failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 weeks after cache invalidation, got %d", len(history))
	}
}

func containsDate(dates []time.Time, target time.Time) bool {
	for _, date := range dates {
		if date.Equal(target) {
			return true
		}
	}
	return false
}

func pickUndrawnHandle(t *testing.T, assignments []schedule.Assignment) string {
	t.Helper()

	drawn := make(map[string]struct{}, len(assignments)*2)
	for _, assignment := range assignments {
		drawn[assignment.Titular] = struct{}{}
		drawn[assignment.Substitute] = struct{}{}
	}
	for _, item := range memory.SeedMembers() {
		if item.Rank == "R1" || item.ExitReason != "" {
			continue
		}
		if _, ok := drawn[item.Handle]; !ok {
			return item.Handle
		}
	}
	t.Fatalf("every eligible member was drawn, cannot pick a replacement")
	return ""
}
