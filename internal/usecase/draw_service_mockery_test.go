package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/rdelcourt/guardpost/internal/domain/schedule"
	"github.com/rdelcourt/guardpost/internal/infrastructure/repository/memory"
	schedulemock "github.com/rdelcourt/guardpost/internal/mocks/domain/schedule"
	"github.com/rdelcourt/guardpost/internal/platform/logging"
	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
	"github.com/stretchr/testify/mock"
)

func newDrawServiceWithLedgerMock(t *testing.T) (*DrawService, *schedulemock.Ledger) {
	t.Helper()

	ledger := schedulemock.NewLedger(t)
	service := NewDrawService(
		memory.NewMemberRepository(memory.SeedMembers()),
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
	return service, ledger
}

func TestDrawService_DrawWeek_LedgerCheckFailsUsingMockery(t *testing.T) {
	t.Parallel()

	service, ledger := newDrawServiceWithLedgerMock(t)
	week := weekcal.MustParse("2025-W10")

	ledger.
		On("HasWeek", mock.Anything, week).
		Return(false, errors.New("connection refused")).
		Once()

	_, err := service.DrawWeek(t.Context(), "2025-W10")
	if err == nil {
		t.Fatal("expected error when ledger check fails")
	}
	if errors.Is(err, ErrAlreadyDrawn) {
		t.Fatalf("infrastructure failure must not look like a duplicate draw: %v", err)
	}
}

func TestDrawService_DrawWeek_LostRaceUsingMockery(t *testing.T) {
	t.Parallel()

	service, ledger := newDrawServiceWithLedgerMock(t)
	week := weekcal.MustParse("2025-W10")

	ledger.
		On("HasWeek", mock.Anything, week).
		Return(false, nil).
		Once()
	ledger.
		On("AppendWeek", mock.Anything, week, mock.AnythingOfType("[]schedule.Assignment")).
		Return(schedule.ErrWeekExists).
		Once()

	_, err := service.DrawWeek(t.Context(), "2025-W10")
	if !errors.Is(err, ErrAlreadyDrawn) {
		t.Fatalf("expected ErrAlreadyDrawn on lost write race, got %v", err)
	}
}

func TestDrawService_History_LedgerFailureUsingMockery(t *testing.T) {
	t.Parallel()

	service, ledger := newDrawServiceWithLedgerMock(t)

	ledger.
		On("History", mock.Anything).
		Return(nil, errors.New("connection refused")).
		Once()

	if _, err := service.History(t.Context()); err == nil {
		t.Fatal("expected error when ledger history fails")
	}
}
