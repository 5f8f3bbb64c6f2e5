package usecase

import (
	"testing"
	"time"

	"github.com/rdelcourt/guardpost/internal/infrastructure/repository/memory"
	"github.com/rdelcourt/guardpost/internal/platform/logging"
)

func TestReconcileService_RebuildsFromLedger(t *testing.T) {
	memberRepo := memory.NewMemberRepository(memory.SeedMembers())
	ledger := memory.NewScheduleRepository()

	drawSvc := NewDrawService(
		memberRepo,
		ledger,
		staticIDGenerator{id: "draw-1"},
		DrawSettings{ExcludedRank: "R1", ResetPhrase: "RESET"},
		logging.NewNop(),
	)
	drawSvc.now = func() time.Time { return fixedNow }

	drawn, err := drawSvc.DrawWeek(t.Context(), "2025-W10")
	if err != nil {
		t.Fatalf("draw week failed: %v", err)
	}

	// Corrupt the roster annotations: drop one titular's record and add a
	// stray date to a member who never stood guard.
	firstTitular := drawn.Assignments[0].Titular
	if err := memberRepo.ReplaceServedDates(t.Context(), firstTitular, nil); err != nil {
		t.Fatalf("clear titular: %v", err)
	}
	stray := pickUndrawnHandle(t, drawn.Assignments)
	if err := memberRepo.RecordService(t.Context(), stray, fixedNow); err != nil {
		t.Fatalf("record stray service: %v", err)
	}

	service := NewReconcileService(memberRepo, ledger, logging.NewNop())
	result, err := service.ReconcileServiceDates(t.Context(), ReconcileInput{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	if result.MemberCount != 18 {
		t.Fatalf("expected 18 members visited, got %d", result.MemberCount)
	}
	if result.SuccessCount != 2 {
		t.Fatalf("expected 2 rewrites, got %d (%+v)", result.SuccessCount, result.Tasks)
	}
	if result.FailedCount != 0 {
		t.Fatalf("expected no failures, got %d", result.FailedCount)
	}
	if result.UnchangedCount != 16 {
		t.Fatalf("expected 16 unchanged members, got %d", result.UnchangedCount)
	}

	restored, _, err := memberRepo.GetByHandle(t.Context(), firstTitular)
	if err != nil {
		t.Fatalf("get titular: %v", err)
	}
	if !containsDate(restored.ServedDates, drawn.Assignments[0].Date) {
		t.Fatalf("titular %s not restored: %v", firstTitular, restored.ServedDates)
	}

	cleared, _, err := memberRepo.GetByHandle(t.Context(), stray)
	if err != nil {
		t.Fatalf("get stray member: %v", err)
	}
	if len(cleared.ServedDates) != 0 {
		t.Fatalf("stray served dates survived reconcile: %v", cleared.ServedDates)
	}
}

func TestReconcileService_DryRun(t *testing.T) {
	memberRepo := memory.NewMemberRepository(memory.SeedMembers())
	ledger := memory.NewScheduleRepository()

	if err := memberRepo.RecordService(t.Context(), "Aldric", fixedNow); err != nil {
		t.Fatalf("record service: %v", err)
	}

	service := NewReconcileService(memberRepo, ledger, logging.NewNop())
	result, err := service.ReconcileServiceDates(t.Context(), ReconcileInput{DryRun: true})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result.SuccessCount != 1 {
		t.Fatalf("expected 1 pending rewrite, got %d", result.SuccessCount)
	}

	aldric, _, err := memberRepo.GetByHandle(t.Context(), "Aldric")
	if err != nil {
		t.Fatalf("get Aldric: %v", err)
	}
	if len(aldric.ServedDates) != 1 {
		t.Fatalf("dry run rewrote served dates: %v", aldric.ServedDates)
	}
}

func TestReconcileService_EmptyRoster(t *testing.T) {
	service := NewReconcileService(
		memory.NewMemberRepository(nil),
		memory.NewScheduleRepository(),
		logging.NewNop(),
	)

	result, err := service.ReconcileServiceDates(t.Context(), ReconcileInput{})
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if result.MemberCount != 0 || len(result.Tasks) != 0 {
		t.Fatalf("unexpected result for empty roster: %+v", result)
	}
}
