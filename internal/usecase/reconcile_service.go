package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rdelcourt/guardpost/internal/domain/member"
	"github.com/rdelcourt/guardpost/internal/domain/schedule"
	"github.com/rdelcourt/guardpost/internal/platform/logging"
)

const defaultReconcileWorkers = 4

const (
	reconcileStatusSuccess   = "success"
	reconcileStatusFailed    = "failed"
	reconcileStatusUnchanged = "unchanged"
)

type ReconcileInput struct {
	MaxWorkers int
	// DryRun computes the per-member differences without writing them.
	DryRun bool
}

type ReconcileResult struct {
	MemberCount    int                   `json:"member_count"`
	SuccessCount   int                   `json:"success_count"`
	FailedCount    int                   `json:"failed_count"`
	UnchangedCount int                   `json:"unchanged_count"`
	WorkerCount    int                   `json:"worker_count"`
	Tasks          []ReconcileTaskResult `json:"tasks"`
}

type ReconcileTaskResult struct {
	Handle     string `json:"handle"`
	Status     string `json:"status"`
	Before     int    `json:"before"`
	After      int    `json:"after"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// ReconcileService rebuilds every member's served dates from the ledger.
// The ledger is the source of truth; only titular assignments count as
// served duty.
type ReconcileService struct {
	memberRepo     member.Repository
	ledger         schedule.Ledger
	logger         *logging.Logger
	defaultWorkers int
}

func NewReconcileService(memberRepo member.Repository, ledger schedule.Ledger, logger *logging.Logger) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ReconcileService{
		memberRepo:     memberRepo,
		ledger:         ledger,
		logger:         logger,
		defaultWorkers: defaultReconcileWorkers,
	}
}

// SetDefaultWorkers overrides the pool size used when a request does not
// ask for one.
func (s *ReconcileService) SetDefaultWorkers(count int) {
	if count > 0 {
		s.defaultWorkers = count
	}
}

func (s *ReconcileService) ReconcileServiceDates(ctx context.Context, input ReconcileInput) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ReconcileServiceDates")
	defer span.End()

	history, err := s.ledger.History(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("load history: %w", err)
	}
	servedByHandle := make(map[string][]time.Time)
	for _, group := range history {
		for _, assignment := range group.Assignments {
			servedByHandle[assignment.Titular] = append(servedByHandle[assignment.Titular], assignment.Date)
		}
	}

	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list members: %w", err)
	}

	workerCount := normalizeReconcileWorkerCount(input.MaxWorkers, s.defaultWorkers, len(members))
	result := ReconcileResult{
		MemberCount: len(members),
		WorkerCount: workerCount,
		Tasks:       make([]ReconcileTaskResult, 0, len(members)),
	}
	if len(members) == 0 {
		return result, nil
	}

	results := make(chan ReconcileTaskResult, len(members))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var unchangedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, item := range members {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := ReconcileTaskResult{
				Handle: item.Handle,
				Before: len(item.ServedDates),
			}

			expected := dedupeSortedDates(servedByHandle[item.Handle])
			row.After = len(expected)

			switch {
			case equalDateSets(item.ServedDates, expected):
				row.Status = reconcileStatusUnchanged
				unchangedCount.Add(1)
			case input.DryRun:
				row.Status = reconcileStatusSuccess
				row.Message = "dry run, not written"
				successCount.Add(1)
			default:
				if err := s.memberRepo.ReplaceServedDates(ctx, item.Handle, expected); err != nil {
					row.Status = reconcileStatusFailed
					row.Message = err.Error()
					failedCount.Add(1)
				} else {
					row.Status = reconcileStatusSuccess
					successCount.Add(1)
				}
			}

			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			return ReconcileResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Handle < result.Tasks[j].Handle
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.UnchangedCount = int(unchangedCount.Load())

	s.logger.InfoContext(ctx, "service dates reconciled",
		"members", result.MemberCount,
		"rewritten", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func normalizeReconcileWorkerCount(value int, fallback int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = fallback
	}
	if value <= 0 {
		value = defaultReconcileWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}

func dedupeSortedDates(dates []time.Time) []time.Time {
	if len(dates) == 0 {
		return nil
	}

	seen := make(map[time.Time]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, date := range dates {
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}
		out = append(out, date)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func equalDateSets(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
