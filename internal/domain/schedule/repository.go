package schedule

import (
	"context"

	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
)

// Ledger is the durable system of record for all assignments ever drawn.
type Ledger interface {
	HasWeek(ctx context.Context, week weekcal.Week) (bool, error)
	// AppendWeek stores a freshly drawn week. Returns ErrWeekExists and
	// writes nothing when the week is already present.
	AppendWeek(ctx context.Context, week weekcal.Week, assignments []Assignment) error
	// ReplaceWeek atomically swaps a week's assignments for the given set.
	// Readers never observe a half-replaced week.
	ReplaceWeek(ctx context.Context, week weekcal.Week, assignments []Assignment) error
	// Reset deletes every assignment, keeping the table shape.
	Reset(ctx context.Context) error
	// History lists all assignments grouped by week, ordered by week.
	History(ctx context.Context) ([]WeekAssignments, error)
}
