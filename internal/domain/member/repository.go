package member

import (
	"context"
	"time"

	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
)

// Repository describes member persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Member, error)
	GetByHandle(ctx context.Context, handle string) (Member, bool, error)
	// UpsertAll replaces or creates the given members by handle. Served
	// dates of existing members are preserved.
	UpsertAll(ctx context.Context, members []Member) error
	// RecordService inserts a served date if absent. Idempotent.
	RecordService(ctx context.Context, handle string, date time.Time) error
	// ClearServiceInWeek removes served dates falling inside the week.
	// Entries that cannot be interpreted as dates are left alone; legacy
	// rosters may carry malformed values predating the current format.
	ClearServiceInWeek(ctx context.Context, week weekcal.Week) error
	ClearAllService(ctx context.Context) error
	// ReplaceServedDates swaps a member's full served-dates set, used by
	// the ledger reconcile job.
	ReplaceServedDates(ctx context.Context, handle string, dates []time.Time) error
}
