package postgres

import (
	"database/sql"
	"time"
)

type memberTableModel struct {
	ID         int64          `db:"id"`
	Handle     string         `db:"handle"`
	Rank       string         `db:"rank"`
	ExitReason sql.NullString `db:"exit_reason"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// memberServiceTableModel keeps duty dates as text on purpose: rosters
// imported from older tooling carry values that are not parseable dates,
// and those rows must survive week-scoped deletes untouched.
type memberServiceTableModel struct {
	Handle   string `db:"handle"`
	DutyDate string `db:"duty_date"`
}

func nullStringToString(value sql.NullString) string {
	if !value.Valid {
		return ""
	}
	return value.String
}
