package postgres

import "time"

type assignmentTableModel struct {
	ID         int64     `db:"id"`
	Week       string    `db:"week"`
	DutyDate   time.Time `db:"duty_date"`
	DrawID     string    `db:"draw_id"`
	Titular    string    `db:"titular"`
	Substitute string    `db:"substitute"`
	CreatedAt  time.Time `db:"created_at"`
}
