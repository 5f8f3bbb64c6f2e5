package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/rdelcourt/guardpost/internal/domain/schedule"
	qb "github.com/rdelcourt/guardpost/internal/platform/querybuilder"
	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
)

type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) HasWeek(ctx context.Context, week weekcal.Week) (bool, error) {
	query, args, err := qb.Select("COUNT(1) AS total").From("assignments").
		Where(qb.Eq("week", week.String())).
		ToSQL()
	if err != nil {
		return false, errors.Wrap(err, "build has week query")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return false, errors.Wrapf(err, "count assignments for week %s", week)
	}
	return total > 0, nil
}

func (r *ScheduleRepository) AppendWeek(ctx context.Context, week weekcal.Week, assignments []schedule.Assignment) error {
	if len(assignments) == 0 {
		return errors.New("append week requires at least one assignment")
	}

	query, args, err := insertAssignmentsSQL(week, assignments)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		// The unique index on (week, duty_date) turns a lost draw race into
		// the typed duplicate error. All rows of the batch roll back
		// together because the insert is a single statement.
		if isUniqueViolation(err) {
			return schedule.ErrWeekExists
		}
		return errors.Wrapf(err, "insert assignments for week %s", week)
	}
	return nil
}

func (r *ScheduleRepository) ReplaceWeek(ctx context.Context, week weekcal.Week, assignments []schedule.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx for replace week")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("assignments").
		Where(qb.Eq("week", week.String())).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build delete week query")
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return errors.Wrapf(err, "delete assignments for week %s", week)
	}

	if len(assignments) > 0 {
		insertQuery, insertArgs, err := insertAssignmentsSQL(week, assignments)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return errors.Wrapf(err, "insert replacement assignments for week %s", week)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit replace week %s", week)
	}
	return nil
}

func (r *ScheduleRepository) Reset(ctx context.Context) error {
	query, args, err := qb.DeleteFrom("assignments").ToSQL()
	if err != nil {
		return errors.Wrap(err, "build reset query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "reset assignments")
	}
	return nil
}

func (r *ScheduleRepository) History(ctx context.Context) ([]schedule.WeekAssignments, error) {
	query, args, err := qb.Select("*").From("assignments").
		OrderBy("week", "duty_date").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build history query")
	}

	var rows []assignmentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "select assignments")
	}

	out := make([]schedule.WeekAssignments, 0)
	for _, row := range rows {
		week, err := weekcal.Parse(row.Week)
		if err != nil {
			return nil, errors.Wrapf(err, "stored week id %q is malformed", row.Week)
		}

		assignment := schedule.Assignment{
			Date:       weekcal.Normalize(row.DutyDate),
			Week:       week,
			DrawID:     row.DrawID,
			Titular:    row.Titular,
			Substitute: row.Substitute,
		}
		if len(out) == 0 || out[len(out)-1].Week != week {
			out = append(out, schedule.WeekAssignments{Week: week})
		}
		last := len(out) - 1
		out[last].Assignments = append(out[last].Assignments, assignment)
	}
	return out, nil
}

func insertAssignmentsSQL(week weekcal.Week, assignments []schedule.Assignment) (string, []any, error) {
	builder := qb.InsertInto("assignments").
		Columns("week", "duty_date", "draw_id", "titular", "substitute")
	for _, assignment := range assignments {
		builder.Values(
			week.String(),
			weekcal.Normalize(assignment.Date),
			assignment.DrawID,
			assignment.Titular,
			assignment.Substitute,
		)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return "", nil, errors.Wrapf(err, "build insert assignments query for week %s", week)
	}
	return query, args, nil
}
