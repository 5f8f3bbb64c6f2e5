package postgres

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/rdelcourt/guardpost/internal/domain/member"
	qb "github.com/rdelcourt/guardpost/internal/platform/querybuilder"
	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
)

type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) List(ctx context.Context) ([]member.Member, error) {
	query, args, err := qb.Select("*").From("members").
		OrderBy("handle").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select members query")
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "select members")
	}

	served, err := r.servedDatesByHandle(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, member.Member{
			Handle:      row.Handle,
			Rank:        row.Rank,
			ExitReason:  nullStringToString(row.ExitReason),
			ServedDates: served[row.Handle],
		})
	}
	return out, nil
}

func (r *MemberRepository) GetByHandle(ctx context.Context, handle string) (member.Member, bool, error) {
	query, args, err := qb.Select("*").From("members").
		Where(qb.Eq("handle", handle)).
		ToSQL()
	if err != nil {
		return member.Member{}, false, errors.Wrap(err, "build get member query")
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return member.Member{}, false, nil
		}
		return member.Member{}, false, errors.Wrap(err, "get member by handle")
	}

	dates, err := r.servedDatesForHandle(ctx, handle)
	if err != nil {
		return member.Member{}, false, err
	}

	return member.Member{
		Handle:      row.Handle,
		Rank:        row.Rank,
		ExitReason:  nullStringToString(row.ExitReason),
		ServedDates: dates,
	}, true, nil
}

func (r *MemberRepository) UpsertAll(ctx context.Context, members []member.Member) error {
	if len(members) == 0 {
		return nil
	}

	builder := qb.InsertInto("members").
		Columns("handle", "rank", "exit_reason").
		Suffix(`ON CONFLICT (handle)
DO UPDATE SET
    rank = EXCLUDED.rank,
    exit_reason = EXCLUDED.exit_reason,
    updated_at = NOW()`)
	for _, item := range members {
		builder.Values(item.Handle, item.Rank, nullableString(item.ExitReason))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return errors.Wrap(err, "build upsert members query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "upsert members")
	}
	return nil
}

func (r *MemberRepository) RecordService(ctx context.Context, handle string, date time.Time) error {
	query, args, err := qb.InsertInto("member_service").
		Columns("handle", "duty_date").
		Values(handle, weekcal.Normalize(date).Format(time.DateOnly)).
		Suffix("ON CONFLICT (handle, duty_date) DO NOTHING").
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build record service query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "record service for %s", handle)
	}
	return nil
}

func (r *MemberRepository) ClearServiceInWeek(ctx context.Context, week weekcal.Week) error {
	// Deleting by the week's exact date strings leaves rows with
	// unparseable legacy values in place.
	dates := week.Dates()
	values := make([]any, 0, len(dates))
	for _, date := range dates {
		values = append(values, date.Format(time.DateOnly))
	}

	query, args, err := qb.DeleteFrom("member_service").
		Where(qb.In("duty_date", values)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build clear service in week query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "clear service in week %s", week)
	}
	return nil
}

func (r *MemberRepository) ClearAllService(ctx context.Context) error {
	query, args, err := qb.DeleteFrom("member_service").ToSQL()
	if err != nil {
		return errors.Wrap(err, "build clear all service query")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "clear all service")
	}
	return nil
}

func (r *MemberRepository) ReplaceServedDates(ctx context.Context, handle string, dates []time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx for replace served dates")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("member_service").
		Where(qb.Eq("handle", handle)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build delete served dates query")
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return errors.Wrapf(err, "delete served dates for %s", handle)
	}

	if len(dates) > 0 {
		builder := qb.InsertInto("member_service").
			Columns("handle", "duty_date").
			Suffix("ON CONFLICT (handle, duty_date) DO NOTHING")
		for _, date := range dates {
			builder.Values(handle, weekcal.Normalize(date).Format(time.DateOnly))
		}
		insertQuery, insertArgs, err := builder.ToSQL()
		if err != nil {
			return errors.Wrap(err, "build insert served dates query")
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return errors.Wrapf(err, "insert served dates for %s", handle)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit replace served dates")
	}
	return nil
}

func (r *MemberRepository) servedDatesByHandle(ctx context.Context) (map[string][]time.Time, error) {
	query, args, err := qb.Select("handle", "duty_date").From("member_service").
		OrderBy("handle", "duty_date").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select service query")
	}

	var rows []memberServiceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "select member service")
	}

	out := make(map[string][]time.Time, len(rows))
	for _, row := range rows {
		day, err := time.ParseInLocation(time.DateOnly, row.DutyDate, time.UTC)
		if err != nil {
			// Legacy value, not a date. Skip.
			continue
		}
		out[row.Handle] = append(out[row.Handle], day)
	}
	for handle := range out {
		sort.Slice(out[handle], func(i, j int) bool { return out[handle][i].Before(out[handle][j]) })
	}
	return out, nil
}

func (r *MemberRepository) servedDatesForHandle(ctx context.Context, handle string) ([]time.Time, error) {
	query, args, err := qb.Select("handle", "duty_date").From("member_service").
		Where(qb.Eq("handle", handle)).
		OrderBy("duty_date").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build select service by handle query")
	}

	var rows []memberServiceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select service for %s", handle)
	}

	out := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		day, err := time.ParseInLocation(time.DateOnly, row.DutyDate, time.UTC)
		if err != nil {
			continue
		}
		out = append(out, day)
	}
	return out, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
