package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rdelcourt/guardpost/internal/domain/schedule"
	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
)

type ScheduleRepository struct {
	mu    sync.RWMutex
	weeks map[weekcal.Week][]schedule.Assignment
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{weeks: make(map[weekcal.Week][]schedule.Assignment)}
}

func (r *ScheduleRepository) HasWeek(_ context.Context, week weekcal.Week) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.weeks[week]
	return ok, nil
}

func (r *ScheduleRepository) AppendWeek(_ context.Context, week weekcal.Week, assignments []schedule.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.weeks[week]; ok {
		return schedule.ErrWeekExists
	}

	r.weeks[week] = cloneAssignments(assignments)
	return nil
}

func (r *ScheduleRepository) ReplaceWeek(_ context.Context, week weekcal.Week, assignments []schedule.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.weeks[week] = cloneAssignments(assignments)
	return nil
}

func (r *ScheduleRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.weeks = make(map[weekcal.Week][]schedule.Assignment)
	return nil
}

func (r *ScheduleRepository) History(_ context.Context) ([]schedule.WeekAssignments, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.WeekAssignments, 0, len(r.weeks))
	for week, assignments := range r.weeks {
		out = append(out, schedule.WeekAssignments{
			Week:        week,
			Assignments: cloneAssignments(assignments),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week.Before(out[j].Week) })
	return out, nil
}

func cloneAssignments(assignments []schedule.Assignment) []schedule.Assignment {
	out := append([]schedule.Assignment(nil), assignments...)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
