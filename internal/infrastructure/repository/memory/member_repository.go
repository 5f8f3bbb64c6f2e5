package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rdelcourt/guardpost/internal/domain/member"
	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
)

type MemberRepository struct {
	mu    sync.RWMutex
	items map[string]member.Member
}

func NewMemberRepository(members []member.Member) *MemberRepository {
	items := make(map[string]member.Member, len(members))
	for _, item := range members {
		items[item.Handle] = cloneMember(item)
	}

	return &MemberRepository{items: items}
}

func (r *MemberRepository) List(_ context.Context) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]member.Member, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, cloneMember(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out, nil
}

func (r *MemberRepository) GetByHandle(_ context.Context, handle string) (member.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[handle]
	if !ok {
		return member.Member{}, false, nil
	}
	return cloneMember(item), true, nil
}

func (r *MemberRepository) UpsertAll(_ context.Context, members []member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range members {
		incoming := cloneMember(item)
		if existing, ok := r.items[item.Handle]; ok {
			// Served dates are owned by the draw core, not the roster
			// import.
			incoming.ServedDates = append([]time.Time(nil), existing.ServedDates...)
		}
		r.items[item.Handle] = incoming
	}
	return nil
}

func (r *MemberRepository) RecordService(_ context.Context, handle string, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[handle]
	if !ok {
		return fmt.Errorf("unknown member handle %q", handle)
	}

	day := weekcal.Normalize(date)
	for _, existing := range item.ServedDates {
		if existing.Equal(day) {
			return nil
		}
	}

	item.ServedDates = append(item.ServedDates, day)
	sort.Slice(item.ServedDates, func(i, j int) bool { return item.ServedDates[i].Before(item.ServedDates[j]) })
	r.items[handle] = item
	return nil
}

func (r *MemberRepository) ClearServiceInWeek(_ context.Context, week weekcal.Week) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for handle, item := range r.items {
		kept := item.ServedDates[:0:0]
		for _, day := range item.ServedDates {
			if weekcal.WeekOf(day) == week {
				continue
			}
			kept = append(kept, day)
		}
		item.ServedDates = kept
		r.items[handle] = item
	}
	return nil
}

func (r *MemberRepository) ClearAllService(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for handle, item := range r.items {
		item.ServedDates = nil
		r.items[handle] = item
	}
	return nil
}

func (r *MemberRepository) ReplaceServedDates(_ context.Context, handle string, dates []time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[handle]
	if !ok {
		return fmt.Errorf("unknown member handle %q", handle)
	}

	seen := make(map[time.Time]struct{}, len(dates))
	replaced := make([]time.Time, 0, len(dates))
	for _, date := range dates {
		day := weekcal.Normalize(date)
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		replaced = append(replaced, day)
	}
	sort.Slice(replaced, func(i, j int) bool { return replaced[i].Before(replaced[j]) })

	item.ServedDates = replaced
	r.items[handle] = item
	return nil
}

func cloneMember(m member.Member) member.Member {
	copied := m
	copied.ServedDates = append([]time.Time(nil), m.ServedDates...)
	return copied
}
