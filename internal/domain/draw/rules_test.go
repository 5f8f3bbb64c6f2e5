package draw

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func weekDates() []time.Time {
	monday := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, monday.AddDate(0, 0, i))
	}
	return out
}

func handles(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("P%d", i))
	}
	return out
}

func TestDraw_NoRepeatTitularAndDistinctPairs(t *testing.T) {
	dates := weekDates()

	// The shuffle is random, so exercise the invariants across many runs.
	for run := 0; run < 200; run++ {
		selections, err := Draw(handles(14), dates)
		if err != nil {
			t.Fatalf("run %d: draw failed: %v", run, err)
		}
		if len(selections) != len(dates) {
			t.Fatalf("run %d: expected %d selections, got %d", run, len(dates), len(selections))
		}

		seenTitular := make(map[string]struct{})
		for i, sel := range selections {
			if !sel.Date.Equal(dates[i]) {
				t.Fatalf("run %d: selections out of chronological order at %d", run, i)
			}
			if sel.Titular == sel.Substitute {
				t.Fatalf("run %d: titular equals substitute on %v", run, sel.Date)
			}
			if _, dup := seenTitular[sel.Titular]; dup {
				t.Fatalf("run %d: %s is titular twice", run, sel.Titular)
			}
			seenTitular[sel.Titular] = struct{}{}
		}
	}
}

func TestDraw_LargePoolLeavesSpareMembers(t *testing.T) {
	selections, err := Draw(handles(30), weekDates())
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}

	used := make(map[string]struct{})
	for _, sel := range selections {
		used[sel.Titular] = struct{}{}
		used[sel.Substitute] = struct{}{}
	}
	if len(used) > 14 {
		t.Fatalf("a 7-date batch consumed %d distinct members, expected at most 14", len(used))
	}
}

func TestDraw_InsufficientPoolFailsFast(t *testing.T) {
	for n := 0; n < 14; n++ {
		_, err := Draw(handles(n), weekDates())
		if !errors.Is(err, ErrInsufficientPool) {
			t.Fatalf("pool of %d: expected ErrInsufficientPool, got %v", n, err)
		}
	}
}

func TestDraw_NoDates(t *testing.T) {
	if _, err := Draw(handles(14), nil); err == nil {
		t.Fatal("expected error for empty date set")
	}
}

func TestDraw_UnorderedDatesAreSorted(t *testing.T) {
	dates := weekDates()
	reversed := make([]time.Time, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		reversed = append(reversed, dates[i])
	}

	selections, err := Draw(handles(14), reversed)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	for i, sel := range selections {
		if !sel.Date.Equal(dates[i]) {
			t.Fatalf("selection %d not in chronological order: %v", i, sel.Date)
		}
	}
}
