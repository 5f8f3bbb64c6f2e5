// Package draw holds the pure pairing rules for a weekly guard draw.
package draw

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"
)

var (
	// ErrInsufficientPool means the eligible pool cannot cover the batch:
	// every date consumes two entries from the shuffled sequence, so a
	// 7-date week needs at least 14 members. Checked before any drawing.
	ErrInsufficientPool = errors.New("insufficient eligible members for draw")
	// ErrPoolExhausted means the shuffled sequence ran out mid-batch even
	// though the size precondition held. That is a contract violation,
	// typically an eligibility race between check and draw; the whole
	// batch is aborted.
	ErrPoolExhausted = errors.New("draw pool exhausted before batch completion")
)

// Selection is one date's drawn pair.
type Selection struct {
	Date       time.Time
	Titular    string
	Substitute string
}

// Draw assigns a titular and a substitute to every date.
//
// The pool is shuffled once with non-reproducible randomness, then a single
// cursor walks the shuffled sequence while dates are visited in
// chronological order. Handles consumed by the cursor are not revisited, so
// no handle is titular twice in the batch and titular and substitute on the
// same date are always distinct. Re-running the draw before persisting
// yields a different outcome on purpose; only the stored result counts.
func Draw(pool []string, dates []time.Time) ([]Selection, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("at least one date is required")
	}
	if len(pool) < 2*len(dates) {
		return nil, fmt.Errorf("%w: have %d, need %d for %d dates", ErrInsufficientPool, len(pool), 2*len(dates), len(dates))
	}

	shuffled := append([]string(nil), pool...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	ordered := append([]time.Time(nil), dates...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	cursor := 0
	next := func(skip func(string) bool) (string, bool) {
		for cursor < len(shuffled) {
			candidate := shuffled[cursor]
			cursor++
			if skip(candidate) {
				continue
			}
			return candidate, true
		}
		return "", false
	}

	usedTitular := make(map[string]struct{}, len(ordered))
	out := make([]Selection, 0, len(ordered))
	for _, date := range ordered {
		titular, ok := next(func(handle string) bool {
			_, used := usedTitular[handle]
			return used
		})
		if !ok {
			return nil, fmt.Errorf("%w: no titular left for %s", ErrPoolExhausted, date.Format(time.DateOnly))
		}
		usedTitular[titular] = struct{}{}

		substitute, ok := next(func(handle string) bool { return handle == titular })
		if !ok {
			return nil, fmt.Errorf("%w: no substitute left for %s", ErrPoolExhausted, date.Format(time.DateOnly))
		}

		out = append(out, Selection{Date: date, Titular: titular, Substitute: substitute})
	}

	return out, nil
}
