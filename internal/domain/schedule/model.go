package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rdelcourt/guardpost/internal/platform/weekcal"
)

// ErrWeekExists is returned by AppendWeek when the week was already drawn.
// The check is repeated at the write boundary so a race between listing and
// committing surfaces here instead of producing a duplicate week.
var ErrWeekExists = errors.New("week already has assignments")

// Assignment is one calendar day's outcome: who stands guard and who backs
// them up. Week is derivable from Date and kept for grouping queries.
type Assignment struct {
	Date       time.Time
	Week       weekcal.Week
	DrawID     string
	Titular    string
	Substitute string
}

func (a Assignment) Validate() error {
	if a.Date.IsZero() {
		return fmt.Errorf("assignment date is required")
	}
	if strings.TrimSpace(a.Titular) == "" {
		return fmt.Errorf("assignment titular is required")
	}
	if strings.TrimSpace(a.Substitute) == "" {
		return fmt.Errorf("assignment substitute is required")
	}
	if a.Titular == a.Substitute {
		return fmt.Errorf("titular and substitute must be different on %s", a.Date.Format(time.DateOnly))
	}
	if got := weekcal.WeekOf(a.Date); got != a.Week {
		return fmt.Errorf("assignment week %s does not match date %s (week %s)", a.Week, a.Date.Format(time.DateOnly), got)
	}

	return nil
}

// WeekAssignments groups one drawn week's assignments, dates ascending.
type WeekAssignments struct {
	Week        weekcal.Week
	Assignments []Assignment
}
