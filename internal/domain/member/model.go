package member

import (
	"fmt"
	"strings"
	"time"
)

// Member is a guild member that can be drawn for guard duty.
type Member struct {
	Handle     string
	Rank       string
	ExitReason string
	// ServedDates lists the days the member stood guard as titular,
	// ascending and deduplicated. Substitute duty is never recorded here.
	ServedDates []time.Time
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Handle) == "" {
		return fmt.Errorf("member handle is required")
	}
	if strings.TrimSpace(m.Rank) == "" {
		return fmt.Errorf("member rank is required")
	}

	return nil
}

// Active reports whether the member is still part of the drawable roster.
// A non-empty exit reason means the member left or was benched.
func (m Member) Active() bool {
	return strings.TrimSpace(m.ExitReason) == ""
}
