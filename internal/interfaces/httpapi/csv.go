package httpapi

import (
	"encoding/csv"
	"time"

	"github.com/rdelcourt/guardpost/internal/domain/schedule"
	"github.com/valyala/bytebufferpool"
)

var csvHeader = []string{"week", "date", "titular", "substitute", "draw_id"}

// historyToCSV renders the full schedule as CSV into a pooled buffer. The
// caller must release the buffer after writing it out.
func historyToCSV(history []schedule.WeekAssignments) (*bytebufferpool.ByteBuffer, error) {
	buf := bytebufferpool.Get()

	writer := csv.NewWriter(buf)
	if err := writer.Write(csvHeader); err != nil {
		bytebufferpool.Put(buf)
		return nil, err
	}
	for _, group := range history {
		for _, assignment := range group.Assignments {
			record := []string{
				group.Week.String(),
				assignment.Date.Format(time.DateOnly),
				assignment.Titular,
				assignment.Substitute,
				assignment.DrawID,
			}
			if err := writer.Write(record); err != nil {
				bytebufferpool.Put(buf)
				return nil, err
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		bytebufferpool.Put(buf)
		return nil, err
	}

	return buf, nil
}

func releaseCSVBuffer(buf *bytebufferpool.ByteBuffer) {
	if buf != nil {
		bytebufferpool.Put(buf)
	}
}
