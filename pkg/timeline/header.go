package timeline

import (
	"strconv"
	"time"
)

// MonthLabelLayout formats month segment labels.
const MonthLabelLayout = "Jan 2006"

// MonthSegment is one month's slice of the span.
type MonthSegment struct {
	Label    string
	DayCount int
	Offset   int // days from span start
	Month    time.Time
}

// DayCell is a single day column of the header.
type DayCell struct {
	Label     string // day of month
	Date      time.Time
	IsWeekend bool
	IsToday   bool
}

// Months splits the span into month segments. The first and last segments
// may be partial months; DayCount values sum to TotalDays.
func Months(span Span) []MonthSegment {
	if span.IsZero() {
		return nil
	}
	var out []MonthSegment
	cursor := span.Start
	for !cursor.After(span.End) {
		monthEnd := EndOfMonth(cursor)
		end := monthEnd
		if end.After(span.End) {
			end = span.End
		}
		out = append(out, MonthSegment{
			Label:    cursor.Format(MonthLabelLayout),
			DayCount: DaysBetween(cursor, end) + 1,
			Offset:   DaysBetween(span.Start, cursor),
			Month:    time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, time.UTC),
		})
		cursor = monthEnd.AddDate(0, 0, 1)
	}
	return out
}

// Days returns one cell per day of the span.
func Days(span Span, today time.Time) []DayCell {
	if span.IsZero() {
		return nil
	}
	out := make([]DayCell, span.TotalDays)
	for i := range out {
		d := span.DateAt(i)
		out[i] = DayCell{
			Label:     strconv.Itoa(d.Day()),
			Date:      d,
			IsWeekend: IsWeekend(d),
			IsToday:   SameDay(d, today),
		}
	}
	return out
}
