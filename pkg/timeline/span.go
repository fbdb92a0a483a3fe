package timeline

import (
	"time"

	"github.com/vanderheijden86/gantry/pkg/metrics"
	"github.com/vanderheijden86/gantry/pkg/model"
)

// Window seeding and padding, in days. The trailing pad is wider than the
// leading one so newly planned milestones have room on the right.
const (
	SeedLeadDays  = 7
	SeedTrailDays = 30
	PadLeadDays   = 7
	PadTrailDays  = 14
)

// Span is the calendar window the timeline renders. Start is a Sunday, End
// a Saturday, both civil dates; TotalDays counts both ends.
type Span struct {
	Start     time.Time
	End       time.Time
	TotalDays int
}

// ResolveSpan derives the calendar window from task dates.
//
// The window is seeded with [today-7d, today+30d] so an empty board still
// shows the near term. Start dates can only pull the window earlier and due
// dates can only push it later, so a bar whose other end lies outside the
// window is clipped by the renderer. The result is padded by a week before
// and two weeks after and aligned to whole weeks.
func ResolveSpan(tasks []model.Task, today time.Time) Span {
	defer metrics.Timer(metrics.SpanResolve)()

	lo := AddDays(today, -SeedLeadDays)
	hi := AddDays(today, SeedTrailDays)
	for i := range tasks {
		if d := tasks[i].StartDate; d != nil && Civil(*d).Before(lo) {
			lo = Civil(*d)
		}
		if d := tasks[i].DueDate; d != nil && Civil(*d).After(hi) {
			hi = Civil(*d)
		}
	}

	start := StartOfWeek(AddDays(lo, -PadLeadDays))
	end := EndOfWeek(AddDays(hi, PadTrailDays))
	return Span{
		Start:     start,
		End:       end,
		TotalDays: DaysBetween(start, end) + 1,
	}
}

// Offset returns the day offset of d from the span start.
func (s Span) Offset(d time.Time) int {
	return DaysBetween(s.Start, d)
}

// Contains reports whether d falls inside [Start, End].
func (s Span) Contains(d time.Time) bool {
	c := Civil(d)
	return !c.Before(s.Start) && !c.After(s.End)
}

// DateAt returns the civil date at day offset i.
func (s Span) DateAt(i int) time.Time {
	return s.Start.AddDate(0, 0, i)
}

// IsZero reports whether the span was never resolved.
func (s Span) IsZero() bool {
	return s.TotalDays == 0
}
