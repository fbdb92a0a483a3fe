package timeline

import (
	"time"

	"github.com/vanderheijden86/gantry/pkg/model"
)

// BarShape distinguishes spans from point markers.
type BarShape int

const (
	ShapeRect  BarShape = iota // task or subtask spanning its dates
	ShapePoint                 // milestone drawn at a single position
)

// Bar is a task's horizontal geometry in day units relative to the span
// start. For ShapePoint bars only Point is meaningful to renderers.
type Bar struct {
	Left  int
	Width int
	Shape BarShape
	Point float64 // horizontal midpoint of the bar, in days
}

// End returns the exclusive day offset where the bar stops.
func (b Bar) End() int {
	return b.Left + b.Width
}

// PixelBar is a Bar scaled to a rendering surface.
type PixelBar struct {
	X     float64
	W     float64
	Point float64
}

// Scale converts day units to pixels (or cells) at pxPerDay.
func (b Bar) Scale(pxPerDay float64) PixelBar {
	return PixelBar{
		X:     float64(b.Left) * pxPerDay,
		W:     float64(b.Width) * pxPerDay,
		Point: b.Point * pxPerDay,
	}
}

// BarFor computes the geometry of task within span. It returns false when
// the task has neither a start nor a due date. A missing end falls back to
// the other date, and every bar is at least one day wide.
func BarFor(span Span, task *model.Task) (Bar, bool) {
	if task == nil || !task.HasDates() {
		return Bar{}, false
	}
	start, end := task.StartDate, task.DueDate
	if start == nil {
		start = end
	}
	if end == nil {
		end = start
	}

	width := DaysBetween(*start, *end) + 1
	if width < 1 {
		width = 1
	}
	b := Bar{
		Left:  DaysBetween(span.Start, *start),
		Width: width,
		Shape: ShapeRect,
	}
	b.Point = float64(b.Left) + float64(b.Width)/2
	if task.IsMilestone() {
		b.Shape = ShapePoint
	}
	return b, true
}

// ProgressWidth returns the filled portion of a bar in days. Fill is only
// drawn for partially complete tasks; 0 and 100 percent yield no fill.
func ProgressWidth(b Bar, progress int) float64 {
	if b.Shape == ShapePoint || progress <= 0 || progress >= 100 {
		return 0
	}
	return float64(b.Width) * float64(progress) / 100
}

// TodayMarker returns the day offset of the today guide and whether it is
// inside the span.
func TodayMarker(span Span, today time.Time) (int, bool) {
	if span.IsZero() {
		return 0, false
	}
	off := span.Offset(today)
	if off < 0 || off >= span.TotalDays {
		return 0, false
	}
	return off, true
}

// InitialScrollX returns the horizontal scroll position a timeline pane
// opens at: today's column, lead pixels from the left edge, never negative.
func InitialScrollX(span Span, today time.Time, pxPerDay, lead float64) float64 {
	x := float64(span.Offset(today))*pxPerDay - lead
	if x < 0 {
		return 0
	}
	return x
}
