package timeline

import (
	"time"

	"github.com/vanderheijden86/gantry/pkg/debug"
	"github.com/vanderheijden86/gantry/pkg/metrics"
	"github.com/vanderheijden86/gantry/pkg/model"
)

// Options controls grouping.
type Options struct {
	Phases []model.Phase // known phase keys in display order
	Mode   GroupMode
}

// DefaultOptions groups by the default product lifecycle phases.
func DefaultOptions() Options {
	return Options{Phases: model.DefaultPhases(), Mode: GroupByPhase}
}

// Layout is everything a surface needs to draw one frame.
type Layout struct {
	Rows         []Row
	Groups       []Group
	Span         Span
	Months       []MonthSegment
	Days         []DayCell
	Bars         map[int]Bar // row index -> bar; absent for headers and undated tasks
	Today        time.Time
	TodayOffset  int
	TodayVisible bool
	Mode         GroupMode
}

// Compute derives the full layout from a task snapshot. It never fails:
// malformed data degrades to roots, rows without bars, or the seeded span.
func Compute(tasks []model.Task, opts Options, collapsed *CollapseState, today time.Time) Layout {
	defer metrics.Timer(metrics.LayoutCompute)()

	mode := opts.Mode
	if mode == "" {
		mode = GroupByPhase
	}
	phases := opts.Phases
	if phases == nil {
		phases = model.DefaultPhases()
	}

	groups := GroupTasks(tasks, phases, mode, collapsed)
	rows := Rows(groups, mode, collapsed)
	span := ResolveSpan(tasks, today)

	bars := make(map[int]Bar, len(rows))
	for i, r := range rows {
		if r.Kind != RowTask {
			continue
		}
		if b, ok := BarFor(span, &r.Task.Node.Task); ok {
			bars[i] = b
		}
	}

	todayOff, todayOK := TodayMarker(span, today)
	l := Layout{
		Rows:         rows,
		Groups:       groups,
		Span:         span,
		Months:       Months(span),
		Days:         Days(span, today),
		Bars:         bars,
		Today:        Civil(today),
		TodayOffset:  todayOff,
		TodayVisible: todayOK,
		Mode:         mode,
	}
	debug.Log("layout: %d tasks -> %d rows, %d bars, span %s..%s (%d days)",
		len(tasks), len(rows), len(bars),
		span.Start.Format("2006-01-02"), span.End.Format("2006-01-02"), span.TotalDays)
	return l
}

// BarAt returns the bar of row i.
func (l Layout) BarAt(i int) (Bar, bool) {
	b, ok := l.Bars[i]
	return b, ok
}

// RowIndex returns the row index of a task id, or -1 when the task is not
// visible.
func (l Layout) RowIndex(taskID string) int {
	for i, r := range l.Rows {
		if r.Kind == RowTask && r.TaskID() == taskID {
			return i
		}
	}
	return -1
}

// HeaderIndex returns the row index of a phase header, or -1.
func (l Layout) HeaderIndex(phaseKey string) int {
	key := model.NormalizePhase(phaseKey)
	for i, r := range l.Rows {
		if r.Kind == RowGroupHeader && r.Header.PhaseKey == key {
			return i
		}
	}
	return -1
}

// TaskCount returns the number of task rows.
func (l Layout) TaskCount() int {
	n := 0
	for _, r := range l.Rows {
		if r.Kind == RowTask {
			n++
		}
	}
	return n
}

// Height returns the total height of the row area.
func (l Layout) Height(rowHeight int) int {
	return len(l.Rows) * rowHeight
}
