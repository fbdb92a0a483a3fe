package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/gantry/pkg/metrics"
	"github.com/vanderheijden86/gantry/pkg/timeline"
)

// TextOptions controls RenderText.
type TextOptions struct {
	Width        int // total columns; 0 renders every day of the span
	LabelWidth   int // left column width; defaults to 32
	ShowWeekends bool
}

// Glyphs shared by the text renderer and the terminal UI.
const (
	GlyphBar       = '█'
	GlyphRemaining = '▒'
	GlyphMilestone = '◆'
	GlyphToday     = '│'
	GlyphWeekend   = '·'
)

// RenderText draws an ASCII Gantt chart, one column per day. Partially
// complete bars show the finished share as █ and the rest as ▒.
//
// When the span is wider than the available columns, the window opens a
// quarter of its width before today.
func RenderText(w io.Writer, l timeline.Layout, opts TextOptions) error {
	defer metrics.Timer(metrics.ExportRender)()

	labelW := opts.LabelWidth
	if labelW <= 0 {
		labelW = 32
	}
	from, to := textWindow(l, opts.Width, labelW)

	bw := bufio.NewWriter(w)
	blank := strings.Repeat(" ", labelW)

	// month row
	var months strings.Builder
	for _, m := range l.Months {
		lo := max(m.Offset, from)
		hi := min(m.Offset+m.DayCount, to)
		if lo >= hi {
			continue
		}
		months.WriteString(runewidth.FillRight(runewidth.Truncate(m.Label, hi-lo, ""), hi-lo))
	}
	writeLine(bw, blank+" "+months.String())

	// day row: last digit of the day of month
	var days strings.Builder
	for i := from; i < to; i++ {
		label := l.Days[i].Label
		days.WriteByte(label[len(label)-1])
	}
	writeLine(bw, runewidth.FillRight("Task", labelW)+" "+days.String())

	for i, r := range l.Rows {
		var label string
		if r.IsHeader() {
			mark := "▾"
			if r.Header.Collapsed {
				mark = "▸"
			}
			label = fmt.Sprintf("%s %s (%d)", mark, r.Header.Label, r.Header.Count)
		} else {
			label = strings.Repeat("  ", r.Task.Depth) + taskLabel(&r.Task.Node.Task)
		}
		label = runewidth.FillRight(runewidth.Truncate(label, labelW, "…"), labelW)

		var cells strings.Builder
		for d := from; d < to; d++ {
			cells.WriteRune(CellAt(l, i, d, opts.ShowWeekends))
		}
		writeLine(bw, label+" "+cells.String())
	}
	return bw.Flush()
}

// CellAt returns the glyph drawn for day d of row i. Bars win over the
// today guide, which wins over weekend shading.
func CellAt(l timeline.Layout, i, d int, showWeekends bool) rune {
	if b, ok := l.BarAt(i); ok {
		if b.Shape == timeline.ShapePoint {
			if int(math.Floor(b.Point)) == d {
				return GlyphMilestone
			}
		} else if d >= b.Left && d < b.End() {
			progress := timeline.ProgressWidth(b, l.Rows[i].Task.Node.Task.Progress)
			if progress > 0 && float64(d-b.Left) >= progress {
				return GlyphRemaining
			}
			return GlyphBar
		}
	}
	if l.TodayVisible && d == l.TodayOffset {
		return GlyphToday
	}
	if showWeekends && d >= 0 && d < len(l.Days) && l.Days[d].IsWeekend {
		return GlyphWeekend
	}
	return ' '
}

// textWindow returns the half-open day range to draw.
func textWindow(l timeline.Layout, width, labelW int) (int, int) {
	total := len(l.Days)
	avail := width - labelW - 1
	if width <= 0 || avail >= total {
		return 0, total
	}
	if avail <= 0 {
		return 0, 0
	}
	start := 0
	if l.TodayVisible {
		start = l.TodayOffset - avail/4
	}
	start = max(0, min(start, total-avail))
	return start, start + avail
}

func writeLine(w *bufio.Writer, s string) {
	w.WriteString(strings.TrimRight(s, " "))
	w.WriteByte('\n')
}
