package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/gantry/pkg/config"
	"github.com/vanderheijden86/gantry/pkg/metrics"
	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/timeline"
)

// SnapshotOptions controls static chart export.
type SnapshotOptions struct {
	Path         string // Output path; format inferred from extension when Format empty
	Format       string // "svg" or "png" (case-insensitive)
	Title        string // Optional title band above the chart
	Layout       timeline.Layout
	Geometry     config.TimelineConfig // zero value selects the defaults
	ShowWeekends bool
}

// SaveSnapshot renders the layout as a two-pane Gantt chart (SVG or PNG).
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.ExportRender)()

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	sc := buildScene(opts)
	switch format {
	case "svg":
		f, err := os.Create(opts.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		return renderSVG(f, sc)
	default:
		return renderPNG(opts.Path, sc)
	}
}

// --- scene -----------------------------------------------------------------

type elementKind int

const (
	elemRect elementKind = iota
	elemLine
	elemText
	elemDiamond
)

type anchor int

const (
	anchorStart anchor = iota
	anchorMiddle
	anchorEnd
)

// element is one drawing primitive in pixel coordinates. Text is drawn with
// its baseline centered on Y.
type element struct {
	Kind   elementKind
	Role   string
	X, Y   float64
	W, H   float64 // rect size; diamond uses W as its diagonal
	X2, Y2 float64 // line end
	Fill   color.RGBA
	Stroke color.RGBA
	Width  float64 // stroke width; 0 means no stroke
	Text   string
	Size   float64
	Bold   bool
	Anchor anchor
}

type scene struct {
	Width    int
	Height   int
	Elements []element
}

func (s *scene) add(e element) {
	s.Elements = append(s.Elements, e)
}

func (s *scene) count(role string) int {
	n := 0
	for _, e := range s.Elements {
		if e.Role == role {
			n++
		}
	}
	return n
}

var (
	colorBackdrop  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorPanel     = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG  = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorGroupBG   = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorWeekend   = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorGrid      = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorToday     = color.RGBA{0xef, 0x44, 0x44, 0xff}
	colorText      = color.RGBA{0x11, 0x18, 0x27, 0xff}
	colorSubtle    = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	colorCritical  = color.RGBA{0xb9, 0x1c, 0x1c, 0xff}
	colorMilestone = color.RGBA{0x7c, 0x3a, 0xed, 0xff}
)

var statusColors = map[string]color.RGBA{
	model.StatusPending:     {0x9c, 0xa3, 0xaf, 0xff},
	model.StatusReady:       {0x60, 0xa5, 0xfa, 0xff},
	model.StatusInProgress:  {0xf5, 0x9e, 0x0b, 0xff},
	model.StatusCompleted:   {0x22, 0xc5, 0x5e, 0xff},
	model.StatusBlocked:     {0xef, 0x44, 0x44, 0xff},
	model.StatusNeedsReview: {0xa7, 0x8b, 0xfa, 0xff},
}

// StatusColor returns the bar color for a task status.
func StatusColor(status string) color.RGBA {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return statusColors[model.StatusPending]
}

func darken(c color.RGBA) color.RGBA {
	return color.RGBA{c.R * 3 / 4, c.G * 3 / 4, c.B * 3 / 4, c.A}
}

func geometryOrDefault(g config.TimelineConfig) config.TimelineConfig {
	def := config.DefaultConfig().Timeline
	if g.DayWidth <= 0 {
		g.DayWidth = def.DayWidth
	}
	if g.RowHeight <= 0 {
		g.RowHeight = def.RowHeight
	}
	if g.HeaderHeight <= 0 {
		g.HeaderHeight = def.HeaderHeight
	}
	if g.LeftPanelWidth <= 0 {
		g.LeftPanelWidth = def.LeftPanelWidth
	}
	return g
}

const titleBand = 36.0

func buildScene(opts SnapshotOptions) scene {
	g := geometryOrDefault(opts.Geometry)
	l := opts.Layout
	dw := float64(g.DayWidth)
	rh := float64(g.RowHeight)
	hh := float64(g.HeaderHeight)
	lp := float64(g.LeftPanelWidth)

	top := 0.0
	if strings.TrimSpace(opts.Title) != "" {
		top = titleBand
	}
	gridTop := top + hh
	gridW := float64(l.Span.TotalDays) * dw
	bodyH := float64(len(l.Rows)) * rh

	sc := scene{
		Width:  int(lp + gridW),
		Height: int(gridTop + bodyH),
	}
	sc.add(element{Kind: elemRect, Role: "backdrop", W: float64(sc.Width), H: float64(sc.Height), Fill: colorBackdrop})
	if top > 0 {
		sc.add(element{Kind: elemText, Role: "title", X: 12, Y: top / 2, Text: opts.Title, Size: 16, Bold: true, Fill: colorText})
	}

	// left pane header and body
	sc.add(element{Kind: elemRect, Role: "panel", Y: top, W: lp, H: hh + bodyH, Fill: colorPanel})
	sc.add(element{Kind: elemText, Role: "panel-title", X: 12, Y: top + hh/2, Text: "Task", Size: 13, Bold: true, Fill: colorText})

	// calendar header: months on the upper half, days below
	half := hh / 2
	for _, m := range l.Months {
		x := lp + float64(m.Offset)*dw
		w := float64(m.DayCount) * dw
		sc.add(element{Kind: elemRect, Role: "month", X: x, Y: top, W: w, H: half, Fill: colorHeaderBG, Stroke: colorGrid, Width: 1})
		sc.add(element{Kind: elemText, Role: "month-label", X: x + 6, Y: top + half/2, Text: m.Label, Size: 12, Bold: true, Fill: colorText})
	}
	for i, d := range l.Days {
		x := lp + float64(i)*dw
		if d.IsWeekend && opts.ShowWeekends {
			sc.add(element{Kind: elemRect, Role: "weekend", X: x, Y: top + half, W: dw, H: half + bodyH, Fill: colorWeekend})
		}
		sc.add(element{Kind: elemLine, Role: "grid", X: x, Y: top + half, X2: x, Y2: gridTop + bodyH, Stroke: colorGrid, Width: 1})
		fill := colorSubtle
		if d.IsToday {
			fill = colorToday
		}
		sc.add(element{Kind: elemText, Role: "day-label", X: x + dw/2, Y: top + half + half/2, Text: d.Label, Size: 10, Fill: fill, Anchor: anchorMiddle})
	}

	for i, r := range l.Rows {
		y := gridTop + float64(i)*rh
		if r.IsHeader() {
			h := r.Header
			mark := "[-]"
			if h.Collapsed {
				mark = "[+]"
			}
			sc.add(element{Kind: elemRect, Role: "group", Y: y, W: float64(sc.Width), H: rh, Fill: colorGroupBG})
			sc.add(element{Kind: elemText, Role: "group-label", X: 12, Y: y + rh/2,
				Text: fmt.Sprintf("%s %s (%d)", mark, h.Label, h.Count), Size: 13, Bold: true, Fill: colorText})
			continue
		}

		task := &r.Task.Node.Task
		indent := 12 + float64(r.Task.Depth)*16
		sc.add(element{Kind: elemText, Role: "task-label", X: indent, Y: y + rh/2,
			Text: truncate(taskLabel(task), labelBudget(lp-indent-140)), Size: 12, Fill: colorText})
		if meta := taskMeta(task); meta != "" {
			sc.add(element{Kind: elemText, Role: "task-meta", X: lp - 10, Y: y + rh/2, Text: truncate(meta, 18), Size: 11, Fill: colorSubtle, Anchor: anchorEnd})
		}
		sc.add(element{Kind: elemLine, Role: "row-rule", X: 0, Y: y + rh, X2: float64(sc.Width), Y2: y + rh, Stroke: colorGrid, Width: 0.5})

		b, ok := l.BarAt(i)
		if !ok {
			continue
		}
		px := b.Scale(dw)
		if b.Shape == timeline.ShapePoint {
			if px.Point >= 0 && px.Point <= gridW {
				sc.add(element{Kind: elemDiamond, Role: "milestone", X: lp + px.Point, Y: y + rh/2, W: rh * 0.5, Fill: colorMilestone})
			}
			continue
		}
		// Bars may start before or end after the window; clip them to the grid.
		x0, x1, visible := clipRange(px.X+1, px.X+px.W-1, 0, gridW)
		if !visible {
			continue
		}
		fill := StatusColor(task.Status)
		bar := element{Kind: elemRect, Role: "bar", X: lp + x0, Y: y + rh*0.25, W: x1 - x0, H: rh * 0.5, Fill: fill}
		if task.IsCritical {
			bar.Stroke, bar.Width = colorCritical, 2
		}
		sc.add(bar)
		if pw := timeline.ProgressWidth(b, task.Progress); pw > 0 {
			if p0, p1, ok := clipRange(px.X+1, px.X+pw*dw-1, 0, gridW); ok {
				sc.add(element{Kind: elemRect, Role: "progress", X: lp + p0, Y: bar.Y, W: p1 - p0, H: bar.H, Fill: darken(fill)})
			}
		}
	}

	if l.TodayVisible {
		x := lp + (float64(l.TodayOffset)+0.5)*dw
		sc.add(element{Kind: elemLine, Role: "today", X: x, Y: top + half, X2: x, Y2: gridTop + bodyH, Stroke: colorToday, Width: 2})
	}
	sc.add(element{Kind: elemLine, Role: "divider", X: lp, Y: top, X2: lp, Y2: gridTop + bodyH, Stroke: colorSubtle, Width: 1})
	return sc
}

// clipRange intersects [x0, x1] with [lo, hi]. It reports false when
// nothing is left.
func clipRange(x0, x1, lo, hi float64) (float64, float64, bool) {
	x0, x1 = max(x0, lo), min(x1, hi)
	return x0, x1, x1 > x0
}

func taskLabel(t *model.Task) string {
	if t.Title == "" {
		return t.ID
	}
	return t.Title
}

func taskMeta(t *model.Task) string {
	var parts []string
	if t.Code != "" {
		parts = append(parts, t.Code)
	}
	if t.AssigneeName != "" {
		parts = append(parts, t.AssigneeName)
	}
	return strings.Join(parts, " · ")
}

// labelBudget converts a pixel width to a character budget for 7px glyphs.
func labelBudget(px float64) int {
	return max(int(px/7), 4)
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
