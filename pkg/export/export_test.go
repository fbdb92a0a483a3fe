package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/gantry/pkg/analysis"
	"github.com/vanderheijden86/gantry/pkg/config"
	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/timeline"
)

var today = time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "1", Title: "Board bring-up", Phase: "evt", Code: "EVT-1", AssigneeName: "Ana",
			StartDate: model.MustDate("2024-01-10"), DueDate: model.MustDate("2024-01-15"),
			Progress: 50, Status: model.StatusInProgress, IsCritical: true},
		{ID: "2", Title: "Power rails", Phase: "evt", ParentID: "1",
			StartDate: model.MustDate("2024-01-11"), DueDate: model.MustDate("2024-01-12")},
		{ID: "m", Title: "EVT exit", Phase: "evt", Kind: model.KindMilestone, DueDate: model.MustDate("2024-01-20")},
		{ID: "u", Title: "Someday"},
	}
}

func sampleLayout() timeline.Layout {
	return timeline.Compute(sampleTasks(), timeline.DefaultOptions(), nil, today)
}

func TestBuildScene(t *testing.T) {
	l := sampleLayout()
	if len(l.Rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(l.Rows))
	}
	sc := buildScene(SnapshotOptions{Layout: l, ShowWeekends: true})

	if want := 480 + l.Span.TotalDays*28; sc.Width != want {
		t.Errorf("expected width %d, got %d", want, sc.Width)
	}
	if want := 50 + 6*36; sc.Height != want {
		t.Errorf("expected height %d, got %d", want, sc.Height)
	}
	for role, want := range map[string]int{
		"bar":        2,
		"milestone":  1,
		"progress":   1,
		"group":      2,
		"task-label": 4,
		"today":      1,
		"title":      0,
		"day-label":  l.Span.TotalDays,
		"month":      len(l.Months),
	} {
		if got := sc.count(role); got != want {
			t.Errorf("expected %d %s elements, got %d", want, role, got)
		}
	}

	b, _ := l.BarAt(1)
	for _, e := range sc.Elements {
		if e.Role == "bar" && e.Stroke == colorCritical {
			if wantX := 480 + float64(b.Left)*28 + 1; e.X != wantX {
				t.Errorf("expected critical bar at x=%v, got %v", wantX, e.X)
			}
			if e.W != 6*28-2 {
				t.Errorf("expected bar width %d, got %v", 6*28-2, e.W)
			}
			return
		}
	}
	t.Error("expected a critical bar")
}

func TestBuildSceneWeekendsAndTitle(t *testing.T) {
	l := sampleLayout()
	off := buildScene(SnapshotOptions{Layout: l})
	if off.count("weekend") != 0 {
		t.Errorf("expected no weekend shading, got %d", off.count("weekend"))
	}
	on := buildScene(SnapshotOptions{Layout: l, ShowWeekends: true, Title: "Plan"})
	if want := l.Span.TotalDays * 2 / 7; on.count("weekend") != want {
		t.Errorf("expected %d weekend columns, got %d", want, on.count("weekend"))
	}
	if on.count("title") != 1 || on.Height != off.Height+int(titleBand) {
		t.Errorf("expected title band, got height %d vs %d", on.Height, off.Height)
	}
}

func TestBuildSceneCustomGeometry(t *testing.T) {
	l := sampleLayout()
	sc := buildScene(SnapshotOptions{Layout: l, Geometry: geometryOrDefault(config.TimelineConfig{DayWidth: 10})})
	if want := 480 + l.Span.TotalDays*10; sc.Width != want {
		t.Errorf("expected width %d, got %d", want, sc.Width)
	}
}

func TestSaveSnapshot_SVGAndPNG(t *testing.T) {
	tmp := t.TempDir()
	for _, name := range []string{"chart.svg", "chart.png"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(tmp, "nested", name)
			if err := SaveSnapshot(SnapshotOptions{Path: out, Layout: sampleLayout(), Title: "EVT"}); err != nil {
				t.Fatalf("SaveSnapshot error: %v", err)
			}
			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			if info.Size() == 0 {
				t.Fatal("output file is empty")
			}
		})
	}

	data, err := os.ReadFile(filepath.Join(tmp, "nested", "chart.svg"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<svg", "Jan 2024", "Board bring-up", "EVT-1 · Ana"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected SVG to contain %q", want)
		}
	}
}

func TestSaveSnapshot_Errors(t *testing.T) {
	if err := SaveSnapshot(SnapshotOptions{Path: "chart.txt", Format: "gif"}); err == nil {
		t.Error("expected unsupported format error")
	}
	if err := SaveSnapshot(SnapshotOptions{}); err == nil {
		t.Error("expected missing path error")
	}

	base := filepath.Join(t.TempDir(), "chart")
	if err := SaveSnapshot(SnapshotOptions{Path: base, Layout: sampleLayout()}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(base + ".svg"); err != nil {
		t.Errorf("expected .svg to be appended: %v", err)
	}
}

func TestRenderText(t *testing.T) {
	l := sampleLayout()
	var buf bytes.Buffer
	if err := RenderText(&buf, l, TextOptions{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2+len(l.Rows) {
		t.Fatalf("expected %d lines, got %d", 2+len(l.Rows), len(lines))
	}
	if !strings.Contains(lines[0], "Jan 2024") {
		t.Errorf("expected month row, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "▾ EVT Engineering Validation (3)") {
		t.Errorf("unexpected header row %q", lines[2])
	}

	parent := lines[3]
	if strings.Count(parent, "█") != 3 || strings.Count(parent, "▒") != 3 {
		t.Errorf("expected half-filled bar, got %q", parent)
	}
	if !strings.HasPrefix(lines[4], "  Power rails") {
		t.Errorf("expected indented child, got %q", lines[4])
	}
	if strings.Count(lines[4], "█") != 2 {
		t.Errorf("expected 2-day bar, got %q", lines[4])
	}
	if !strings.Contains(lines[5], "◆") {
		t.Errorf("expected milestone glyph, got %q", lines[5])
	}
	if !strings.Contains(lines[7], "│") {
		t.Errorf("expected today guide on undated row, got %q", lines[7])
	}
}

func TestRenderTextWindow(t *testing.T) {
	l := sampleLayout()
	var buf bytes.Buffer
	if err := RenderText(&buf, l, TextOptions{Width: 20 + 1 + 14, LabelWidth: 20}); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if n := len([]rune(line)); n > 35 {
			t.Errorf("line wider than 35 columns (%d): %q", n, line)
		}
	}
	from, to := textWindow(l, 35, 20)
	if to-from != 14 {
		t.Errorf("expected 14 visible days, got %d", to-from)
	}
	if l.TodayOffset < from || l.TodayOffset >= to {
		t.Errorf("expected today %d inside window [%d,%d)", l.TodayOffset, from, to)
	}
}

func TestRenderTextTruncatesLabels(t *testing.T) {
	tasks := []model.Task{{ID: "x", Title: strings.Repeat("long title ", 10), DueDate: model.MustDate("2024-01-12")}}
	l := timeline.Compute(tasks, timeline.Options{Mode: timeline.GroupNone}, nil, today)
	var buf bytes.Buffer
	if err := RenderText(&buf, l, TextOptions{LabelWidth: 12}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[2], "long title …") {
		t.Errorf("expected truncated label, got %q", lines[2])
	}
}

func TestRenderMarkdown(t *testing.T) {
	tasks := sampleTasks()
	var buf bytes.Buffer
	report := analysis.Diagnose(tasks)
	opts := MarkdownOptions{Title: "EVT plan", Today: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)}
	if err := RenderMarkdown(&buf, tasks, model.DefaultPhases(), report, opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"# EVT plan",
		"*4 tasks across 2 phases*",
		"| EVT Engineering Validation | 3 | 0 | 1 | 1 |",
		"| Unclassified | 1 |",
		"## Overdue",
		"`1` Board bring-up (due 2024-01-15, 50%)",
		"**info** undated",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "`m`") {
		t.Error("expected milestone due later not to be overdue")
	}
}

func TestRenderMarkdownClean(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, nil, nil, analysis.Report{}, MarkdownOptions{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "# Project Timeline") || !strings.Contains(out, "No tasks.") || !strings.Contains(out, "No problems found.") {
		t.Errorf("unexpected empty report:\n%s", out)
	}
	if strings.Contains(out, "Overdue") {
		t.Error("expected no overdue section without today")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "░░░░░░░░░░ 0%"},
		{50, "█████░░░░░ 50%"},
		{100, "██████████ 100%"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.pct); got != tt.want {
			t.Errorf("progressBar(%v): expected %q, got %q", tt.pct, tt.want, got)
		}
	}
}

func TestBuildSceneClipsBarsOutsideWindow(t *testing.T) {
	tasks := []model.Task{
		{ID: "old", Title: "Old deadline", DueDate: model.MustDate("2023-01-01")},
		{ID: "late", Title: "Late start", StartDate: model.MustDate("2025-06-01")},
		{ID: "gate", Title: "Old gate", Kind: model.KindMilestone, DueDate: model.MustDate("2023-02-01")},
		{ID: "now", Title: "Current", StartDate: model.MustDate("2024-01-10"), DueDate: model.MustDate("2024-01-15")},
	}
	l := timeline.Compute(tasks, timeline.Options{Mode: timeline.GroupNone}, nil, today)
	if b, _ := l.BarAt(0); b.Left >= 0 {
		t.Fatalf("expected bar before the window, got left %d", b.Left)
	}

	sc := buildScene(SnapshotOptions{Layout: l})
	if got := sc.count("bar"); got != 1 {
		t.Errorf("expected only the in-window bar drawn, got %d", got)
	}
	if got := sc.count("milestone"); got != 0 {
		t.Errorf("expected off-window milestone skipped, got %d", got)
	}
	for _, e := range sc.Elements {
		if e.Role == "bar" && (e.X < 480 || e.X+e.W > float64(sc.Width)) {
			t.Errorf("bar [%v,%v] leaks out of the grid", e.X, e.X+e.W)
		}
	}
}

func TestClipRange(t *testing.T) {
	tests := []struct {
		in0, in1   float64
		out0, out1 float64
		visible    bool
	}{
		{-50, 30, 0, 30, true},
		{10, 500, 10, 100, true},
		{20, 40, 20, 40, true},
		{-50, -10, 0, 0, false},
		{120, 150, 0, 0, false},
	}
	for _, tt := range tests {
		x0, x1, ok := clipRange(tt.in0, tt.in1, 0, 100)
		if ok != tt.visible {
			t.Errorf("clipRange(%v, %v): expected visible=%v, got %v", tt.in0, tt.in1, tt.visible, ok)
			continue
		}
		if ok && (x0 != tt.out0 || x1 != tt.out1) {
			t.Errorf("clipRange(%v, %v): expected [%v,%v], got [%v,%v]", tt.in0, tt.in1, tt.out0, tt.out1, x0, x1)
		}
	}
}

func TestCellAtMilestoneBeforeWindow(t *testing.T) {
	tasks := []model.Task{{ID: "gate", Kind: model.KindMilestone, DueDate: model.MustDate("2023-12-23")}}
	l := timeline.Compute(tasks, timeline.Options{Mode: timeline.GroupNone}, nil, today)
	if b, _ := l.BarAt(0); b.Left != -1 {
		t.Fatalf("expected milestone one day before the window, got left %d", b.Left)
	}
	if g := CellAt(l, 0, 0, false); g == GlyphMilestone {
		t.Error("expected milestone left of the window not drawn on day 0")
	}
}
