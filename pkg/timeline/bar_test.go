package timeline

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/testutil"
)

func TestBarForScenario(t *testing.T) {
	start, due := day("2024-01-10"), day("2024-01-15")
	tk := model.Task{ID: "1", StartDate: &start, DueDate: &due, Kind: model.KindTask}
	span := ResolveSpan([]model.Task{tk}, day("2024-01-12"))

	b, ok := BarFor(span, &tk)
	if !ok {
		t.Fatal("expected a bar")
	}
	if b.Width != 6 {
		t.Errorf("expected width 6 days, got %d", b.Width)
	}
	if b.Left != span.Offset(start) {
		t.Errorf("expected left %d, got %d", span.Offset(start), b.Left)
	}
	px := b.Scale(28)
	if px.W != 168 {
		t.Errorf("expected 168px wide, got %v", px.W)
	}
}

func TestBarForMissingDates(t *testing.T) {
	span := ResolveSpan(nil, day("2024-01-12"))
	if _, ok := BarFor(span, &model.Task{ID: "x"}); ok {
		t.Error("expected no bar for undated task")
	}
	if _, ok := BarFor(span, nil); ok {
		t.Error("expected no bar for nil task")
	}

	due := day("2024-01-20")
	b, ok := BarFor(span, &model.Task{ID: "d", DueDate: &due})
	if !ok || b.Width != 1 || b.Left != span.Offset(due) {
		t.Errorf("expected one-day bar at due date, got %+v ok=%v", b, ok)
	}
}

func TestBarForInvertedRange(t *testing.T) {
	start, due := day("2024-01-15"), day("2024-01-10")
	span := ResolveSpan(nil, day("2024-01-12"))
	b, _ := BarFor(span, &model.Task{ID: "i", StartDate: &start, DueDate: &due})
	if b.Width != 1 {
		t.Errorf("expected minimum width 1, got %d", b.Width)
	}
}

func TestBarForMilestone(t *testing.T) {
	start, due := day("2024-01-10"), day("2024-01-13")
	span := ResolveSpan(nil, day("2024-01-12"))
	b, _ := BarFor(span, &model.Task{ID: "m", StartDate: &start, DueDate: &due, Kind: model.KindMilestone})
	if b.Shape != ShapePoint {
		t.Error("expected point shape")
	}
	if b.Point != float64(b.Left)+2 {
		t.Errorf("expected midpoint %v, got %v", float64(b.Left)+2, b.Point)
	}
}

func TestProgressWidth(t *testing.T) {
	b := Bar{Left: 0, Width: 10}
	tests := []struct {
		progress int
		want     float64
	}{
		{0, 0},
		{50, 5},
		{100, 0},
		{-3, 0},
		{150, 0},
	}
	for _, tt := range tests {
		if got := ProgressWidth(b, tt.progress); got != tt.want {
			t.Errorf("ProgressWidth(%d) = %v, want %v", tt.progress, got, tt.want)
		}
	}
	if ProgressWidth(Bar{Width: 4, Shape: ShapePoint}, 50) != 0 {
		t.Error("expected no fill for milestones")
	}
}

func TestTodayMarkerAndInitialScroll(t *testing.T) {
	today := day("2024-01-10")
	span := ResolveSpan(nil, today)
	off, ok := TodayMarker(span, today)
	if !ok || off != 17 {
		t.Errorf("expected today at offset 17, got %d ok=%v", off, ok)
	}
	if got := InitialScrollX(span, today, 28, 200); got != 17*28-200 {
		t.Errorf("expected %d, got %v", 17*28-200, got)
	}
	if got := InitialScrollX(span, span.Start, 28, 200); got != 0 {
		t.Errorf("expected clamp to 0, got %v", got)
	}
	if _, ok := TodayMarker(span, day("2030-01-01")); ok {
		t.Error("expected marker hidden outside span")
	}
	if _, ok := TodayMarker(Span{}, today); ok {
		t.Error("expected marker hidden for zero span")
	}
}

func TestBarsAnchoredInSpan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := testutil.TasksGen(30, nil).Draw(t, "tasks")
		span := ResolveSpan(tasks, testutil.DateGen().Draw(t, "today"))
		for i := range tasks {
			b, ok := BarFor(span, &tasks[i])
			if !ok {
				if tasks[i].HasDates() {
					t.Fatalf("dated task %s has no bar", tasks[i].ID)
				}
				continue
			}
			if b.Width < 1 {
				t.Fatalf("bar width %d < 1", b.Width)
			}
			task := &tasks[i]
			if task.StartDate != nil && b.Left < 0 {
				t.Fatalf("bar for start %s begins before the span", task.StartDate)
			}
			if task.DueDate != nil && span.Offset(*task.DueDate) >= span.TotalDays {
				t.Fatalf("due %s after the span", task.DueDate)
			}
			if b.Point < float64(b.Left) || b.Point > float64(b.End()) {
				t.Fatalf("point %v outside bar", b.Point)
			}
		}
	})
}
