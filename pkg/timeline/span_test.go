package timeline

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/testutil"
)

func day(s string) time.Time {
	return *model.MustDate(s)
}

func TestResolveSpanEmpty(t *testing.T) {
	today := day("2024-01-10") // Wednesday
	s := ResolveSpan(nil, today)
	if s.TotalDays <= 0 {
		t.Fatalf("expected positive span, got %d days", s.TotalDays)
	}
	if s.Start.Weekday() != time.Sunday {
		t.Errorf("expected Sunday start, got %s", s.Start.Weekday())
	}
	if s.End.Weekday() != time.Saturday {
		t.Errorf("expected Saturday end, got %s", s.End.Weekday())
	}
	// today-7-7 = Dec 27 -> Sunday Dec 24; today+30+14 = Feb 23 -> Saturday Feb 24
	if !s.Start.Equal(day("2023-12-24")) {
		t.Errorf("expected start 2023-12-24, got %s", s.Start.Format("2006-01-02"))
	}
	if !s.End.Equal(day("2024-02-24")) {
		t.Errorf("expected end 2024-02-24, got %s", s.End.Format("2006-01-02"))
	}
	if s.TotalDays != 63 {
		t.Errorf("expected 63 days, got %d", s.TotalDays)
	}
}

func TestResolveSpanWidensToTasks(t *testing.T) {
	today := day("2024-01-10")
	start, due := day("2023-06-01"), day("2024-09-01")
	s := ResolveSpan([]model.Task{{ID: "a", StartDate: &start, DueDate: &due}}, today)
	if !s.Contains(start) || !s.Contains(due) {
		t.Errorf("expected span %s..%s to contain task dates", s.Start, s.End)
	}
	if s.Contains(s.Start.AddDate(0, 0, -1)) {
		t.Error("expected Contains to be false before start")
	}
}

func TestResolveSpanDueOnlyDoesNotMoveStart(t *testing.T) {
	today := day("2024-01-10")
	due := day("2023-01-01")
	s := ResolveSpan([]model.Task{{ID: "a", DueDate: &due}}, today)
	if !s.Start.Equal(day("2023-12-24")) {
		t.Errorf("expected start 2023-12-24, got %s", s.Start.Format("2006-01-02"))
	}
	if !s.End.Equal(day("2024-02-24")) {
		t.Errorf("expected end 2024-02-24, got %s", s.End.Format("2006-01-02"))
	}
}

func TestResolveSpanStartOnlyDoesNotMoveEnd(t *testing.T) {
	today := day("2024-01-10")
	start := day("2025-06-01")
	s := ResolveSpan([]model.Task{{ID: "a", StartDate: &start}}, today)
	if !s.End.Equal(day("2024-02-24")) {
		t.Errorf("expected end 2024-02-24, got %s", s.End.Format("2006-01-02"))
	}
	if !s.Start.Equal(day("2023-12-24")) {
		t.Errorf("expected start 2023-12-24, got %s", s.Start.Format("2006-01-02"))
	}
}

func TestSpanCoversStartsAndDues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := testutil.TasksGen(30, nil).Draw(t, "tasks")
		today := testutil.DateGen().Draw(t, "today")
		s := ResolveSpan(tasks, today)
		if s.Start.Weekday() != time.Sunday || s.End.Weekday() != time.Saturday {
			t.Fatalf("span not week aligned: %s..%s", s.Start, s.End)
		}
		if s.TotalDays%7 != 0 {
			t.Fatalf("expected whole weeks, got %d days", s.TotalDays)
		}
		if !s.Contains(today) {
			t.Fatalf("today outside span")
		}
		for _, task := range tasks {
			if d := task.StartDate; d != nil && Civil(*d).Before(s.Start) {
				t.Fatalf("task %s starts %s before span start %s", task.ID, d, s.Start)
			}
			if d := task.DueDate; d != nil && Civil(*d).After(s.End) {
				t.Fatalf("task %s due %s after span end %s", task.ID, d, s.End)
			}
		}
	})
}

func TestSpanMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := testutil.TasksGen(20, nil).Draw(t, "tasks")
		today := testutil.DateGen().Draw(t, "today")
		extra := testutil.DateGen().Draw(t, "extra")
		a := ResolveSpan(tasks, today)
		b := ResolveSpan(append(tasks, model.Task{ID: "x", StartDate: &extra}), today)
		if b.Start.After(a.Start) || b.End.Before(a.End) {
			t.Fatalf("adding a task shrank the span")
		}
	})
}

func TestMonthsCoverSpan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		today := testutil.DateGen().Draw(t, "today")
		tasks := testutil.TasksGen(10, nil).Draw(t, "tasks")
		s := ResolveSpan(tasks, today)

		sum, prevEnd := 0, 0
		for _, m := range Months(s) {
			if m.Offset != prevEnd {
				t.Fatalf("segment %s starts at %d, expected %d", m.Label, m.Offset, prevEnd)
			}
			sum += m.DayCount
			prevEnd = m.Offset + m.DayCount
		}
		if sum != s.TotalDays {
			t.Fatalf("month days sum to %d, expected %d", sum, s.TotalDays)
		}
		if got := len(Days(s, today)); got != s.TotalDays {
			t.Fatalf("expected %d day cells, got %d", s.TotalDays, got)
		}
	})
}

func TestMonthsLabels(t *testing.T) {
	s := ResolveSpan(nil, day("2024-01-10"))
	months := Months(s)
	if len(months) != 3 {
		t.Fatalf("expected Dec, Jan, Feb segments, got %d", len(months))
	}
	if months[0].Label != "Dec 2023" || months[0].DayCount != 8 {
		t.Errorf("expected Dec 2023 with 8 days, got %s with %d", months[0].Label, months[0].DayCount)
	}
	if months[1].Label != "Jan 2024" || months[1].DayCount != 31 {
		t.Errorf("expected Jan 2024 with 31 days, got %s with %d", months[1].Label, months[1].DayCount)
	}
}

func TestDaysFlags(t *testing.T) {
	today := day("2024-01-10")
	s := ResolveSpan(nil, today)
	days := Days(s, today)
	if !days[0].IsWeekend {
		t.Error("expected Sunday start to be a weekend")
	}
	idx := s.Offset(today)
	if !days[idx].IsToday || days[idx].Label != "10" {
		t.Errorf("expected today cell labelled 10, got %+v", days[idx])
	}
	todays := 0
	for _, d := range days {
		if d.IsToday {
			todays++
		}
	}
	if todays != 1 {
		t.Errorf("expected exactly one today cell, got %d", todays)
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	a := time.Date(2024, 3, 9, 12, 0, 0, 0, loc)
	b := time.Date(2024, 3, 11, 1, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 2 {
		t.Errorf("expected 2 days across DST, got %d", got)
	}
}

func TestWeekHelpers(t *testing.T) {
	wed := day("2024-01-10")
	if !StartOfWeek(wed).Equal(day("2024-01-07")) {
		t.Errorf("expected Sunday 2024-01-07, got %s", StartOfWeek(wed))
	}
	if !EndOfWeek(wed).Equal(day("2024-01-13")) {
		t.Errorf("expected Saturday 2024-01-13, got %s", EndOfWeek(wed))
	}
	if !EndOfMonth(day("2024-02-10")).Equal(day("2024-02-29")) {
		t.Error("expected leap-year end of February")
	}
}
