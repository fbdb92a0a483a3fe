package model

import (
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

func TestParseTaskKind(t *testing.T) {
	cases := map[string]TaskKind{
		"MILESTONE": KindMilestone,
		"milestone": KindMilestone,
		" Subtask ": KindSubtask,
		"TASK":      KindTask,
		"":          KindTask,
		"epic":      KindTask,
	}
	for in, want := range cases {
		if got := ParseTaskKind(in); got != want {
			t.Errorf("ParseTaskKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-10")
	if err != nil || d == nil {
		t.Fatalf("expected date, got %v, %v", d, err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 10 {
		t.Errorf("unexpected date %v", d)
	}

	d, err = ParseDate("2024-03-05T18:30:00+08:00")
	if err != nil || d == nil {
		t.Fatalf("expected RFC3339 date, got %v, %v", d, err)
	}
	if d.Day() != 5 {
		t.Errorf("expected day 5 in source zone, got %d", d.Day())
	}

	d, err = ParseDate("")
	if err != nil || d != nil {
		t.Errorf("expected nil date for empty input, got %v, %v", d, err)
	}

	if _, err := ParseDate("next tuesday"); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestTaskUnmarshalJSON_Aliases(t *testing.T) {
	data := `{
		"id": 7,
		"parent_id": 3,
		"phase": {"phase": "EVT"},
		"start_date": "2024-01-10",
		"due_date": null,
		"kind": "milestone",
		"progress": 40,
		"title": "Tooling kickoff",
		"assignee": {"name": "Wei"},
		"status": "IN_PROGRESS",
		"is_critical": true
	}`

	var task Task
	if err := json.Unmarshal([]byte(data), &task); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if task.ID != "7" {
		t.Errorf("expected numeric id kept as \"7\", got %q", task.ID)
	}
	if task.ParentID != "3" {
		t.Errorf("expected parent_id alias, got %q", task.ParentID)
	}
	if task.NormalizedPhase() != "evt" {
		t.Errorf("expected phase object unwrapped to evt, got %q", task.Phase)
	}
	if task.StartDate == nil || task.DueDate != nil {
		t.Errorf("unexpected dates start=%v due=%v", task.StartDate, task.DueDate)
	}
	if !task.IsMilestone() {
		t.Errorf("expected milestone kind, got %q", task.Kind)
	}
	if task.AssigneeName != "Wei" {
		t.Errorf("expected assignee name from object, got %q", task.AssigneeName)
	}
	if task.Status != StatusInProgress {
		t.Errorf("expected lower-cased status, got %q", task.Status)
	}
	if !task.IsCritical || task.Progress != 40 {
		t.Errorf("pass-through fields lost: %+v", task)
	}
}

func TestTaskUnmarshalJSON_ParentTaskIDWins(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":"a","parent_task_id":"p1","parent_id":"p2","task_type":"SUBTASK"}`), &task)
	if err != nil {
		t.Fatal(err)
	}
	if task.ParentID != "p1" {
		t.Errorf("expected parent_task_id to take precedence, got %q", task.ParentID)
	}
	if task.Kind != KindSubtask {
		t.Errorf("expected SUBTASK, got %q", task.Kind)
	}
}

func TestTaskUnmarshalJSON_BadDate(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":"a","start_date":"soon"}`), &task); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestTaskUnmarshalYAML(t *testing.T) {
	data := `
- id: 1
  title: Concept review
  phase: concept
  start_date: 2024-01-10
  due_date: 2024-01-15
- id: 2
  parent_task_id: 1
  task_type: subtask
  phase:
    phase: DVT
  due_date: "2024-02-01"
`
	var tasks []Task
	if err := yaml.Unmarshal([]byte(data), &tasks); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "1" || tasks[0].StartDate == nil || tasks[0].DueDate == nil {
		t.Errorf("unexpected first task: %+v", tasks[0])
	}
	if tasks[0].DueDate.Day() != 15 {
		t.Errorf("expected due day 15, got %d", tasks[0].DueDate.Day())
	}
	if tasks[1].ParentID != "1" || tasks[1].Kind != KindSubtask || tasks[1].NormalizedPhase() != "dvt" {
		t.Errorf("unexpected second task: %+v", tasks[1])
	}
}

func TestTaskJSONRoundTrip(t *testing.T) {
	in := Task{ID: "x", ParentID: "y", Phase: "pvt", StartDate: MustDate("2024-05-01"), Kind: KindMilestone, Title: "Ship"}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Task
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.ID != in.ID || out.ParentID != in.ParentID || out.Kind != in.Kind || !out.StartDate.Equal(*in.StartDate) {
		t.Errorf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestPhaseLabel(t *testing.T) {
	phases := DefaultPhases()
	if got := PhaseLabel(phases, "EVT"); got != "EVT Engineering Validation" {
		t.Errorf("unexpected label %q", got)
	}
	if got := PhaseLabel(phases, ""); got != UnclassifiedLabel {
		t.Errorf("expected unclassified label, got %q", got)
	}
	if got := PhaseLabel(phases, "pilot"); got != "PILOT" {
		t.Errorf("expected upper-cased unknown key, got %q", got)
	}
}
