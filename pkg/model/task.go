// Package model defines the task records the timeline engine lays out.
//
// Tasks arrive already deserialized from the surrounding application. The
// decoders here accept the snake_case field names of the upstream REST layer
// and a few aliases, so snapshots exported from different endpoints load
// without a conversion step.
package model

import (
	"fmt"
	"strings"
	"time"
)

// TaskKind is the structural kind of a task.
type TaskKind string

const (
	KindTask      TaskKind = "TASK"
	KindSubtask   TaskKind = "SUBTASK"
	KindMilestone TaskKind = "MILESTONE"
)

// ParseTaskKind maps a raw kind string onto a TaskKind. Matching is
// case-insensitive; unknown or empty values are treated as plain tasks.
func ParseTaskKind(s string) TaskKind {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(KindSubtask):
		return KindSubtask
	case string(KindMilestone):
		return KindMilestone
	default:
		return KindTask
	}
}

// IsValid reports whether k is one of the known kinds.
func (k TaskKind) IsValid() bool {
	switch k {
	case KindTask, KindSubtask, KindMilestone:
		return true
	}
	return false
}

// Task status values used by the upstream project service. The engine never
// branches on status; renderers use it for colors and the summary report
// counts by it.
const (
	StatusPending     = "pending"
	StatusReady       = "ready"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusBlocked     = "blocked"
	StatusNeedsReview = "needs_review"
)

// KnownStatuses lists the statuses in legend order.
var KnownStatuses = []string{
	StatusPending,
	StatusReady,
	StatusInProgress,
	StatusCompleted,
	StatusBlocked,
	StatusNeedsReview,
}

// Task is a single schedulable item of a project plan.
type Task struct {
	ID           string     `json:"id" yaml:"id"`
	ParentID     string     `json:"parent_task_id,omitempty" yaml:"parent_task_id,omitempty"`
	Phase        string     `json:"phase,omitempty" yaml:"phase,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Kind         TaskKind   `json:"task_type" yaml:"task_type"`
	Progress     int        `json:"progress" yaml:"progress"`
	Title        string     `json:"title" yaml:"title"`
	Code         string     `json:"code,omitempty" yaml:"code,omitempty"`
	AssigneeName string     `json:"assignee_name,omitempty" yaml:"assignee_name,omitempty"`
	Status       string     `json:"status,omitempty" yaml:"status,omitempty"`
	IsCritical   bool       `json:"is_critical,omitempty" yaml:"is_critical,omitempty"`
}

// HasDates reports whether the task carries at least one calendar date.
func (t *Task) HasDates() bool {
	return t.StartDate != nil || t.DueDate != nil
}

// IsMilestone reports whether the task renders as a point.
func (t *Task) IsMilestone() bool {
	return t.Kind == KindMilestone
}

// NormalizedPhase returns the task's phase key in grouping form.
func (t *Task) NormalizedPhase() string {
	return NormalizePhase(t.Phase)
}

// dateLayouts are tried in order when parsing task dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseDate parses a task date in any of the accepted layouts. An empty
// string yields (nil, nil).
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}

// MustDate parses a YYYY-MM-DD date and panics on failure. Intended for
// fixtures and tests.
func MustDate(s string) *time.Time {
	t, err := ParseDate(s)
	if err != nil || t == nil {
		panic(fmt.Sprintf("model: bad date %q", s))
	}
	return t
}
