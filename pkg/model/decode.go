package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// taskWire is the permissive on-the-wire shape of a task. Several upstream
// endpoints disagree on field names and scalar types; everything converges
// here before being copied into Task.
type taskWire struct {
	ID           flexString     `json:"id" yaml:"id"`
	ParentTaskID flexString     `json:"parent_task_id" yaml:"parent_task_id"`
	ParentID     flexString     `json:"parent_id" yaml:"parent_id"`
	Phase        phaseField     `json:"phase" yaml:"phase"`
	StartDate    dateField      `json:"start_date" yaml:"start_date"`
	DueDate      dateField      `json:"due_date" yaml:"due_date"`
	TaskType     flexString     `json:"task_type" yaml:"task_type"`
	Kind         flexString     `json:"kind" yaml:"kind"`
	Progress     int            `json:"progress" yaml:"progress"`
	Title        flexString     `json:"title" yaml:"title"`
	Code         flexString     `json:"code" yaml:"code"`
	AssigneeName flexString     `json:"assignee_name" yaml:"assignee_name"`
	Assignee     *assigneeField `json:"assignee" yaml:"assignee"`
	Status       flexString     `json:"status" yaml:"status"`
	IsCritical   bool           `json:"is_critical" yaml:"is_critical"`
}

type assigneeField struct {
	Name flexString `json:"name" yaml:"name"`
}

func (w *taskWire) toTask() Task {
	t := Task{
		ID:           string(w.ID),
		ParentID:     string(w.ParentTaskID),
		Phase:        string(w.Phase),
		StartDate:    w.StartDate.t,
		DueDate:      w.DueDate.t,
		Progress:     w.Progress,
		Title:        string(w.Title),
		Code:         string(w.Code),
		AssigneeName: string(w.AssigneeName),
		Status:       strings.ToLower(string(w.Status)),
		IsCritical:   w.IsCritical,
	}
	if t.ParentID == "" {
		t.ParentID = string(w.ParentID)
	}
	kind := string(w.TaskType)
	if kind == "" {
		kind = string(w.Kind)
	}
	t.Kind = ParseTaskKind(kind)
	if w.Assignee != nil && w.Assignee.Name != "" {
		t.AssigneeName = string(w.Assignee.Name)
	}
	return t
}

// UnmarshalJSON decodes a task from any of the accepted upstream shapes.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = w.toTask()
	return nil
}

// UnmarshalYAML decodes a task from a YAML mapping.
func (t *Task) UnmarshalYAML(node *yaml.Node) error {
	var w taskWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	*t = w.toTask()
	return nil
}

// flexString accepts JSON strings, numbers, and null. Numeric ids are kept
// in their literal text form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*f = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(v)
	case strings.HasPrefix(s, "{"), strings.HasPrefix(s, "["):
		return fmt.Errorf("expected scalar, got %.20s", s)
	default:
		*f = flexString(s)
	}
	return nil
}

func (f *flexString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*f = ""
		return nil
	}
	*f = flexString(node.Value)
	return nil
}

// phaseField accepts either a bare phase key or an embedded phase object
// such as {"phase": "evt"}.
type phaseField string

type phaseObject struct {
	Phase flexString `json:"phase" yaml:"phase"`
	Key   flexString `json:"key" yaml:"key"`
}

func (p phaseObject) key() string {
	if p.Phase != "" {
		return string(p.Phase)
	}
	return string(p.Key)
}

func (p *phaseField) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, "{") {
		var obj phaseObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*p = phaseField(obj.key())
		return nil
	}
	var f flexString
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	*p = phaseField(f)
	return nil
}

func (p *phaseField) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var obj phaseObject
		if err := node.Decode(&obj); err != nil {
			return err
		}
		*p = phaseField(obj.key())
		return nil
	}
	var f flexString
	if err := f.UnmarshalYAML(node); err != nil {
		return err
	}
	*p = phaseField(f)
	return nil
}

// dateField parses a nullable calendar date.
type dateField struct {
	t *time.Time
}

func (d *dateField) UnmarshalJSON(data []byte) error {
	var f flexString
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	t, err := ParseDate(string(f))
	if err != nil {
		return err
	}
	d.t = t
	return nil
}

func (d *dateField) UnmarshalYAML(node *yaml.Node) error {
	var f flexString
	if err := f.UnmarshalYAML(node); err != nil {
		return err
	}
	t, err := ParseDate(string(f))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.t = t
	return nil
}
