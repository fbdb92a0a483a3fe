package analysis

import (
	"sort"
	"time"

	"github.com/vanderheijden86/gantry/pkg/model"
)

// PhaseSummary aggregates one phase bucket.
type PhaseSummary struct {
	Key         string         `json:"key"`
	Label       string         `json:"label"`
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	Milestones  int            `json:"milestones"`
	Critical    int            `json:"critical"`
	AvgProgress float64        `json:"avg_progress"`
	Start       *time.Time     `json:"start,omitempty"`
	End         *time.Time     `json:"end,omitempty"`
}

// Completed returns the number of completed tasks.
func (p PhaseSummary) Completed() int {
	return p.ByStatus[model.StatusCompleted]
}

// Summary aggregates tasks per phase in phase order, unclassified last.
// Phases without tasks are omitted, matching the grouped view.
func Summary(tasks []model.Task, phases []model.Phase) []PhaseSummary {
	known := make(map[string]bool, len(phases))
	for _, p := range phases {
		known[model.NormalizePhase(p.Key)] = true
	}

	acc := make(map[string]*PhaseSummary)
	progress := make(map[string]int)
	for i := range tasks {
		t := &tasks[i]
		key := t.NormalizedPhase()
		if !known[key] {
			key = model.UnclassifiedKey
		}
		s, ok := acc[key]
		if !ok {
			s = &PhaseSummary{
				Key:      key,
				Label:    model.PhaseLabel(phases, key),
				ByStatus: make(map[string]int),
			}
			acc[key] = s
		}
		s.Total++
		status := t.Status
		if status == "" {
			status = model.StatusPending
		}
		s.ByStatus[status]++
		if t.IsMilestone() {
			s.Milestones++
		}
		if t.IsCritical {
			s.Critical++
		}
		progress[key] += clampProgress(t.Progress)
		for _, d := range []*time.Time{t.StartDate, t.DueDate} {
			if d == nil {
				continue
			}
			if s.Start == nil || d.Before(*s.Start) {
				v := *d
				s.Start = &v
			}
			if s.End == nil || d.After(*s.End) {
				v := *d
				s.End = &v
			}
		}
	}

	var out []PhaseSummary
	seen := make(map[string]bool)
	emit := func(key string) {
		if seen[key] {
			return
		}
		seen[key] = true
		if s, ok := acc[key]; ok {
			s.AvgProgress = float64(progress[key]) / float64(s.Total)
			out = append(out, *s)
		}
	}
	for _, p := range phases {
		emit(model.NormalizePhase(p.Key))
	}
	emit(model.UnclassifiedKey)
	return out
}

func clampProgress(p int) int {
	return max(0, min(p, 100))
}

// Overdue returns the ids of unfinished tasks due before today, earliest
// due date first.
func Overdue(tasks []model.Task, today time.Time) []string {
	y, m, d := today.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	type due struct {
		id string
		at time.Time
	}
	var late []due
	for i := range tasks {
		t := &tasks[i]
		if t.DueDate == nil || t.Status == model.StatusCompleted || t.Progress >= 100 {
			continue
		}
		dy, dm, dd := t.DueDate.Date()
		at := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
		if at.Before(cutoff) {
			late = append(late, due{t.ID, at})
		}
	}
	sort.SliceStable(late, func(i, j int) bool { return late[i].at.Before(late[j].at) })
	ids := make([]string, len(late))
	for i, l := range late {
		ids[i] = l.id
	}
	return ids
}
