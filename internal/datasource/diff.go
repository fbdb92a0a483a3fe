package datasource

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/gantry/pkg/model"
)

// FieldDifference is one field that disagrees between two snapshots.
type FieldDifference struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	A     string `json:"a"`
	B     string `json:"b"`
}

// SourceDiff is the difference between two snapshots of the same plan.
type SourceDiff struct {
	SourceA    string            `json:"source_a"`
	SourceB    string            `json:"source_b"`
	MissingInA []string          `json:"missing_in_a,omitempty"` // ids in B but not in A
	MissingInB []string          `json:"missing_in_b,omitempty"` // ids in A but not in B
	Mismatches []FieldDifference `json:"mismatches,omitempty"`
	CountA     int               `json:"count_a"`
	CountB     int               `json:"count_b"`
}

// HasInconsistencies reports whether the snapshots disagree.
func (d SourceDiff) HasInconsistencies() bool {
	return len(d.MissingInA) > 0 || len(d.MissingInB) > 0 || len(d.Mismatches) > 0
}

// Summary renders the diff for humans.
func (d SourceDiff) Summary() string {
	if !d.HasInconsistencies() {
		return fmt.Sprintf("Sources match (%d tasks each)", d.CountA)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Inconsistencies found between %s and %s:\n", d.SourceA, d.SourceB)
	if d.CountA != d.CountB {
		fmt.Fprintf(&sb, "  - Count mismatch: %d vs %d\n", d.CountA, d.CountB)
	}
	listIDs := func(ids []string, in, notIn string) {
		if len(ids) == 0 {
			return
		}
		fmt.Fprintf(&sb, "  - %d tasks in %s but not %s\n", len(ids), in, notIn)
		if len(ids) <= 5 {
			for _, id := range ids {
				fmt.Fprintf(&sb, "    - %s\n", id)
			}
		}
	}
	listIDs(d.MissingInA, d.SourceB, d.SourceA)
	listIDs(d.MissingInB, d.SourceA, d.SourceB)
	if len(d.Mismatches) > 0 {
		fmt.Fprintf(&sb, "  - %d field differences\n", len(d.Mismatches))
		if len(d.Mismatches) <= 5 {
			for _, m := range d.Mismatches {
				fmt.Fprintf(&sb, "    - %s.%s: %q vs %q\n", m.ID, m.Field, m.A, m.B)
			}
		}
	}
	return sb.String()
}

// DiffOptions configures DetectInconsistencies.
type DiffOptions struct {
	// CompareFields lists the compared fields: status, parent, phase,
	// start_date, due_date, progress. Empty compares status only.
	CompareFields  []string
	MaxDifferences int // 0 = unlimited
}

// DefaultDiffOptions compares the fields that change a rendered chart.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		CompareFields:  []string{"status", "parent", "phase", "start_date", "due_date"},
		MaxDifferences: 100,
	}
}

var fieldGetters = map[string]func(*model.Task) string{
	"status":     func(t *model.Task) string { return t.Status },
	"parent":     func(t *model.Task) string { return t.ParentID },
	"phase":      func(t *model.Task) string { return t.NormalizedPhase() },
	"start_date": func(t *model.Task) string { return formatDate(t.StartDate) },
	"due_date":   func(t *model.Task) string { return formatDate(t.DueDate) },
	"progress":   func(t *model.Task) string { return fmt.Sprint(t.Progress) },
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}

// DetectInconsistencies compares two task lists by id. Results are sorted
// by id so reports are stable.
func DetectInconsistencies(tasksA, tasksB []model.Task, sourceA, sourceB string, opts DiffOptions) SourceDiff {
	diff := SourceDiff{SourceA: sourceA, SourceB: sourceB}
	fields := opts.CompareFields
	if len(fields) == 0 {
		fields = []string{"status"}
	}
	room := func(n int) bool { return opts.MaxDifferences == 0 || n < opts.MaxDifferences }

	mapA := indexTasks(tasksA)
	mapB := indexTasks(tasksB)
	diff.CountA, diff.CountB = len(mapA), len(mapB)

	for _, id := range sortedIDs(mapA) {
		if _, ok := mapB[id]; !ok && room(len(diff.MissingInB)) {
			diff.MissingInB = append(diff.MissingInB, id)
		}
	}
	for _, id := range sortedIDs(mapB) {
		b := mapB[id]
		a, ok := mapA[id]
		if !ok {
			if room(len(diff.MissingInA)) {
				diff.MissingInA = append(diff.MissingInA, id)
			}
			continue
		}
		for _, f := range fields {
			get, known := fieldGetters[f]
			if !known {
				continue
			}
			if va, vb := get(a), get(b); va != vb && room(len(diff.Mismatches)) {
				diff.Mismatches = append(diff.Mismatches, FieldDifference{ID: id, Field: f, A: va, B: vb})
			}
		}
	}
	return diff
}

func indexTasks(tasks []model.Task) map[string]*model.Task {
	m := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		if _, dup := m[tasks[i].ID]; !dup {
			m[tasks[i].ID] = &tasks[i]
		}
	}
	return m
}

func sortedIDs(m map[string]*model.Task) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CompareSources loads and compares two sources.
func CompareSources(sourceA, sourceB DataSource, project string, opts DiffOptions) (*SourceDiff, error) {
	tasksA, err := LoadFromSource(sourceA, project)
	if err != nil {
		return nil, fmt.Errorf("failed to load source A (%s): %w", sourceA.Path, err)
	}
	tasksB, err := LoadFromSource(sourceB, project)
	if err != nil {
		return nil, fmt.Errorf("failed to load source B (%s): %w", sourceB.Path, err)
	}
	diff := DetectInconsistencies(tasksA, tasksB, sourceA.Path, sourceB.Path, opts)
	return &diff, nil
}

// CheckAllSourcesConsistent compares every pair of valid sources and
// returns the diffs that disagree. Pairs that fail to load are skipped.
func CheckAllSourcesConsistent(sources []DataSource, project string, opts DiffOptions) []SourceDiff {
	var diffs []SourceDiff
	for i := 0; i < len(sources); i++ {
		if !sources[i].Valid {
			continue
		}
		for j := i + 1; j < len(sources); j++ {
			if !sources[j].Valid {
				continue
			}
			diff, err := CompareSources(sources[i], sources[j], project, opts)
			if err != nil {
				continue
			}
			if diff.HasInconsistencies() {
				diffs = append(diffs, *diff)
			}
		}
	}
	return diffs
}
