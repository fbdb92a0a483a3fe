// Package analysis reports data problems in a task snapshot that the
// timeline engine tolerates silently: unresolved parents, parent loops,
// duplicate ids, and out-of-range values.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/gantry/pkg/metrics"
	"github.com/vanderheijden86/gantry/pkg/model"
)

// Kind classifies a finding.
type Kind string

const (
	KindOrphan        Kind = "orphan"
	KindCycle         Kind = "cycle"
	KindSelfParent    Kind = "self_parent"
	KindDuplicateID   Kind = "duplicate_id"
	KindUndated       Kind = "undated"
	KindInvertedRange Kind = "inverted_range"
	KindProgressRange Kind = "progress_range"
)

// Severity ranks findings.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

var kindSeverity = map[Kind]Severity{
	KindOrphan:        SeverityWarning,
	KindCycle:         SeverityError,
	KindSelfParent:    SeverityError,
	KindDuplicateID:   SeverityError,
	KindUndated:       SeverityInfo,
	KindInvertedRange: SeverityWarning,
	KindProgressRange: SeverityWarning,
}

// Finding is one problem. TaskIDs lists the tasks involved; for cycles they
// are in parent order starting from the smallest id.
type Finding struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	TaskIDs  []string `json:"task_ids"`
	Message  string   `json:"message"`
}

// Report is the outcome of Diagnose.
type Report struct {
	TaskCount int       `json:"task_count"`
	Findings  []Finding `json:"findings"`
}

// HasErrors reports whether any finding is an error.
func (r Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasCycles reports whether the parent graph loops.
func (r Report) HasCycles() bool {
	return r.Count(KindCycle)+r.Count(KindSelfParent) > 0
}

// ByKind returns the findings of kind k.
func (r Report) ByKind(k Kind) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Kind == k {
			out = append(out, f)
		}
	}
	return out
}

// Count returns the number of findings of kind k.
func (r Report) Count(k Kind) int {
	return len(r.ByKind(k))
}

func (r *Report) add(k Kind, ids []string, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Kind:     k,
		Severity: kindSeverity[k],
		TaskIDs:  ids,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Diagnose inspects tasks. Findings are ordered by kind, then by the input
// position of their first task.
func Diagnose(tasks []model.Task) Report {
	defer metrics.Timer(metrics.Diagnose)()

	r := Report{TaskCount: len(tasks)}

	index := make(map[string]int, len(tasks))
	var dupOrder []string
	dups := make(map[string]int)
	for i := range tasks {
		id := tasks[i].ID
		if _, seen := index[id]; seen {
			if dups[id] == 0 {
				dupOrder = append(dupOrder, id)
				dups[id] = 1
			}
			dups[id]++
			continue
		}
		index[id] = i
	}

	for i := range tasks {
		t := &tasks[i]
		switch {
		case t.ParentID == "":
		case t.ParentID == t.ID:
			r.add(KindSelfParent, []string{t.ID}, "task %s is its own parent", t.ID)
		default:
			if _, ok := index[t.ParentID]; !ok {
				r.add(KindOrphan, []string{t.ID}, "task %s references unknown parent %s", t.ID, t.ParentID)
			}
		}
	}

	for _, cycle := range ParentCycles(tasks) {
		r.add(KindCycle, cycle, "parent loop: %s → %s", strings.Join(cycle, " → "), cycle[0])
	}

	for _, id := range dupOrder {
		r.add(KindDuplicateID, []string{id}, "id %s is used by %d tasks", id, dups[id])
	}

	for i := range tasks {
		t := &tasks[i]
		if !t.HasDates() {
			r.add(KindUndated, []string{t.ID}, "task %s has no dates and draws no bar", t.ID)
		}
	}
	for i := range tasks {
		t := &tasks[i]
		if t.StartDate != nil && t.DueDate != nil && t.DueDate.Before(*t.StartDate) {
			r.add(KindInvertedRange, []string{t.ID}, "task %s is due %s before it starts %s",
				t.ID, t.DueDate.Format("2006-01-02"), t.StartDate.Format("2006-01-02"))
		}
	}
	for i := range tasks {
		t := &tasks[i]
		if t.Progress < 0 || t.Progress > 100 {
			r.add(KindProgressRange, []string{t.ID}, "task %s has progress %d outside 0-100", t.ID, t.Progress)
		}
	}
	return r
}

// ParentCycles returns every loop of two or more tasks in the parent graph.
// Each task has at most one parent, so every strongly connected component
// larger than one node is a simple loop.
func ParentCycles(tasks []model.Task) [][]string {
	g := simple.NewDirectedGraph()
	idToNode := make(map[string]int64, len(tasks))
	nodeToID := make(map[int64]string, len(tasks))
	parent := make(map[string]string, len(tasks))

	for i := range tasks {
		id := tasks[i].ID
		if _, ok := idToNode[id]; ok {
			continue
		}
		n := g.NewNode()
		g.AddNode(n)
		idToNode[id] = n.ID()
		nodeToID[n.ID()] = id
		parent[id] = tasks[i].ParentID
	}

	for id, p := range parent {
		if p == "" || p == id {
			continue
		}
		v, ok := idToNode[p]
		if !ok {
			continue
		}
		// child -> parent
		g.SetEdge(g.NewEdge(g.Node(idToNode[id]), g.Node(v)))
	}

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		start := ""
		for _, n := range scc {
			if id := nodeToID[n.ID()]; start == "" || id < start {
				start = id
			}
		}
		cycle := []string{start}
		for cur := parent[start]; cur != start; cur = parent[cur] {
			cycle = append(cycle, cur)
		}
		cycles = append(cycles, cycle)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

// WouldCreateCycle reports whether re-parenting child under newParent
// would close a loop, and if so returns the loop starting at child.
func WouldCreateCycle(tasks []model.Task, child, newParent string) (bool, []string) {
	parent := make(map[string]string, len(tasks))
	for i := range tasks {
		if _, ok := parent[tasks[i].ID]; !ok {
			parent[tasks[i].ID] = tasks[i].ParentID
		}
	}
	path := []string{child}
	seen := map[string]bool{child: true}
	for cur := newParent; cur != ""; cur = parent[cur] {
		if cur == child {
			return true, path
		}
		if seen[cur] {
			// An existing loop not involving child.
			return false, nil
		}
		seen[cur] = true
		path = append(path, cur)
	}
	return false, nil
}
