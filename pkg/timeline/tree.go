// Package timeline lays out a project's tasks as a hierarchical Gantt chart.
//
// Every function in this package is a pure derivation over a task snapshot:
// the task list is linked into a forest, flattened into visible rows under a
// caller-owned CollapseState, and measured against a calendar span in day
// units. Nothing is cached between calls; callers recompute the Layout
// whenever tasks, phase ordering or collapse state change.
package timeline

import (
	"github.com/vanderheijden86/gantry/pkg/metrics"
	"github.com/vanderheijden86/gantry/pkg/model"
)

// Node is a task linked into the forest.
type Node struct {
	Task     model.Task
	Children []*Node // input order
	Depth    int     // 0 for roots
	Parent   *Node   // nil for roots
}

// ID returns the task id of the node.
func (n *Node) ID() string {
	return n.Task.ID
}

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Forest is the result of one tree build. Nodes are never shared between
// builds.
type Forest struct {
	Roots []*Node
	Index map[string]*Node // task id -> node (first occurrence of an id)
	count int
}

// Len returns the number of nodes in the forest.
func (f Forest) Len() int {
	return f.count
}

// Walk visits every node in preorder, ignoring collapse state.
func (f Forest) Walk(fn func(*Node)) {
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			fn(n)
			walk(n.Children)
		}
	}
	walk(f.Roots)
}

// Descendants returns the ids of every node below id, in preorder.
func (f Forest) Descendants(id string) []string {
	n, ok := f.Index[id]
	if !ok {
		return nil
	}
	var out []string
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, c := range nodes {
			out = append(out, c.Task.ID)
			walk(c.Children)
		}
	}
	walk(n.Children)
	return out
}

// BuildForest links tasks into a forest by parent reference.
//
// Children keep the order of the input slice. A task whose parent id is
// empty, unknown, or whose link would close a cycle becomes a root; the
// refused edge is treated as absent. Every input task appears exactly once.
func BuildForest(tasks []model.Task) Forest {
	defer metrics.Timer(metrics.TreeBuild)()

	f := Forest{Index: make(map[string]*Node, len(tasks))}
	if len(tasks) == 0 {
		return f
	}

	// Pass 1: one empty node per task.
	nodes := make([]*Node, len(tasks))
	for i := range tasks {
		n := &Node{Task: tasks[i]}
		nodes[i] = n
		if _, exists := f.Index[n.Task.ID]; !exists {
			f.Index[n.Task.ID] = n
		}
	}
	f.count = len(nodes)

	// Pass 2: link in input order.
	for _, n := range nodes {
		parent := f.parentOf(n)
		if parent == nil || closesCycle(n, parent) {
			f.Roots = append(f.Roots, n)
			continue
		}
		n.Parent = parent
		parent.Children = append(parent.Children, n)
	}

	assignDepths(f.Roots, 0)
	return f
}

func (f Forest) parentOf(n *Node) *Node {
	if n.Task.ParentID == "" {
		return nil
	}
	return f.Index[n.Task.ParentID]
}

// closesCycle reports whether making parent the parent of n would create a
// loop, i.e. n is parent itself or one of parent's linked ancestors.
func closesCycle(n, parent *Node) bool {
	for p := parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

func assignDepths(nodes []*Node, depth int) {
	for _, n := range nodes {
		n.Depth = depth
		assignDepths(n.Children, depth+1)
	}
}
