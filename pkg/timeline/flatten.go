package timeline

import "github.com/vanderheijden86/gantry/pkg/metrics"

// FlatNode is a visible node together with the depth it is drawn at.
type FlatNode struct {
	Node  *Node
	Depth int
}

// Flatten walks roots in preorder and returns the visible nodes. The
// subtree below a collapsed task is skipped entirely; the collapsed task
// itself stays visible. Depth is counted from the roots passed in, so a
// sub-forest is indented from zero.
func Flatten(roots []*Node, collapsed *CollapseState) []FlatNode {
	defer metrics.Timer(metrics.Flatten)()

	var out []FlatNode
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			out = append(out, FlatNode{Node: n, Depth: depth})
			if n.HasChildren() && !collapsed.IsTaskCollapsed(n.Task.ID) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(roots, 0)
	return out
}
