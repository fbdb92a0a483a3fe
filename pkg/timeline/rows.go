package timeline

// RowKind tags a visible row.
type RowKind int

const (
	RowGroupHeader RowKind = iota
	RowTask
)

// GroupHeader is the header row of a phase bucket.
type GroupHeader struct {
	PhaseKey  string
	Label     string
	Count     int // visible tasks in the bucket
	Collapsed bool
}

// Row is either a group header or a task. Exactly one of Header and Task is
// set, matching Kind.
type Row struct {
	Kind   RowKind
	Header *GroupHeader
	Task   *FlatNode
}

// IsHeader reports whether the row is a group header.
func (r Row) IsHeader() bool {
	return r.Kind == RowGroupHeader
}

// TaskID returns the task id of a task row, or "" for headers.
func (r Row) TaskID() string {
	if r.Task == nil || r.Task.Node == nil {
		return ""
	}
	return r.Task.Node.Task.ID
}

// Rows turns grouped buckets into the ordered row sequence shared by both
// panes. In phase mode each bucket contributes a header followed by its
// tasks unless the phase is collapsed; in GroupNone mode only task rows are
// produced.
func Rows(groups []Group, mode GroupMode, collapsed *CollapseState) []Row {
	var rows []Row
	for gi := range groups {
		g := &groups[gi]
		hidden := false
		if mode == GroupByPhase {
			hidden = collapsed.IsPhaseCollapsed(g.Key)
			rows = append(rows, Row{
				Kind: RowGroupHeader,
				Header: &GroupHeader{
					PhaseKey:  g.Key,
					Label:     g.Label,
					Count:     len(g.Tasks),
					Collapsed: hidden,
				},
			})
		}
		if hidden {
			continue
		}
		for ti := range g.Tasks {
			rows = append(rows, Row{Kind: RowTask, Task: &g.Tasks[ti]})
		}
	}
	return rows
}

// RowOffset returns the vertical offset of row index i.
func RowOffset(i, rowHeight int) int {
	return i * rowHeight
}

// RowAt returns the row index under vertical position y, or -1.
func RowAt(y, rowHeight, rowCount int) int {
	if rowHeight <= 0 || y < 0 {
		return -1
	}
	i := y / rowHeight
	if i >= rowCount {
		return -1
	}
	return i
}
