package timeline

import (
	"sort"

	"github.com/vanderheijden86/gantry/pkg/model"
)

// CollapseState holds the collapsed phase keys and collapsed task ids.
// It is owned by the caller and passed into the derivations; the zero value
// is an empty, usable state. Ids that do not exist in the current data are
// kept harmlessly and simply never match.
type CollapseState struct {
	phases map[string]struct{}
	tasks  map[string]struct{}
}

// NewCollapseState returns an empty state.
func NewCollapseState() *CollapseState {
	return &CollapseState{}
}

// TogglePhase flips the collapsed flag of a phase bucket.
func (c *CollapseState) TogglePhase(key string) {
	c.phases = toggle(c.phases, model.NormalizePhase(key))
}

// ToggleTask flips the collapsed flag of a task.
func (c *CollapseState) ToggleTask(id string) {
	c.tasks = toggle(c.tasks, id)
}

// CollapseTasks marks every id as collapsed.
func (c *CollapseState) CollapseTasks(ids ...string) {
	if c.tasks == nil {
		c.tasks = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		c.tasks[id] = struct{}{}
	}
}

// ExpandTask removes id from the collapsed set.
func (c *CollapseState) ExpandTask(id string) {
	delete(c.tasks, id)
}

// ExpandAll clears both sets.
func (c *CollapseState) ExpandAll() {
	c.phases = nil
	c.tasks = nil
}

// IsPhaseCollapsed reports whether the phase bucket is collapsed. A nil
// state collapses nothing.
func (c *CollapseState) IsPhaseCollapsed(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.phases[model.NormalizePhase(key)]
	return ok
}

// IsTaskCollapsed reports whether the task's subtree is hidden.
func (c *CollapseState) IsTaskCollapsed(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.tasks[id]
	return ok
}

// CollapsedTasks returns the collapsed task ids, sorted.
func (c *CollapseState) CollapsedTasks() []string {
	if c == nil {
		return nil
	}
	return sortedKeys(c.tasks)
}

// CollapsedPhases returns the collapsed phase keys, sorted.
func (c *CollapseState) CollapsedPhases() []string {
	if c == nil {
		return nil
	}
	return sortedKeys(c.phases)
}

// Clone returns an independent copy.
func (c *CollapseState) Clone() *CollapseState {
	out := &CollapseState{}
	if c == nil {
		return out
	}
	for k := range c.phases {
		out.phases = toggle(out.phases, k)
	}
	for k := range c.tasks {
		out.tasks = toggle(out.tasks, k)
	}
	return out
}

func toggle(set map[string]struct{}, key string) map[string]struct{} {
	if set == nil {
		set = make(map[string]struct{})
	}
	if _, ok := set[key]; ok {
		delete(set, key)
	} else {
		set[key] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
