package timeline

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/gantry/pkg/model"
)

// GroupMode selects how rows are bucketed.
type GroupMode string

const (
	GroupByPhase GroupMode = "phase"
	GroupNone    GroupMode = "none"
)

// ParseGroupMode parses "phase" or "none" (case-insensitive). Empty input
// selects GroupByPhase.
func ParseGroupMode(s string) (GroupMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(GroupByPhase):
		return GroupByPhase, nil
	case string(GroupNone), "flat":
		return GroupNone, nil
	default:
		return "", fmt.Errorf("unknown group mode %q (want phase or none)", s)
	}
}

// Toggle returns the other mode.
func (m GroupMode) Toggle() GroupMode {
	if m == GroupNone {
		return GroupByPhase
	}
	return GroupNone
}

// AllTasksLabel labels the single bucket of the ungrouped view.
const AllTasksLabel = "All tasks"

// Group is one bucket of visible tasks.
type Group struct {
	Key    string
	Label  string
	Forest Forest
	Tasks  []FlatNode // visible tasks of the bucket, preorder
}

// GroupTasks partitions tasks into ordered buckets and flattens each one.
//
// In phase mode the buckets follow the order of phases, then the
// unclassified bucket; empty buckets are omitted. Each bucket builds its own
// forest, so a child whose parent sits in another phase is a root of its own
// bucket. In GroupNone mode a single bucket holds the whole forest.
func GroupTasks(tasks []model.Task, phases []model.Phase, mode GroupMode, collapsed *CollapseState) []Group {
	if mode == GroupNone {
		forest := BuildForest(tasks)
		return []Group{{
			Key:    model.UnclassifiedKey,
			Label:  AllTasksLabel,
			Forest: forest,
			Tasks:  Flatten(forest.Roots, collapsed),
		}}
	}

	known := make(map[string]bool, len(phases))
	for _, p := range phases {
		known[model.NormalizePhase(p.Key)] = true
	}

	buckets := make(map[string][]model.Task)
	for _, t := range tasks {
		key := t.NormalizedPhase()
		if !known[key] {
			key = model.UnclassifiedKey
		}
		buckets[key] = append(buckets[key], t)
	}

	order := make([]string, 0, len(phases)+1)
	seen := make(map[string]bool, len(phases)+1)
	for _, p := range phases {
		key := model.NormalizePhase(p.Key)
		if key == model.UnclassifiedKey || seen[key] {
			continue
		}
		seen[key] = true
		order = append(order, key)
	}
	order = append(order, model.UnclassifiedKey)

	var groups []Group
	for _, key := range order {
		members, ok := buckets[key]
		if !ok {
			continue
		}
		forest := BuildForest(members)
		groups = append(groups, Group{
			Key:    key,
			Label:  model.PhaseLabel(phases, key),
			Forest: forest,
			Tasks:  Flatten(forest.Roots, collapsed),
		})
	}
	return groups
}
