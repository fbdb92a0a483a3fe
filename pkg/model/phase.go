package model

import "strings"

// Phase is a named project stage used for grouping.
type Phase struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Label string `json:"label" yaml:"label" toml:"label"`
}

// UnclassifiedKey is the bucket key for tasks whose phase is empty or not
// among the known phases.
const UnclassifiedKey = ""

// UnclassifiedLabel is the display label of the unclassified bucket.
const UnclassifiedLabel = "Unclassified"

// DefaultPhases returns the hardware product lifecycle stages in order.
func DefaultPhases() []Phase {
	return []Phase{
		{Key: "concept", Label: "Concept"},
		{Key: "evt", Label: "EVT Engineering Validation"},
		{Key: "dvt", Label: "DVT Design Validation"},
		{Key: "pvt", Label: "PVT Production Validation"},
		{Key: "mp", Label: "MP Mass Production"},
	}
}

// NormalizePhase lower-cases and trims a phase key.
func NormalizePhase(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PhaseLabel returns the label for key among phases. Unknown non-empty keys
// are shown upper-cased; the empty key is the unclassified bucket.
func PhaseLabel(phases []Phase, key string) string {
	key = NormalizePhase(key)
	for _, p := range phases {
		if NormalizePhase(p.Key) == key {
			if p.Label != "" {
				return p.Label
			}
			return strings.ToUpper(key)
		}
	}
	if key == UnclassifiedKey {
		return UnclassifiedLabel
	}
	return strings.ToUpper(key)
}
