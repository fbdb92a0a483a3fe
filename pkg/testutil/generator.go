// Package testutil provides task fixtures for the timeline packages.
// Generators are deterministic for a given seed.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/gantry/pkg/model"
)

// ForestFixture is an abstract parent graph. Edges are [child, parent]
// index pairs; a node has at most one outgoing edge.
type ForestFixture struct {
	Description string   `json:"description"`
	Nodes       []string `json:"nodes"`
	Edges       [][2]int `json:"edges"`
	Properties  Properties
}

// Properties holds what the fixture is known to contain.
type Properties struct {
	HasCycles     bool
	Roots         int // roots after cycle breaking; -1 when unknown
	ExpectedDepth int
}

// GeneratorConfig controls task generation.
type GeneratorConfig struct {
	Seed      int64     // 0 = time-based
	IDPrefix  string    // default "T"
	BaseDate  time.Time // default 2024-01-01
	Phases    []string  // phase keys to draw from; nil = all unphased
	DateMix   float64   // probability a task has dates (default 1)
	Milestone float64   // probability a task is a milestone
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		IDPrefix: "T",
		BaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateMix:  1,
	}
}

// Generator produces fixtures from a seeded source.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "T"
	}
	if cfg.BaseDate.IsZero() {
		cfg.BaseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Chain links n0 <- n1 <- ... so each node is the child of the previous one.
func (g *Generator) Chain(size int) ForestFixture {
	nodes := names("n", size)
	var edges [][2]int
	for i := 1; i < size; i++ {
		edges = append(edges, [2]int{i, i - 1})
	}
	return ForestFixture{
		Description: fmt.Sprintf("chain of %d", size),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{Roots: min(size, 1), ExpectedDepth: max(size-1, 0)},
	}
}

// Star hangs spokes children under one root.
func (g *Generator) Star(spokes int) ForestFixture {
	nodes := append([]string{"hub"}, names("s", spokes)...)
	var edges [][2]int
	for i := 1; i <= spokes; i++ {
		edges = append(edges, [2]int{i, 0})
	}
	depth := 0
	if spokes > 0 {
		depth = 1
	}
	return ForestFixture{
		Description: fmt.Sprintf("star with %d spokes", spokes),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{Roots: 1, ExpectedDepth: depth},
	}
}

// Tree builds a complete tree of the given depth and breadth.
func (g *Generator) Tree(depth, breadth int) ForestFixture {
	nodes := []string{"r"}
	var edges [][2]int
	level := []int{0}
	for d := 1; d <= depth; d++ {
		var next []int
		for _, p := range level {
			for b := 0; b < breadth; b++ {
				idx := len(nodes)
				nodes = append(nodes, fmt.Sprintf("%s.%d", nodes[p], b))
				edges = append(edges, [2]int{idx, p})
				next = append(next, idx)
			}
		}
		level = next
	}
	return ForestFixture{
		Description: fmt.Sprintf("tree depth %d breadth %d", depth, breadth),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{Roots: 1, ExpectedDepth: depth},
	}
}

// Cycle links size nodes into a single parent loop.
func (g *Generator) Cycle(size int) ForestFixture {
	nodes := names("c", size)
	var edges [][2]int
	for i := 0; i < size; i++ {
		edges = append(edges, [2]int{i, (i + 1) % size})
	}
	return ForestFixture{
		Description: fmt.Sprintf("parent loop of %d", size),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{HasCycles: true, Roots: 1, ExpectedDepth: max(size-1, 0)},
	}
}

// RandomForest picks, for each node, either no parent or a random other
// node. Cycles are possible.
func (g *Generator) RandomForest(size int, linkProb float64) ForestFixture {
	nodes := names("r", size)
	var edges [][2]int
	for i := 0; i < size; i++ {
		if size > 1 && g.rng.Float64() < linkProb {
			p := g.rng.Intn(size)
			if p != i {
				edges = append(edges, [2]int{i, p})
			}
		}
	}
	return ForestFixture{
		Description: fmt.Sprintf("random forest of %d", size),
		Nodes:       nodes,
		Edges:       edges,
		Properties:  Properties{Roots: -1, ExpectedDepth: -1},
	}
}

// ToTasks converts a fixture to tasks, in node order.
func (g *Generator) ToTasks(ff ForestFixture) []model.Task {
	parent := make(map[int]int, len(ff.Edges))
	for _, e := range ff.Edges {
		parent[e[0]] = e[1]
	}
	tasks := make([]model.Task, len(ff.Nodes))
	for i, name := range ff.Nodes {
		t := model.Task{
			ID:       g.id(name),
			Title:    "Task " + name,
			Kind:     model.KindTask,
			Status:   model.KnownStatuses[g.rng.Intn(len(model.KnownStatuses))],
			Progress: g.rng.Intn(101),
		}
		if p, ok := parent[i]; ok {
			t.ParentID = g.id(ff.Nodes[p])
			t.Kind = model.KindSubtask
		}
		if len(g.cfg.Phases) > 0 {
			t.Phase = g.cfg.Phases[g.rng.Intn(len(g.cfg.Phases))]
		}
		if g.rng.Float64() < g.cfg.DateMix {
			start := g.cfg.BaseDate.AddDate(0, 0, g.rng.Intn(120)-30)
			due := start.AddDate(0, 0, g.rng.Intn(21))
			t.StartDate, t.DueDate = &start, &due
		}
		if g.rng.Float64() < g.cfg.Milestone {
			t.Kind = model.KindMilestone
		}
		tasks[i] = t
	}
	return tasks
}

func (g *Generator) id(name string) string {
	return g.cfg.IDPrefix + "-" + name
}

func names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

// ToJSONL renders tasks one JSON object per line.
func ToJSONL(tasks []model.Task) string {
	var sb strings.Builder
	for _, t := range tasks {
		data, err := json.Marshal(t)
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// QuickChain creates a chain of tasks with default settings.
func QuickChain(size int) []model.Task {
	g := NewDefault()
	return g.ToTasks(g.Chain(size))
}

// QuickTree creates a tree of tasks with default settings.
func QuickTree(depth, breadth int) []model.Task {
	g := NewDefault()
	return g.ToTasks(g.Tree(depth, breadth))
}

// QuickCycle creates a parent loop with default settings.
func QuickCycle(size int) []model.Task {
	g := NewDefault()
	return g.ToTasks(g.Cycle(size))
}

// QuickPhased creates a random forest spread over the default phases.
func QuickPhased(size int) []model.Task {
	cfg := DefaultConfig()
	for _, p := range model.DefaultPhases() {
		cfg.Phases = append(cfg.Phases, p.Key)
	}
	cfg.Phases = append(cfg.Phases, "")
	g := New(cfg)
	return g.ToTasks(g.RandomForest(size, 0.6))
}
