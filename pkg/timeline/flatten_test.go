package timeline

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/testutil"
)

func scenarioBTasks() []model.Task {
	return []model.Task{task("1", ""), task("2", "1"), task("3", "2")}
}

func TestFlattenCollapseHidesSubtree(t *testing.T) {
	f := BuildForest(scenarioBTasks())
	cs := NewCollapseState()
	cs.ToggleTask("1")

	flat := Flatten(f.Roots, cs)
	testutil.AssertIDs(t, flatIDs(flat), []string{"1"})

	cs.ToggleTask("1")
	flat = Flatten(f.Roots, cs)
	testutil.AssertIDs(t, flatIDs(flat), []string{"1", "2", "3"})
	for i, want := range []int{0, 1, 2} {
		if flat[i].Depth != want {
			t.Errorf("expected depth %d at %d, got %d", want, i, flat[i].Depth)
		}
	}
}

func TestFlattenCollapsedLeafIsNoop(t *testing.T) {
	f := BuildForest(scenarioBTasks())
	cs := NewCollapseState()
	cs.ToggleTask("3")
	if got := len(Flatten(f.Roots, cs)); got != 3 {
		t.Errorf("expected 3 visible rows, got %d", got)
	}
}

func TestFlattenNilCollapseState(t *testing.T) {
	f := BuildForest(testutil.QuickTree(2, 2))
	if got := len(Flatten(f.Roots, nil)); got != 7 {
		t.Errorf("expected 7 rows, got %d", got)
	}
}

func TestFlattenSubForestDepthFromZero(t *testing.T) {
	f := BuildForest(scenarioBTasks())
	flat := Flatten(f.Roots[0].Children, nil)
	if flat[0].Depth != 0 || flat[1].Depth != 1 {
		t.Errorf("expected depths 0,1 got %d,%d", flat[0].Depth, flat[1].Depth)
	}
}

func TestCollapseStateNormalizesPhase(t *testing.T) {
	cs := NewCollapseState()
	cs.TogglePhase(" EVT ")
	if !cs.IsPhaseCollapsed("evt") {
		t.Error("expected evt collapsed")
	}
	cs.TogglePhase("evt")
	if cs.IsPhaseCollapsed("evt") {
		t.Error("expected evt expanded")
	}
}

func TestCollapseStateClone(t *testing.T) {
	cs := NewCollapseState()
	cs.CollapseTasks("a", "b")
	cs.TogglePhase("dvt")
	cp := cs.Clone()
	cp.ExpandTask("a")
	if !cs.IsTaskCollapsed("a") {
		t.Error("expected clone to be independent")
	}
	testutil.AssertIDs(t, cp.CollapsedTasks(), []string{"b"})
	testutil.AssertIDs(t, cp.CollapsedPhases(), []string{"dvt"})
	cs.ExpandAll()
	if len(cs.CollapsedTasks()) != 0 || len(cs.CollapsedPhases()) != 0 {
		t.Error("expected ExpandAll to clear everything")
	}
}

func TestCollapseStateNilSafe(t *testing.T) {
	var cs *CollapseState
	if cs.IsTaskCollapsed("x") || cs.IsPhaseCollapsed("x") {
		t.Error("expected nil state to report nothing collapsed")
	}
}

func TestFlattenStable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := testutil.TasksGen(30, nil).Draw(t, "tasks")
		f := BuildForest(tasks)
		cs := NewCollapseState()
		for _, task := range tasks {
			if rapid.Bool().Draw(t, "collapse") {
				cs.ToggleTask(task.ID)
			}
		}
		a := flatIDs(Flatten(f.Roots, cs))
		b := flatIDs(Flatten(BuildForest(tasks).Roots, cs.Clone()))
		if len(a) != len(b) {
			t.Fatalf("expected stable output, got %d vs %d rows", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("row %d differs: %s vs %s", i, a[i], b[i])
			}
		}
	})
}

func TestCollapseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := testutil.TasksGen(30, nil).Draw(t, "tasks")
		if len(tasks) == 0 {
			return
		}
		f := BuildForest(tasks)
		cs := NewCollapseState()
		before := flatIDs(Flatten(f.Roots, cs))

		id := tasks[rapid.IntRange(0, len(tasks)-1).Draw(t, "pick")].ID
		cs.ToggleTask(id)
		collapsed := Flatten(f.Roots, cs)
		for _, fn := range collapsed {
			for p := fn.Node.Parent; p != nil; p = p.Parent {
				if p.ID() == id {
					t.Fatalf("descendant %s of collapsed %s is visible", fn.Node.ID(), id)
				}
			}
		}
		cs.ToggleTask(id)
		after := flatIDs(Flatten(f.Roots, cs))
		if len(before) != len(after) {
			t.Fatalf("expected round trip to restore %d rows, got %d", len(before), len(after))
		}
	})
}

func TestFlattenDepthMatchesTree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := testutil.TasksGen(30, nil).Draw(t, "tasks")
		f := BuildForest(tasks)
		for _, fn := range Flatten(f.Roots, nil) {
			if fn.Depth != fn.Node.Depth {
				t.Fatalf("flat depth %d != node depth %d for %s", fn.Depth, fn.Node.Depth, fn.Node.ID())
			}
		}
	})
}
