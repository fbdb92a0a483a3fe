package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/gantry/pkg/model"
)

// AssertTaskCount verifies the number of tasks.
func AssertTaskCount(t *testing.T, tasks []model.Task, expected int) {
	t.Helper()
	if len(tasks) != expected {
		t.Errorf("expected %d tasks, got %d", expected, len(tasks))
	}
}

// AssertNoDuplicateIDs verifies all task ids are unique.
func AssertNoDuplicateIDs(t *testing.T, tasks []model.Task) {
	t.Helper()
	seen := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate task ID: %s", task.ID)
		}
		seen[task.ID] = true
	}
}

// AssertIDs verifies got lists exactly want, in order.
func AssertIDs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("expected ids %v, got %v", want, got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected ids %v, got %v", want, got)
			return
		}
	}
}

// WriteFile writes content to name under dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// WriteTasksJSONL writes tasks as tasks.jsonl under dir and returns the path.
func WriteTasksJSONL(t *testing.T, dir string, tasks []model.Task) string {
	t.Helper()
	return WriteFile(t, dir, "tasks.jsonl", ToJSONL(tasks))
}
