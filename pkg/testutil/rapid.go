package testutil

import (
	"fmt"
	"time"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/gantry/pkg/model"
)

// RapidBase is the anchor date of generated task dates.
var RapidBase = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// TasksGen draws task lists of up to maxLen tasks with unique ids. Parent
// references may point at any id, an unknown id, or nothing, so orphans and
// cycles show up regularly. Phases are drawn from phases plus "" and one
// unknown key.
func TasksGen(maxLen int, phases []string) *rapid.Generator[[]model.Task] {
	return rapid.Custom(func(t *rapid.T) []model.Task {
		n := rapid.IntRange(0, maxLen).Draw(t, "n")
		phasePool := append([]string{"", "zz-unknown"}, phases...)
		tasks := make([]model.Task, n)
		for i := range tasks {
			task := model.Task{
				ID:       fmt.Sprintf("t%d", i),
				Title:    fmt.Sprintf("Task %d", i),
				Kind:     rapid.SampledFrom([]model.TaskKind{model.KindTask, model.KindSubtask, model.KindMilestone}).Draw(t, "kind"),
				Progress: rapid.IntRange(0, 100).Draw(t, "progress"),
				Phase:    rapid.SampledFrom(phasePool).Draw(t, "phase"),
			}
			switch rapid.IntRange(0, 3).Draw(t, "parentKind") {
			case 1, 2:
				if n > 0 {
					task.ParentID = fmt.Sprintf("t%d", rapid.IntRange(0, n-1).Draw(t, "parent"))
				}
			case 3:
				task.ParentID = "missing"
			}
			if rapid.Bool().Draw(t, "hasStart") {
				d := RapidBase.AddDate(0, 0, rapid.IntRange(-400, 400).Draw(t, "start"))
				task.StartDate = &d
			}
			if rapid.Bool().Draw(t, "hasDue") {
				base := RapidBase
				if task.StartDate != nil {
					base = *task.StartDate
				}
				d := base.AddDate(0, 0, rapid.IntRange(-5, 60).Draw(t, "due"))
				task.DueDate = &d
			}
			tasks[i] = task
		}
		return tasks
	})
}

// DateGen draws civil dates within a few years of RapidBase.
func DateGen() *rapid.Generator[time.Time] {
	return rapid.Custom(func(t *rapid.T) time.Time {
		return RapidBase.AddDate(0, 0, rapid.IntRange(-1500, 1500).Draw(t, "days"))
	})
}
