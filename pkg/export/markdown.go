package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vanderheijden86/gantry/pkg/analysis"
	"github.com/vanderheijden86/gantry/pkg/model"
)

// MarkdownOptions controls RenderMarkdown.
type MarkdownOptions struct {
	Title string
	Today time.Time // zero omits the overdue section
}

// RenderMarkdown writes a phase summary report: one table row per phase,
// the overdue list, and the diagnostics.
func RenderMarkdown(w io.Writer, tasks []model.Task, phases []model.Phase, report analysis.Report, opts MarkdownOptions) error {
	var sb strings.Builder

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Project Timeline"
	}
	sums := analysis.Summary(tasks, phases)
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(title)))
	sb.WriteString(fmt.Sprintf("*%d tasks across %d phases*\n\n", len(tasks), len(sums)))

	sb.WriteString("## Phases\n\n")
	if len(sums) == 0 {
		sb.WriteString("No tasks.\n\n")
	} else {
		sb.WriteString("| Phase | Tasks | Done | Milestones | Critical | Progress | Start | End |\n")
		sb.WriteString("|-------|------:|-----:|-----------:|---------:|---------:|-------|-----|\n")
		for _, s := range sums {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d | %s | %s | %s |\n",
				escapeMarkdown(s.Label), s.Total, s.Completed(), s.Milestones, s.Critical,
				progressBar(s.AvgProgress), fmtDate(s.Start), fmtDate(s.End)))
		}
		sb.WriteString("\n")
	}

	if !opts.Today.IsZero() {
		if late := analysis.Overdue(tasks, opts.Today); len(late) > 0 {
			byID := make(map[string]*model.Task, len(tasks))
			for i := range tasks {
				if _, ok := byID[tasks[i].ID]; !ok {
					byID[tasks[i].ID] = &tasks[i]
				}
			}
			sb.WriteString("## Overdue\n\n")
			for _, id := range late {
				t := byID[id]
				sb.WriteString(fmt.Sprintf("- `%s` %s (due %s, %d%%)\n",
					id, escapeMarkdown(t.Title), fmtDate(t.DueDate), t.Progress))
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("## Diagnostics\n\n")
	if len(report.Findings) == 0 {
		sb.WriteString("No problems found.\n")
	} else {
		for _, f := range report.Findings {
			sb.WriteString(fmt.Sprintf("- **%s** %s: %s\n", f.Severity, escapeMarkdown(string(f.Kind)), escapeMarkdown(f.Message)))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// progressBar renders a percentage as a ten-cell bar.
func progressBar(pct float64) string {
	filled := int(pct/10 + 0.5)
	filled = max(0, min(filled, 10))
	return fmt.Sprintf("%s%s %.0f%%", strings.Repeat("█", filled), strings.Repeat("░", 10-filled), pct)
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

var markdownEscaper = strings.NewReplacer(
	"|", "\\|",
	"*", "\\*",
	"_", "\\_",
	"`", "'",
	"\n", " ",
	"\r", "",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
