package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vanderheijden86/gantry/internal/datasource"
	"github.com/vanderheijden86/gantry/pkg/analysis"
	"github.com/vanderheijden86/gantry/pkg/loader"
	"github.com/vanderheijden86/gantry/pkg/metrics"
)

// errCycles makes `gantry check` exit non-zero when the hierarchy loops.
type errCycles struct{ n int }

func (e errCycles) Error() string {
	return fmt.Sprintf("%d parent cycle(s) found", e.n)
}

// checkOutput is the --json document.
type checkOutput struct {
	analysis.Report
	Sources []datasource.SourceDiff `json:"source_diffs,omitempty"`
	Timings []metrics.TimingStats   `json:"timings,omitempty"`
}

func newCheckCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report orphans, cycles and other hierarchy problems",
		Long: `Inspect the snapshot for data problems the timeline tolerates silently:
dangling parents, parent loops, duplicate ids, undated tasks, inverted date
ranges and progress outside 0-100. Exits 1 when the hierarchy has cycles.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			tasks, err := s.loadTasks()
			if err != nil {
				return err
			}

			out := checkOutput{Report: analysis.Diagnose(tasks)}

			if compare, _ := cmd.Flags().GetBool("sources"); compare {
				diffs, err := compareSources(s)
				if err != nil {
					return err
				}
				out.Sources = diffs
			}
			if timings, _ := cmd.Flags().GetBool("timings"); timings {
				out.Timings = metrics.AllStats()
			}

			w := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			} else {
				writeCheck(w, out)
			}

			if out.HasCycles() {
				return errCycles{n: out.Count(analysis.KindCycle) + out.Count(analysis.KindSelfParent)}
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the report as JSON")
	cmd.Flags().Bool("sources", false, "compare every snapshot found in the directory")
	cmd.Flags().Bool("timings", false, "append timing metrics")
	return cmd
}

func compareSources(s settings) ([]datasource.SourceDiff, error) {
	dir := s.source
	if dir == "" {
		var err error
		if dir, err = loader.GetTasksDir(""); err != nil {
			return nil, err
		}
	} else if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	sources, err := datasource.DiscoverSources(datasource.DiscoveryOptions{
		Dir:                    dir,
		Project:                s.project,
		ValidateAfterDiscovery: true,
	})
	if err != nil {
		return nil, err
	}
	return datasource.CheckAllSourcesConsistent(sources, s.project, datasource.DefaultDiffOptions()), nil
}

func writeCheck(w io.Writer, out checkOutput) {
	if len(out.Findings) == 0 {
		fmt.Fprintf(w, "✓ %d tasks, no problems found\n", out.TaskCount)
	} else {
		fmt.Fprintf(w, "%d tasks, %d finding(s)\n\n", out.TaskCount, len(out.Findings))
		for _, f := range out.Findings {
			fmt.Fprintf(w, "  %-7s %-15s %s\n", f.Severity, f.Kind, f.Message)
		}
	}

	for _, d := range out.Sources {
		fmt.Fprintf(w, "\n%s\n", d.Summary())
	}

	if len(out.Timings) > 0 {
		fmt.Fprintf(w, "\nTimings\n%s\n", strings.Repeat("─", 40))
		for _, t := range out.Timings {
			fmt.Fprintf(w, "  %-16s n=%-5d avg=%.3fms max=%.3fms\n", t.Name, t.Count, t.AvgMs, t.MaxMs)
		}
	}
}
