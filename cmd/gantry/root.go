package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vanderheijden86/gantry/internal/datasource"
	"github.com/vanderheijden86/gantry/pkg/config"
	"github.com/vanderheijden86/gantry/pkg/debug"
	"github.com/vanderheijden86/gantry/pkg/loader"
	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/timeline"
)

// Persistent flag names, also the viper keys.
const (
	flagConfig   = "config"
	flagFile     = "file"
	flagGroupBy  = "group-by"
	flagProject  = "project"
	flagToday    = "today"
	flagCollapse = "collapse"
	flagVerbose  = "verbose"
)

// settings is everything a subcommand needs after flags, environment and
// the config file have been merged.
type settings struct {
	cfg      config.Config
	source   string // snapshot file or directory; "" searches GANTRY_DIR or cwd
	project  string
	today    time.Time
	collapse []string
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "gantry",
		Short:         "Hierarchical Gantt timelines for task snapshots",
		Long:          "Gantry groups tasks by lifecycle phase, nests subtasks under their parents and lays them out on a calendar.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if v.GetBool(flagVerbose) {
				debug.SetEnabled(true)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Open the UI when a snapshot is at hand; otherwise show help.
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			if s.source == "" {
				dir, err := loader.GetTasksDir("")
				if err != nil {
					return cmd.Help()
				}
				sources, _ := datasource.DiscoverSources(datasource.DiscoveryOptions{Dir: dir})
				if len(sources) == 0 {
					return cmd.Help()
				}
			}
			return runTUI(cmd, v)
		},
	}

	pf := root.PersistentFlags()
	pf.String(flagConfig, "", "config file (default ~/.config/gantry/config.yaml)")
	pf.StringP(flagFile, "f", "", "snapshot file or directory (default $GANTRY_DIR or cwd)")
	pf.String(flagGroupBy, "", "grouping: phase or none (overrides config)")
	pf.String(flagProject, "", "project_id filter for SQLite snapshots")
	pf.String(flagToday, "", "date treated as today, YYYY-MM-DD")
	pf.StringSlice(flagCollapse, nil, "task ids or phase:<key> entries to start collapsed")
	pf.BoolP(flagVerbose, "v", false, "debug logging to stderr")
	_ = v.BindPFlags(pf)

	v.SetEnvPrefix("GANTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newTUICmd(v),
		newRenderCmd(v),
		newExportCmd(v),
		newSummaryCmd(v),
		newCheckCmd(v),
		newInitCmd(v),
		newVersionCmd(),
	)
	return root
}

// loadSettings merges the config file with flag and environment overrides.
func loadSettings(v *viper.Viper) (settings, error) {
	path := v.GetString(flagConfig)
	if path == "" {
		path = config.ConfigPath()
	}
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadFrom(path)
		if err != nil {
			return settings{}, err
		}
	}
	if g := v.GetString(flagGroupBy); g != "" {
		cfg.UI.GroupBy = g
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, err
	}

	s := settings{
		cfg:      cfg,
		source:   v.GetString(flagFile),
		project:  v.GetString(flagProject),
		today:    time.Now(),
		collapse: v.GetStringSlice(flagCollapse),
	}
	if raw := v.GetString(flagToday); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			return settings{}, fmt.Errorf("invalid --today: %w", err)
		}
		if d == nil {
			return settings{}, fmt.Errorf("invalid --today %q", raw)
		}
		s.today = *d
	}
	debug.Log("settings: config=%s source=%q group=%s today=%s", path, s.source, cfg.UI.GroupBy, s.today.Format("2006-01-02"))
	return s, nil
}

func (s settings) loadTasks() ([]model.Task, error) {
	return datasource.LoadTasks(s.source, s.project)
}

// collapseState seeds collapse state from --collapse entries.
func (s settings) collapseState() *timeline.CollapseState {
	c := timeline.NewCollapseState()
	for _, entry := range s.collapse {
		entry = strings.TrimSpace(entry)
		if key, ok := strings.CutPrefix(entry, "phase:"); ok {
			if !c.IsPhaseCollapsed(key) {
				c.TogglePhase(key)
			}
			continue
		}
		if entry != "" {
			c.CollapseTasks(entry)
		}
	}
	return c
}

func (s settings) layoutOptions() timeline.Options {
	return timeline.Options{Phases: s.cfg.PhaseList(), Mode: s.cfg.GroupMode()}
}

// layout loads the snapshot and computes its layout.
func (s settings) layout() ([]model.Task, timeline.Layout, error) {
	tasks, err := s.loadTasks()
	if err != nil {
		return nil, timeline.Layout{}, err
	}
	return tasks, timeline.Compute(tasks, s.layoutOptions(), s.collapseState(), s.today), nil
}

// watchPath returns what the watcher should follow for this source.
func (s settings) watchPath() (string, error) {
	if s.source != "" {
		return s.source, nil
	}
	return loader.GetTasksDir("")
}
