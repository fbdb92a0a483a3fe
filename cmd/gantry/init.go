package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/vanderheijden86/gantry/pkg/config"
	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/timeline"
)

// wizardAnswers holds the raw form values of `gantry init`.
type wizardAnswers struct {
	GroupBy      string
	ShowWeekends bool
	Phases       string // comma-separated keys; "key=Label" sets a label
	DayWidth     string
	ScrollLead   string
}

func newInitCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file interactively",
		Long: `Ask for grouping, phases and chart geometry, then write config.yaml
(or config.toml when --config names a .toml file).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := v.GetString(flagConfig)
			if path == "" {
				path = config.ConfigPath()
			}
			if path == "" {
				return fmt.Errorf("cannot determine config directory; pass --config")
			}

			current, err := config.LoadFrom(path)
			if err != nil {
				return err
			}
			answers := answersFrom(current)

			if yes, _ := cmd.Flags().GetBool("defaults"); !yes {
				if err := newForm(wizardGroups(&answers)...).Run(); err != nil {
					return err
				}
			}

			cfg, err := applyAnswers(current, answers)
			if err != nil {
				return err
			}
			if err := config.SaveTo(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("defaults", false, "write the current values without asking")
	return cmd
}

// newForm creates a form with settings based on TTY detection.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		form = form.WithAccessible(true)
	}
	return form
}

func wizardGroups(a *wizardAnswers) []*huh.Group {
	return []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Group rows by").
				Options(
					huh.NewOption("Lifecycle phase", string(timeline.GroupByPhase)),
					huh.NewOption("Nothing (one tree)", string(timeline.GroupNone)),
				).
				Value(&a.GroupBy),
			huh.NewConfirm().
				Title("Shade weekends?").
				Value(&a.ShowWeekends),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Phases, in order").
				Description("Comma-separated keys; write key=Label to rename one").
				Value(&a.Phases).
				Validate(func(s string) error {
					_, err := parsePhases(s)
					return err
				}),
			huh.NewInput().
				Title("Day width (px)").
				Value(&a.DayWidth).
				Validate(positiveInt),
			huh.NewInput().
				Title("Scroll lead before today (px)").
				Value(&a.ScrollLead).
				Validate(nonNegativeInt),
		),
	}
}

func answersFrom(cfg config.Config) wizardAnswers {
	var phases []string
	for _, p := range cfg.PhaseList() {
		phases = append(phases, p.Key+"="+p.Label)
	}
	return wizardAnswers{
		GroupBy:      string(cfg.GroupMode()),
		ShowWeekends: cfg.UI.ShowWeekends,
		Phases:       strings.Join(phases, ", "),
		DayWidth:     strconv.Itoa(cfg.Timeline.DayWidth),
		ScrollLead:   strconv.Itoa(cfg.Timeline.ScrollLead),
	}
}

// applyAnswers folds the form values into cfg and validates the result.
// Phases equal to the built-in lifecycle are not written out.
func applyAnswers(cfg config.Config, a wizardAnswers) (config.Config, error) {
	phases, err := parsePhases(a.Phases)
	if err != nil {
		return cfg, err
	}
	dayWidth, err := strconv.Atoi(strings.TrimSpace(a.DayWidth))
	if err != nil {
		return cfg, fmt.Errorf("day width: %w", err)
	}
	lead, err := strconv.Atoi(strings.TrimSpace(a.ScrollLead))
	if err != nil {
		return cfg, fmt.Errorf("scroll lead: %w", err)
	}

	cfg.UI.GroupBy = a.GroupBy
	cfg.UI.ShowWeekends = a.ShowWeekends
	cfg.Timeline.DayWidth = dayWidth
	cfg.Timeline.ScrollLead = lead
	cfg.Phases = nil
	if !samePhases(phases, model.DefaultPhases()) {
		cfg.Phases = phases
	}
	return cfg, cfg.Validate()
}

func parsePhases(s string) ([]config.PhaseConfig, error) {
	var out []config.PhaseConfig
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, label, _ := strings.Cut(part, "=")
		key = model.NormalizePhase(key)
		if key == "" {
			return nil, fmt.Errorf("phase %q has an empty key", part)
		}
		if seen[key] {
			return nil, fmt.Errorf("phase %q listed twice", key)
		}
		seen[key] = true
		out = append(out, config.PhaseConfig{Key: key, Label: strings.TrimSpace(label)})
	}
	return out, nil
}

func samePhases(got []config.PhaseConfig, want []model.Phase) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i].Key != want[i].Key || (got[i].Label != "" && got[i].Label != want[i].Label) {
			return false
		}
	}
	return true
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number, 0 or more")
	}
	return nil
}
