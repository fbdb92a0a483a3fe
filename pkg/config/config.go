// Package config handles loading and saving gantry configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/gantry/config.yaml (or config.toml)
//   - State:   ~/.local/state/gantry/ (collapse state between sessions)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/timeline"
)

const appName = "gantry"

// PhaseConfig names one phase bucket, in display order.
type PhaseConfig struct {
	Key   string `yaml:"key" toml:"key" mapstructure:"key"`
	Label string `yaml:"label,omitempty" toml:"label,omitempty" mapstructure:"label"`
}

// TimelineConfig holds the geometry of the rendered chart, in pixels.
type TimelineConfig struct {
	DayWidth       int `yaml:"day_width" toml:"day_width" mapstructure:"day_width"`
	RowHeight      int `yaml:"row_height" toml:"row_height" mapstructure:"row_height"`
	HeaderHeight   int `yaml:"header_height" toml:"header_height" mapstructure:"header_height"`
	LeftPanelWidth int `yaml:"left_panel_width" toml:"left_panel_width" mapstructure:"left_panel_width"`
	ScrollLead     int `yaml:"scroll_lead" toml:"scroll_lead" mapstructure:"scroll_lead"`
}

// UIConfig holds presentation preferences.
type UIConfig struct {
	GroupBy      string `yaml:"group_by" toml:"group_by" mapstructure:"group_by"` // phase, none
	ShowWeekends bool   `yaml:"show_weekends" toml:"show_weekends" mapstructure:"show_weekends"`
}

// Config is the top-level configuration.
type Config struct {
	Phases   []PhaseConfig  `yaml:"phases,omitempty" toml:"phases,omitempty" mapstructure:"phases"`
	Timeline TimelineConfig `yaml:"timeline" toml:"timeline" mapstructure:"timeline"`
	UI       UIConfig       `yaml:"ui" toml:"ui" mapstructure:"ui"`
}

// DefaultConfig returns a Config with the stock chart geometry.
func DefaultConfig() Config {
	return Config{
		Timeline: TimelineConfig{
			DayWidth:       28,
			RowHeight:      36,
			HeaderHeight:   50,
			LeftPanelWidth: 480,
			ScrollLead:     200,
		},
		UI: UIConfig{
			GroupBy:      string(timeline.GroupByPhase),
			ShowWeekends: true,
		},
	}
}

// ConfigDir returns the XDG config directory for gantry.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for gantry.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the config file path. config.toml is used when it
// exists, config.yaml otherwise.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	if tomlPath := filepath.Join(dir, "config.toml"); fileExists(tomlPath) {
		return tomlPath
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Missing files yield
// DefaultConfig; missing keys keep their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// SaveTo writes cfg to path in the format its extension selects.
func SaveTo(cfg Config, path string) error {
	path = expandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Save writes cfg to the XDG config path.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return errors.New("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	sizes := []struct {
		name string
		v    int
	}{
		{"timeline.day_width", c.Timeline.DayWidth},
		{"timeline.row_height", c.Timeline.RowHeight},
		{"timeline.header_height", c.Timeline.HeaderHeight},
		{"timeline.left_panel_width", c.Timeline.LeftPanelWidth},
	}
	for _, s := range sizes {
		if s.v <= 0 {
			return fmt.Errorf("invalid config: %s must be positive, got %d", s.name, s.v)
		}
	}
	if c.Timeline.ScrollLead < 0 {
		return fmt.Errorf("invalid config: timeline.scroll_lead must not be negative, got %d", c.Timeline.ScrollLead)
	}
	if _, err := timeline.ParseGroupMode(c.UI.GroupBy); err != nil {
		return fmt.Errorf("invalid config: ui.group_by: %w", err)
	}
	seen := make(map[string]bool, len(c.Phases))
	for i, p := range c.Phases {
		key := model.NormalizePhase(p.Key)
		if key == "" {
			return fmt.Errorf("invalid config: phases[%d] has an empty key", i)
		}
		if seen[key] {
			return fmt.Errorf("invalid config: phase %q listed twice", key)
		}
		seen[key] = true
	}
	return nil
}

// PhaseList returns the configured phases, or the default lifecycle when
// none are configured.
func (c Config) PhaseList() []model.Phase {
	if len(c.Phases) == 0 {
		return model.DefaultPhases()
	}
	out := make([]model.Phase, len(c.Phases))
	for i, p := range c.Phases {
		out[i] = model.Phase{Key: model.NormalizePhase(p.Key), Label: p.Label}
	}
	return out
}

// GroupMode returns the parsed grouping mode, falling back to phase.
func (c Config) GroupMode() timeline.GroupMode {
	m, err := timeline.ParseGroupMode(c.UI.GroupBy)
	if err != nil {
		return timeline.GroupByPhase
	}
	return m
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
