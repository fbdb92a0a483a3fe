package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vanderheijden86/gantry/pkg/debug"
	"github.com/vanderheijden86/gantry/pkg/ui"
	"github.com/vanderheijden86/gantry/pkg/watcher"
)

func newTUICmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive two-pane timeline",
		Long: `Open the terminal timeline: task titles on the left, bars on the right,
scrolled to today. The snapshot is watched and reloaded when it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, v)
		},
	}
	cmd.Flags().Bool("no-watch", false, "do not reload when the snapshot changes")
	cmd.Flags().Bool("poll", false, "watch by polling instead of filesystem events")
	cmd.Flags().String("log-file", "", "write debug logs here while the UI owns the terminal")
	return cmd
}

func runTUI(cmd *cobra.Command, v *viper.Viper) error {
	s, err := loadSettings(v)
	if err != nil {
		return err
	}
	tasks, err := s.loadTasks()
	if err != nil {
		return err
	}

	if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		debug.SetOutput(f)
		debug.SetEnabled(true)
	}

	opts := ui.Options{
		Phases:       s.cfg.PhaseList(),
		Mode:         s.cfg.GroupMode(),
		Today:        s.today,
		ShowWeekends: s.cfg.UI.ShowWeekends,
		Geometry:     s.cfg.Timeline,
		Title:        titleFor(s),
		Collapsed:    s.collapseState(),
		Reload:       s.loadTasks,
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if noWatch, _ := cmd.Flags().GetBool("no-watch"); !noWatch {
		poll, _ := cmd.Flags().GetBool("poll")
		w, err := startWatcher(ctx, s, poll)
		if err != nil {
			debug.Log("tui: watcher disabled: %v", err)
		} else {
			defer w.Stop()
			opts.Watcher = w
		}
	}

	return runTUIProgram(ui.NewModel(tasks, opts))
}

func startWatcher(ctx context.Context, s settings, poll bool) (*watcher.Watcher, error) {
	path, err := s.watchPath()
	if err != nil {
		return nil, err
	}
	w, err := watcher.NewWatcher(path,
		watcher.WithForcePoll(poll),
		watcher.WithOnError(func(err error) { debug.Log("tui: watcher: %v", err) }),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	debug.Log("tui: watching %s (polling=%v every %s, fs=%s)", w.Path(), w.IsPolling(), w.PollInterval(), w.FilesystemType())
	return w, nil
}

func titleFor(s settings) string {
	if s.source != "" {
		return "gantry · " + s.source
	}
	return "gantry"
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM. A second signal kills at once.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}
		quitThenKill(p, runDone, sigCh, 5*time.Second)
	}()

	// Optional auto-quit for scripted runs: set GANTRY_TUI_AUTOCLOSE_MS.
	if after := autocloseAfter(); after > 0 {
		go func() {
			timer := time.NewTimer(after)
			defer timer.Stop()

			select {
			case <-runDone:
				return
			case <-timer.C:
			}
			quitThenKill(p, runDone, nil, 2*time.Second)
		}()
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}

// quitThenKill asks p to quit and kills it if it has not finished within
// grace or when force fires. A nil force channel only waits for grace.
func quitThenKill(p *tea.Program, done <-chan struct{}, force <-chan os.Signal, grace time.Duration) {
	p.Quit()
	select {
	case <-done:
		return
	case <-force:
	case <-time.After(grace):
	}
	p.Kill()
}

func autocloseAfter() time.Duration {
	v := os.Getenv("GANTRY_TUI_AUTOCLOSE_MS")
	if v == "" {
		return 0
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
