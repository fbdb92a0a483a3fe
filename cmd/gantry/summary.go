package main

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vanderheijden86/gantry/pkg/analysis"
	"github.com/vanderheijden86/gantry/pkg/export"
)

func newSummaryCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a per-phase Markdown report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			tasks, err := s.loadTasks()
			if err != nil {
				return err
			}

			title, _ := cmd.Flags().GetString("title")
			var buf bytes.Buffer
			err = export.RenderMarkdown(&buf, tasks, s.cfg.PhaseList(), analysis.Diagnose(tasks), export.MarkdownOptions{
				Title: title,
				Today: s.today,
			})
			if err != nil {
				return err
			}

			raw, _ := cmd.Flags().GetBool("raw")
			if raw || !stdoutIsTerminal() {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			width := terminalWidth()
			if width <= 0 || width > 120 {
				width = 100
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
			out, err := r.Render(buf.String())
			if err != nil {
				return fmt.Errorf("rendering summary: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().Bool("raw", false, "print Markdown without terminal styling")
	cmd.Flags().String("title", "", "report title")
	return cmd
}

func stdoutIsTerminal() bool {
	return terminalWidth() > 0
}
