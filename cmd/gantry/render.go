package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/vanderheijden86/gantry/pkg/export"
)

func newRenderCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print a text Gantt chart",
		Long: `Print the timeline as text, one column per day. On a terminal the chart
is cut to the terminal width around today; use --width 0 for the full span.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}
			_, l, err := s.layout()
			if err != nil {
				return err
			}

			width, _ := cmd.Flags().GetInt("width")
			if !cmd.Flags().Changed("width") {
				width = terminalWidth()
			}
			labelWidth, _ := cmd.Flags().GetInt("label-width")

			return export.RenderText(cmd.OutOrStdout(), l, export.TextOptions{
				Width:        width,
				LabelWidth:   labelWidth,
				ShowWeekends: s.cfg.UI.ShowWeekends,
			})
		},
	}
	cmd.Flags().Int("width", 0, "total columns (default: terminal width, 0 = whole span)")
	cmd.Flags().Int("label-width", 32, "width of the task column")
	return cmd
}

// terminalWidth returns stdout's width, or 0 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
