package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vanderheijden86/gantry/pkg/export"
)

func newExportCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the timeline as an SVG or PNG image",
		Example: `  gantry export -o timeline.svg
  gantry export -o timeline.png --title "Board v2"`,
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

			out, _ := cmd.Flags().GetString("output")
			format, _ := cmd.Flags().GetString("format")
			title, _ := cmd.Flags().GetString("title")

			err = export.SaveSnapshot(export.SnapshotOptions{
				Path:         out,
				Format:       format,
				Title:        title,
				Layout:       l,
				Geometry:     s.cfg.Timeline,
				ShowWeekends: s.cfg.UI.ShowWeekends,
			})
			if err != nil {
				return err
			}
			if format == "" && filepath.Ext(out) == "" {
				out += ".svg"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d rows, %d days)\n", out, len(l.Rows), l.Span.TotalDays)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "output path (.svg or .png)")
	cmd.Flags().String("format", "", "svg or png (default: from the extension)")
	cmd.Flags().String("title", "", "chart title")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
