// Command gantry lays out hierarchical task snapshots as Gantt timelines:
// an interactive two-pane terminal view, plain text, SVG/PNG and Markdown
// reports.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
