package arg

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "twctl",
	Short: "twctl is the command line tool for TabWarden",
	Long: `twctl talks to the TabWarden daemon over D-Bus.
			Use it to inspect per-domain browsing time, export or clear the
			collected data, and render cursor heatmaps.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
