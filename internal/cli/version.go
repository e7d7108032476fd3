package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"snapgate/internal/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(_ *cobra.Command, _ []string) {
		info := version.Info()
		fmt.Printf("%s %s (commit %s, built %s)\n", info.Tool, info.Version, info.Commit, info.Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
