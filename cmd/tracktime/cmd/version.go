package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the version of the tracktime tool.
const Version = "v0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tracktime version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tracktime", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
