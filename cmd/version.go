package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mischadiehm/muka/internal/classify"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and supported indicator modes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("muka %s\n", Version)
		fmt.Print("modes:")
		for _, mode := range classify.Modes() {
			fmt.Printf(" %s", mode)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
