package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/mischadiehm/muka/internal/config"
	"github.com/mischadiehm/muka/pkg/logger"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// Loaded configuration and logger, shared by all subcommands
	cfg *cfgpkg.Global
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "muka",
	Short: "Classify cattle farms into husbandry groups and analyze them",
	Long: `muka classifies cattle farms into six husbandry groups (Muku, Muku_Amme,
Milchvieh, BKMmZ, BKMoZ, IKM) from six binary indicators, using an ordered
profile table with five selectable indicator modes. It aggregates per-group
statistics, exports CSV and Excel reports, and can serve the analysis as a
tool-calling HTTP API.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(initRuntime)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
	if log != nil {
		_ = log.Sync()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./muka.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

func initRuntime() {
	log = logger.Must(logger.New(verbose))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so read-only commands still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c, _ = cfgpkg.Load("")
	}
	cfg = c
}
