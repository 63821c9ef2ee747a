package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mischadiehm/muka/internal/ingest"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a farm CSV against the input contract without running the pipeline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := cfg.InputPath()
		if len(args) == 1 {
			input = args[0]
		}

		report, err := ingest.ValidateFile(input)
		if err != nil {
			return err
		}

		fmt.Printf("Checked %d rows in %s\n", report.Rows, report.Path)
		for _, w := range report.Warnings {
			fmt.Printf("⚠ %s\n", w)
		}
		for _, e := range report.Errors {
			fmt.Printf("✗ %s\n", e)
		}
		if !report.Valid() {
			return fmt.Errorf("%d validation errors", len(report.Errors))
		}
		fmt.Println("✓ File is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
