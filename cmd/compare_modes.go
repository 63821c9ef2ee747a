package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mischadiehm/muka/internal/analyze"
	"github.com/mischadiehm/muka/internal/classify"
	"github.com/mischadiehm/muka/internal/export"
	"github.com/mischadiehm/muka/internal/ingest"
	"github.com/mischadiehm/muka/internal/model"
	"github.com/mischadiehm/muka/pkg/logger"
)

var (
	cmpOutput   string
	cmpNoExport bool
)

var compareModesCmd = &cobra.Command{
	Use:   "compare-modes [file]",
	Short: "Classify the dataset under every indicator mode and compare the outcomes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := cfg.InputPath()
		if len(args) == 1 {
			input = args[0]
		}
		farms, err := ingest.ReadFarms(input, logger.Named(log, "ingest"))
		if err != nil {
			return err
		}

		var runs []export.ModeRun
		for _, mode := range classify.Modes() {
			classifier, err := classify.New(mode, logger.Named(log, "classify"))
			if err != nil {
				return err
			}
			// classify a copy so each mode starts from unassigned farms
			modeFarms := make([]*model.Farm, len(farms))
			for i, f := range farms {
				clone := *f
				clone.Group = nil
				modeFarms[i] = &clone
			}
			result, err := classifier.ClassifyAll(modeFarms)
			if err != nil {
				return err
			}
			a, err := analyze.New(modeFarms, logger.Named(log, "analyze"))
			if err != nil {
				return err
			}
			runs = append(runs, export.ModeRun{
				Mode: string(mode),
				Result: analyze.ModeResult{
					Mode:         string(mode),
					Total:        result.Total,
					Classified:   result.Classified,
					Unclassified: result.Unclassified,
					GroupCounts:  a.GroupCounts(),
				},
				Analyzer: a,
			})
		}

		results := make([]analyze.ModeResult, len(runs))
		for i, run := range runs {
			results[i] = run.Result
		}
		printTable(analyze.ComparisonTable(results))

		if cmpNoExport {
			return nil
		}
		output := cmpOutput
		if output == "" {
			output = filepath.Join(cfg.OutputDir, "mode_comparison.xlsx")
		}
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return fmt.Errorf("mkdir output dir: %w", err)
		}
		exp := export.New(cfg.DecimalPlaces, logger.Named(log, "export"))
		if err := exp.WriteAllModes(output, runs); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", output)
		return nil
	},
}

func printTable(table [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, row := range table {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(compareModesCmd)
	compareModesCmd.Flags().StringVarP(&cmpOutput, "output", "o", "", "workbook path (default <output_dir>/mode_comparison.xlsx)")
	compareModesCmd.Flags().BoolVar(&cmpNoExport, "no-export", false, "print the comparison without writing a workbook")
}
