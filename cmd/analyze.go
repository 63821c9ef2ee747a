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
	"github.com/mischadiehm/muka/pkg/logger"
)

var (
	anaMode     string
	anaOutDir   string
	anaNoBOM    bool
	anaNoExport bool
	anaWarn     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Classify a farm CSV and write the classified data and summary workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := cfg.InputPath()
		if len(args) == 1 {
			input = args[0]
		}
		modeStr := cfg.IndicatorMode
		if anaMode != "" {
			modeStr = anaMode
		}
		mode, err := classify.ParseMode(modeStr)
		if err != nil {
			return err
		}

		farms, err := ingest.ReadFarms(input, logger.Named(log, "ingest"))
		if err != nil {
			return err
		}

		classifier, err := classify.New(mode, logger.Named(log, "classify"))
		if err != nil {
			return err
		}
		warn := cfg.WarnUnclassified
		if cmd.Flags().Changed("warn-unclassified") {
			warn = anaWarn
		}
		classifier.SetWarnUnclassified(warn)

		result, err := classifier.ClassifyAll(farms)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Classified %d of %d farms with mode %s (%d unclassified)\n",
			result.Classified, result.Total, mode, result.Unclassified)

		a, err := analyze.New(farms, logger.Named(log, "analyze"))
		if err != nil {
			return err
		}
		printGroupCounts(a)
		printSummary(a)

		if anaNoExport {
			return nil
		}
		outDir := cfg.OutputDir
		if anaOutDir != "" {
			outDir = anaOutDir
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("mkdir output dir: %w", err)
		}

		classifiedPath := filepath.Join(outDir, cfg.ClassifiedOutputFile)
		if err := ingest.WriteClassified(classifiedPath, farms, !anaNoBOM); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", classifiedPath)

		summaryPath := filepath.Join(outDir, cfg.SummaryOutputFile)
		exp := export.New(cfg.DecimalPlaces, logger.Named(log, "export"))
		if err := exp.WriteSummary(summaryPath, string(mode), a); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", summaryPath)
		return nil
	},
}

func printGroupCounts(a *analyze.Analyzer) {
	counts := a.GroupCounts()
	total := a.Total()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tFARMS\tSHARE")
	for _, label := range a.GroupLabels() {
		n := counts[label]
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", label, n, float64(n)/float64(total)*100)
	}
	w.Flush()
	fmt.Println()
}

func printSummary(a *analyze.Analyzer) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tFARMS\tANIMALS (mean/median)\tDAIRY YEARS (mean)\tENTRIES (mean)")
	for _, row := range a.Summary() {
		fmt.Fprintf(w, "%s\t%d\t%.*f / %.*f\t%.*f\t%.*f\n",
			row.Group, row.Count,
			cfg.DecimalPlaces, row.AnimalsMean, cfg.DecimalPlaces, row.AnimalsMedian,
			cfg.DecimalPlaces, row.DairyYearsMean,
			cfg.DecimalPlaces, row.EntriesMean)
	}
	w.Flush()
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaMode, "mode", "m", "", "indicator mode (default from config)")
	analyzeCmd.Flags().StringVarP(&anaOutDir, "output-dir", "o", "", "output directory (default from config)")
	analyzeCmd.Flags().BoolVar(&anaNoBOM, "no-bom", false, "omit the UTF-8 BOM in the classified CSV")
	analyzeCmd.Flags().BoolVar(&anaNoExport, "no-export", false, "print results without writing files")
	analyzeCmd.Flags().BoolVar(&anaWarn, "warn-unclassified", false, "log a warning for every unclassified farm")
}
