// Package export writes analysis results as Excel workbooks.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mischadiehm/muka/internal/analyze"
	"github.com/mischadiehm/muka/internal/ingest"
	"github.com/mischadiehm/muka/internal/model"
)

// Exporter renders analyzer output into xlsx workbooks.
type Exporter struct {
	decimals int
	logger   *zap.Logger
}

// New builds an exporter rounding floats to the given number of decimals.
func New(decimals int, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{decimals: decimals, logger: logger}
}

// sheetTag shortens a mode name so sheet names stay inside Excel's 31
// character limit ("6-indicators-flex" -> "6-flex").
func sheetTag(mode string) string {
	return strings.ReplaceAll(mode, "-indicators", "")
}

// ModeRun bundles one classification pass for the all-modes workbook.
type ModeRun struct {
	Mode     string
	Result   analyze.ModeResult
	Analyzer *analyze.Analyzer
}

// WriteSummary writes the single-mode workbook: the summary projection, the
// full per-group field statistics, and the group counts.
func (e *Exporter) WriteSummary(path, mode string, a *analyze.Analyzer) error {
	f := excelize.NewFile()
	defer f.Close()

	tag := sheetTag(mode)
	if err := e.summarySheet(f, "Summary_"+tag, a); err != nil {
		return err
	}
	if err := e.detailedStatsSheet(f, "Detailed_Stats_"+tag, a); err != nil {
		return err
	}
	if err := e.groupCountsSheet(f, "Counts_"+tag, a); err != nil {
		return err
	}
	if err := finalize(f, "Summary_"+tag); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	e.logger.Info("summary workbook written",
		zap.String("path", path), zap.String("mode", mode))
	return nil
}

// WriteAllModes writes the cross-mode workbook: one comparison sheet plus
// data, summary and counts sheets per mode.
func (e *Exporter) WriteAllModes(path string, runs []ModeRun) error {
	if len(runs) == 0 {
		return fmt.Errorf("no mode runs to export")
	}
	f := excelize.NewFile()
	defer f.Close()

	results := make([]analyze.ModeResult, len(runs))
	for i, run := range runs {
		results[i] = run.Result
	}
	if err := e.comparisonSheet(f, analyze.ComparisonTable(results)); err != nil {
		return err
	}

	for _, run := range runs {
		tag := sheetTag(run.Mode)
		if err := e.dataSheet(f, "Data_"+tag, run.Analyzer.Farms()); err != nil {
			return err
		}
		if err := e.summarySheet(f, "Summary_"+tag, run.Analyzer); err != nil {
			return err
		}
		if err := e.groupCountsSheet(f, "Counts_"+tag, run.Analyzer); err != nil {
			return err
		}
	}

	if err := finalize(f, "Comparison_Summary"); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	e.logger.Info("all-modes workbook written",
		zap.String("path", path), zap.Int("modes", len(runs)))
	return nil
}

func (e *Exporter) summarySheet(f *excelize.File, name string, a *analyze.Analyzer) error {
	header := analyze.SummaryHeader()
	rows := make([][]interface{}, 0, len(model.Groups())+1)
	for _, row := range a.Summary() {
		cells := row.Values()
		for i, v := range cells {
			if fv, ok := v.(float64); ok {
				cells[i] = e.round(fv)
			}
		}
		rows = append(rows, cells)
	}
	return writeSheet(f, name, toCells(header), rows)
}

func (e *Exporter) detailedStatsSheet(f *excelize.File, name string, a *analyze.Analyzer) error {
	header := []string{"group", "field", "count", "min", "max", "mean", "median"}
	var rows [][]interface{}
	for _, gs := range a.GroupStatistics(nil) {
		for _, field := range model.NumericFields {
			fs, ok := gs.Fields[field.Name]
			if !ok {
				continue
			}
			rows = append(rows, []interface{}{
				gs.Group, field.Name, fs.Count,
				e.round(fs.Min), e.round(fs.Max),
				e.round(fs.Mean), e.round(fs.Median),
			})
		}
	}
	return writeSheet(f, name, toCells(header), rows)
}

func (e *Exporter) groupCountsSheet(f *excelize.File, name string, a *analyze.Analyzer) error {
	header := []string{"group", "count", "percentage"}
	counts := a.GroupCounts()
	total := a.Total()
	var rows [][]interface{}
	for _, label := range a.GroupLabels() {
		n := counts[label]
		rows = append(rows, []interface{}{
			label, n, e.round(float64(n) / float64(total) * 100),
		})
	}
	return writeSheet(f, name, toCells(header), rows)
}

func (e *Exporter) dataSheet(f *excelize.File, name string, farms []*model.Farm) error {
	rows := make([][]interface{}, 0, len(farms))
	for _, farm := range farms {
		rows = append(rows, toCells(ingest.FarmRecord(farm)))
	}
	return writeSheet(f, name, toCells(ingest.OutputColumns()), rows)
}

func (e *Exporter) comparisonSheet(f *excelize.File, table [][]string) error {
	if len(table) == 0 {
		return fmt.Errorf("empty comparison table")
	}
	rows := make([][]interface{}, 0, len(table)-1)
	for _, row := range table[1:] {
		rows = append(rows, toCells(row))
	}
	return writeSheet(f, "Comparison_Summary", toCells(table[0]), rows)
}

func (e *Exporter) round(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	scale := math.Pow(10, float64(e.decimals))
	return math.Round(v*scale) / scale
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// writeSheet creates a sheet and fills it row by row, header first.
func writeSheet(f *excelize.File, name string, header []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	all := append([][]interface{}{header}, rows...)
	for r, row := range all {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("sheet %s cell %s: %w", name, cell, err)
			}
		}
	}
	return nil
}

// finalize drops the implicit default sheet and activates the lead sheet.
func finalize(f *excelize.File, active string) error {
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(active)
	if err != nil {
		return fmt.Errorf("locate sheet %s: %w", active, err)
	}
	f.SetActiveSheet(idx)
	return nil
}
