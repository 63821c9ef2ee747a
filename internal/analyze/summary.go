package analyze

import (
	"fmt"
	"strconv"

	"github.com/mischadiehm/muka/internal/model"
)

// SummaryRow is the condensed per-group projection used for reports: herd
// size and the animal-year workloads as mean/median pairs, movement counts
// as means only.
type SummaryRow struct {
	Group                  string  `json:"group"`
	Count                  int     `json:"count"`
	AnimalsMean            float64 `json:"animals_mean"`
	AnimalsMedian          float64 `json:"animals_median"`
	DairyYearsMean         float64 `json:"dairy_years_mean"`
	DairyYearsMedian       float64 `json:"dairy_years_median"`
	DoubleYearsMean        float64 `json:"double_years_mean"`
	DoubleYearsMedian      float64 `json:"double_years_median"`
	DairyDoubleYearsMean   float64 `json:"dairydouble_years_mean"`
	DairyDoubleYearsMedian float64 `json:"dairydouble_years_median"`
	EntriesMean            float64 `json:"entries_mean"`
	LeavingsMean           float64 `json:"leavings_mean"`
}

// SummaryHeader returns the column names of the summary projection, aligned
// with the values produced by Summary.
func SummaryHeader() []string {
	return []string{
		"group",
		"count",
		"n_animals_total_mean",
		"n_animals_total_median",
		"animalyear_days_female_age3_dairy_mean",
		"animalyear_days_female_age3_dairy_median",
		"animalyear_days_female_age3_double_mean",
		"animalyear_days_female_age3_double_median",
		"animalyear_days_female_age3_dairydouble_V2_mean",
		"animalyear_days_female_age3_dairydouble_V2_median",
		"n_total_entries_younger85_mean",
		"n_total_leavings_younger51_mean",
	}
}

// Values returns the row's cells in SummaryHeader order.
func (r SummaryRow) Values() []interface{} {
	return []interface{}{
		r.Group, r.Count,
		r.AnimalsMean, r.AnimalsMedian,
		r.DairyYearsMean, r.DairyYearsMedian,
		r.DoubleYearsMean, r.DoubleYearsMedian,
		r.DairyDoubleYearsMean, r.DairyDoubleYearsMedian,
		r.EntriesMean, r.LeavingsMean,
	}
}

// Summary computes the projection for every classified label present in the
// dataset, in canonical group order. Unclassified farms appear only in
// GroupCounts.
func (a *Analyzer) Summary() []SummaryRow {
	rows := make([]SummaryRow, 0, len(model.Groups())+1)
	for _, gs := range a.GroupStatistics(nil) {
		row := SummaryRow{Group: gs.Group, Count: gs.Count}
		if fs, ok := gs.Fields["n_animals_total"]; ok {
			row.AnimalsMean, row.AnimalsMedian = fs.Mean, fs.Median
		}
		if fs, ok := gs.Fields["animalyear_days_female_age3_dairy"]; ok {
			row.DairyYearsMean, row.DairyYearsMedian = fs.Mean, fs.Median
		}
		if fs, ok := gs.Fields["animalyear_days_female_age3_double"]; ok {
			row.DoubleYearsMean, row.DoubleYearsMedian = fs.Mean, fs.Median
		}
		if fs, ok := gs.Fields["animalyear_days_female_age3_dairydouble_V2"]; ok {
			row.DairyDoubleYearsMean, row.DairyDoubleYearsMedian = fs.Mean, fs.Median
		}
		if fs, ok := gs.Fields["n_total_entries_younger85"]; ok {
			row.EntriesMean = fs.Mean
		}
		if fs, ok := gs.Fields["n_total_leavings_younger51"]; ok {
			row.LeavingsMean = fs.Mean
		}
		rows = append(rows, row)
	}
	return rows
}

// ModeResult captures one classification run for cross-mode comparison.
type ModeResult struct {
	Mode         string         `json:"mode"`
	Total        int            `json:"total"`
	Classified   int            `json:"classified"`
	Unclassified int            `json:"unclassified"`
	GroupCounts  map[string]int `json:"group_counts"`
}

// SuccessRate returns the classified share in percent.
func (r ModeResult) SuccessRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Classified) / float64(r.Total) * 100
}

// ComparisonTable renders mode results as a table: one row per mode, one
// column per group label that occurs in any result, counts with their share
// of the mode's total. The first returned row is the header.
func ComparisonTable(results []ModeResult) [][]string {
	seen := make(map[string]bool)
	for _, r := range results {
		for label := range r.GroupCounts {
			seen[label] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	model.SortGroupLabels(labels)

	header := []string{"mode", "total", "classified", "unclassified", "success_rate"}
	header = append(header, labels...)
	table := [][]string{header}

	for _, r := range results {
		row := []string{
			r.Mode,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Classified),
			strconv.Itoa(r.Unclassified),
			fmt.Sprintf("%.1f%%", r.SuccessRate()),
		}
		for _, label := range labels {
			n := r.GroupCounts[label]
			pct := 0.0
			if r.Total > 0 {
				pct = float64(n) / float64(r.Total) * 100
			}
			row = append(row, fmt.Sprintf("%d (%.1f%%)", n, pct))
		}
		table = append(table, row)
	}
	return table
}
