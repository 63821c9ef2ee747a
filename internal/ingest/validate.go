package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Plausible survey-year window for the dataset.
const (
	minYear = 2000
	maxYear = 2100
)

// ValidationReport collects everything wrong or suspicious about an input
// CSV. Errors make the file unusable; warnings do not.
type ValidationReport struct {
	Path     string   `json:"path"`
	Rows     int      `json:"rows"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether the file can be ingested as-is.
func (r *ValidationReport) Valid() bool { return len(r.Errors) == 0 }

func (r *ValidationReport) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationReport) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateFile checks an input CSV against the dataset contract without
// building farms: required columns, indicator domain, proportion and year
// ranges, non-negative counts, duplicate farm ids.
func ValidateFile(path string) (*ValidationReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	report := &ValidationReport{Path: path}

	r := csv.NewReader(file)
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		report.errorf("unreadable header: %v", err)
		return report, nil
	}
	cols, err := indexColumns(header)
	if err != nil {
		report.errorf("%v", err)
		return report, nil
	}

	indicatorCols := []string{
		ColIndFemaleDairyCattle, ColIndFemaleCattle, ColIndCalfArrivals,
		ColIndCalfLeavings, ColIndFemaleSlaughterings, ColIndYoungSlaughterings,
	}
	proportionCols := []string{ColPropDaysDairy, ColPropFemaleSlaughter}
	countCols := []string{
		ColAnimalsTotal, ColFemalesAge3Dairy, ColFemalesAge3Total,
		ColEntriesYounger85, ColLeavingsYounger51,
		ColFemalesYounger731, ColAnimalsFrom51To730,
	}

	seen := make(map[string]int)
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		report.Rows++
		if err != nil {
			report.errorf("line %d: malformed row: %v", line, err)
			continue
		}

		cell := func(name string) string {
			i := cols[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		tvd := cell(ColTVD)
		if tvd == "" {
			report.errorf("line %d: empty %s", line, ColTVD)
		} else if prev, dup := seen[tvd]; dup {
			report.warnf("line %d: duplicate %s %s (first seen on line %d)", line, ColTVD, tvd, prev)
		} else {
			seen[tvd] = line
		}

		if year, err := strconv.Atoi(cell(ColYear)); err != nil {
			report.errorf("line %d: %s %q is not a year", line, ColYear, cell(ColYear))
		} else if year < minYear || year > maxYear {
			report.errorf("line %d: %s %d outside [%d, %d]", line, ColYear, year, minYear, maxYear)
		}

		for _, col := range indicatorCols {
			v := cell(col)
			if v != "0" && v != "1" {
				report.errorf("line %d: %s = %q, want 0 or 1", line, col, v)
			}
		}

		for _, col := range proportionCols {
			v := cell(col)
			if v == "" || v == "NA" || v == "NaN" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) {
				report.errorf("line %d: %s = %q is not numeric", line, col, v)
			} else if f < 0 || f > 1 {
				report.errorf("line %d: %s = %v outside [0, 1]", line, col, f)
			}
		}

		for _, col := range countCols {
			v := cell(col)
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				report.errorf("line %d: %s = %q is not numeric", line, col, v)
			} else if n < 0 {
				report.errorf("line %d: %s = %v is negative", line, col, n)
			}
		}
	}

	if report.Rows == 0 {
		report.errorf("no data rows")
	}
	return report, nil
}
