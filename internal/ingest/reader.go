// Package ingest reads, validates and writes the farm dataset CSVs. Column
// names follow the upstream dataset contract; the derived animal-year fields
// are computed here so the rest of the module never divides by 365.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mischadiehm/muka/internal/model"
)

// daysPerYear converts accumulated animal days into animal years.
const daysPerYear = 365

// Input column names.
const (
	ColTVD          = "tvd"
	ColFarmTypeName = "farmTypeName"
	ColYear         = "Jahr"

	ColAnimalsTotal        = "n_animals_total"
	ColFemalesAge3Dairy    = "n_females_age3_dairy"
	ColDaysDairy           = "n_days_female_age3_dairy"
	ColDaysDouble          = "n_days_female_age3_double"
	ColDaysDairyDouble     = "n_days_female_age3_dairydouble_V2"
	ColPropDaysDairy       = "prop_days_female_age3_dairy"
	ColFemalesAge3Total    = "n_females_age3_total"
	ColEntriesYounger85    = "n_total_entries_younger85"
	ColLeavingsYounger51   = "n_total_leavings_younger51"
	ColFemalesYounger731   = "n_females_younger731"
	ColPropFemaleSlaughter = "prop_females_slaughterings_younger731"
	ColAnimalsFrom51To730  = "n_animals_from51_to730"

	ColIndFemaleDairyCattle   = "1_femaleDairyCattle_V2"
	ColIndFemaleCattle        = "2_femaleCattle"
	ColIndCalfArrivals        = "3_calf85Arrivals"
	ColIndCalfLeavings        = "5_calf51nonSlaughterLeavings"
	ColIndFemaleSlaughterings = "6_female731Slaughterings"
	ColIndYoungSlaughterings  = "7_young51to730Slaughterings"
)

// RequiredColumns lists every column an input CSV must carry.
func RequiredColumns() []string {
	return []string{
		ColTVD, ColFarmTypeName, ColYear,
		ColAnimalsTotal, ColFemalesAge3Dairy,
		ColDaysDairy, ColDaysDouble, ColDaysDairyDouble,
		ColPropDaysDairy, ColFemalesAge3Total,
		ColEntriesYounger85, ColLeavingsYounger51,
		ColFemalesYounger731, ColPropFemaleSlaughter, ColAnimalsFrom51To730,
		ColIndFemaleDairyCattle, ColIndFemaleCattle, ColIndCalfArrivals,
		ColIndCalfLeavings, ColIndFemaleSlaughterings, ColIndYoungSlaughterings,
	}
}

// RowError carries the 1-based CSV line of a record that failed to parse.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// ReadFarms loads an input CSV. Malformed rows are skipped and logged; the
// call fails only when the header is unusable or every data row is bad.
func ReadFarms(path string, logger *zap.Logger) ([]*model.Farm, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		farms   []*model.Farm
		rowErrs []*RowError
		line    = 1
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		// a csv-level error (wrong cell count, bad quoting) spoils only
		// this record; keep reading the rest of the file
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
			logger.Warn("skipping malformed row",
				zap.Int("line", line), zap.Error(err))
			continue
		}
		farm, perr := parseRow(cols, record)
		if perr != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: perr})
			logger.Warn("skipping malformed row",
				zap.Int("line", line), zap.Error(perr))
			continue
		}
		farms = append(farms, farm)
	}

	if len(farms) == 0 {
		if len(rowErrs) > 0 {
			return nil, fmt.Errorf("no usable rows in %s: %d rows failed, first: %w",
				path, len(rowErrs), rowErrs[0])
		}
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	logger.Info("farm data loaded",
		zap.String("path", path),
		zap.Int("farms", len(farms)),
		zap.Int("skipped", len(rowErrs)))
	return farms, nil
}

// indexColumns maps required column names to record positions. The first
// header cell may carry a UTF-8 BOM from Excel round-trips.
func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range RequiredColumns() {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(cols map[string]int, record []string) (*model.Farm, error) {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	tvd, err := strconv.ParseInt(cell(ColTVD), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", ColTVD, err)
	}
	year, err := parseIntCell(cell(ColYear), ColYear)
	if err != nil {
		return nil, err
	}

	farm := &model.Farm{TVD: tvd, FarmTypeName: cell(ColFarmTypeName), Year: year}

	intFields := []struct {
		col string
		dst *int
	}{
		{ColAnimalsTotal, &farm.AnimalsTotal},
		{ColFemalesAge3Dairy, &farm.FemalesAge3Dairy},
		{ColFemalesAge3Total, &farm.FemalesAge3Total},
		{ColEntriesYounger85, &farm.EntriesYounger85},
		{ColLeavingsYounger51, &farm.LeavingsYounger51},
		{ColFemalesYounger731, &farm.FemalesYounger731},
		{ColAnimalsFrom51To730, &farm.AnimalsFrom51To730},
	}
	for _, f := range intFields {
		v, err := parseIntCell(cell(f.col), f.col)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	floatFields := []struct {
		col string
		dst *float64
	}{
		{ColDaysDairy, &farm.DaysFemaleAge3Dairy},
		{ColDaysDouble, &farm.DaysFemaleAge3Double},
		{ColDaysDairyDouble, &farm.DaysFemaleAge3DairyDouble},
		{ColPropDaysDairy, &farm.PropDaysFemaleAge3Dairy},
		{ColPropFemaleSlaughter, &farm.PropFemaleSlaughterYounger731},
	}
	for _, f := range floatFields {
		v, err := parseFloatCell(cell(f.col), f.col)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	indicators := []struct {
		col string
		dst *int
	}{
		{ColIndFemaleDairyCattle, &farm.FemaleDairyCattle},
		{ColIndFemaleCattle, &farm.FemaleCattle},
		{ColIndCalfArrivals, &farm.CalfArrivals},
		{ColIndCalfLeavings, &farm.CalfLeavings},
		{ColIndFemaleSlaughterings, &farm.FemaleSlaughterings},
		{ColIndYoungSlaughterings, &farm.YoungSlaughterings},
	}
	for _, f := range indicators {
		v, err := parseIntCell(cell(f.col), f.col)
		if err != nil {
			return nil, err
		}
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("column %s: value %d outside {0,1}", f.col, v)
		}
		*f.dst = v
	}

	farm.AnimalYearFemaleAge3Dairy = animalYears(farm.DaysFemaleAge3Dairy)
	farm.AnimalYearFemaleAge3Double = animalYears(farm.DaysFemaleAge3Double)
	farm.AnimalYearFemaleAge3DairyDouble = animalYears(farm.DaysFemaleAge3DairyDouble)
	return farm, nil
}

func animalYears(days float64) float64 {
	if math.IsNaN(days) {
		return math.NaN()
	}
	return days / daysPerYear
}

func parseIntCell(s, col string) (int, error) {
	if s == "" || s == "NA" {
		return 0, fmt.Errorf("column %s: empty value", col)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// R exports sometimes render whole counts as "12.0"
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("column %s: %w", col, err)
		}
		return int(f), nil
	}
	return v, nil
}

// parseFloatCell maps empty and NA cells to NaN so missing values survive
// ingestion without inventing zeros.
func parseFloatCell(s, col string) (float64, error) {
	if s == "" || s == "NA" || s == "NaN" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}
