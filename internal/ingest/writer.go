package ingest

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/mischadiehm/muka/internal/model"
)

// ColGroup is the classification result column appended on output.
const ColGroup = "group"

// OutputColumns lists the classified CSV layout: the input columns, the
// derived animal-year columns, and the group label.
func OutputColumns() []string {
	return []string{
		ColTVD, ColFarmTypeName, ColYear,
		ColAnimalsTotal, ColFemalesAge3Dairy,
		ColDaysDairy, ColDaysDouble, ColDaysDairyDouble,
		"animalyear_days_female_age3_dairy",
		"animalyear_days_female_age3_double",
		"animalyear_days_female_age3_dairydouble_V2",
		ColPropDaysDairy, ColFemalesAge3Total,
		ColEntriesYounger85, ColLeavingsYounger51,
		ColFemalesYounger731, ColPropFemaleSlaughter, ColAnimalsFrom51To730,
		ColIndFemaleDairyCattle, ColIndFemaleCattle, ColIndCalfArrivals,
		ColIndCalfLeavings, ColIndFemaleSlaughterings, ColIndYoungSlaughterings,
		ColGroup,
	}
}

// WriteClassified writes farms with their group labels. withBOM prepends a
// UTF-8 byte order mark so Excel opens the file with the right encoding.
func WriteClassified(path string, farms []*model.Farm, withBOM bool) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer file.Close()

	if withBOM {
		if _, err := file.WriteString("\ufeff"); err != nil {
			return fmt.Errorf("write BOM: %w", err)
		}
	}

	w := csv.NewWriter(file)
	if err := w.Write(OutputColumns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, farm := range farms {
		if err := w.Write(FarmRecord(farm)); err != nil {
			return fmt.Errorf("write farm %d: %w", farm.TVD, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return file.Close()
}

// FarmRecord renders one farm in OutputColumns order. NaN cells stay empty.
func FarmRecord(f *model.Farm) []string {
	return []string{
		strconv.FormatInt(f.TVD, 10),
		f.FarmTypeName,
		strconv.Itoa(f.Year),
		strconv.Itoa(f.AnimalsTotal),
		strconv.Itoa(f.FemalesAge3Dairy),
		formatFloat(f.DaysFemaleAge3Dairy),
		formatFloat(f.DaysFemaleAge3Double),
		formatFloat(f.DaysFemaleAge3DairyDouble),
		formatFloat(f.AnimalYearFemaleAge3Dairy),
		formatFloat(f.AnimalYearFemaleAge3Double),
		formatFloat(f.AnimalYearFemaleAge3DairyDouble),
		formatFloat(f.PropDaysFemaleAge3Dairy),
		strconv.Itoa(f.FemalesAge3Total),
		strconv.Itoa(f.EntriesYounger85),
		strconv.Itoa(f.LeavingsYounger51),
		strconv.Itoa(f.FemalesYounger731),
		formatFloat(f.PropFemaleSlaughterYounger731),
		strconv.Itoa(f.AnimalsFrom51To730),
		strconv.Itoa(f.FemaleDairyCattle),
		strconv.Itoa(f.FemaleCattle),
		strconv.Itoa(f.CalfArrivals),
		strconv.Itoa(f.CalfLeavings),
		strconv.Itoa(f.FemaleSlaughterings),
		strconv.Itoa(f.YoungSlaughterings),
		f.GroupLabel(),
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
