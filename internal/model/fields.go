package model

// Field exposes one numeric farm metric under its dataset column name.
type Field struct {
	Name  string
	Value func(*Farm) float64
}

// NumericFields lists every metric the analyzer aggregates, in report order.
// Names match the dataset columns so statistics keys line up with exports.
var NumericFields = []Field{
	{"n_animals_total", func(f *Farm) float64 { return float64(f.AnimalsTotal) }},
	{"n_females_age3_dairy", func(f *Farm) float64 { return float64(f.FemalesAge3Dairy) }},
	{"n_days_female_age3_dairy", func(f *Farm) float64 { return f.DaysFemaleAge3Dairy }},
	{"n_days_female_age3_double", func(f *Farm) float64 { return f.DaysFemaleAge3Double }},
	{"n_days_female_age3_dairydouble_V2", func(f *Farm) float64 { return f.DaysFemaleAge3DairyDouble }},
	{"animalyear_days_female_age3_dairy", func(f *Farm) float64 { return f.AnimalYearFemaleAge3Dairy }},
	{"animalyear_days_female_age3_double", func(f *Farm) float64 { return f.AnimalYearFemaleAge3Double }},
	{"animalyear_days_female_age3_dairydouble_V2", func(f *Farm) float64 { return f.AnimalYearFemaleAge3DairyDouble }},
	{"prop_days_female_age3_dairy", func(f *Farm) float64 { return f.PropDaysFemaleAge3Dairy }},
	{"n_females_age3_total", func(f *Farm) float64 { return float64(f.FemalesAge3Total) }},
	{"n_total_entries_younger85", func(f *Farm) float64 { return float64(f.EntriesYounger85) }},
	{"n_total_leavings_younger51", func(f *Farm) float64 { return float64(f.LeavingsYounger51) }},
	{"n_females_younger731", func(f *Farm) float64 { return float64(f.FemalesYounger731) }},
	{"prop_females_slaughterings_younger731", func(f *Farm) float64 { return f.PropFemaleSlaughterYounger731 }},
	{"n_animals_from51_to730", func(f *Farm) float64 { return float64(f.AnimalsFrom51To730) }},
}

// FieldByName looks up a numeric field by its dataset column name.
func FieldByName(name string) (Field, bool) {
	for _, f := range NumericFields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
