package model

// Farm is one validated input record. The ingestion layer enforces field
// constraints; after construction only Group is ever mutated, and only by
// the classifier.
type Farm struct {
	TVD          int64
	FarmTypeName string
	Year         int

	// Animal counts
	AnimalsTotal     int
	FemalesAge3Dairy int
	FemalesAge3Total int

	// Animal days and derived animal years (days / 365)
	DaysFemaleAge3Dairy             float64
	DaysFemaleAge3Double            float64
	DaysFemaleAge3DairyDouble       float64
	AnimalYearFemaleAge3Dairy       float64
	AnimalYearFemaleAge3Double      float64
	AnimalYearFemaleAge3DairyDouble float64
	PropDaysFemaleAge3Dairy         float64

	// Movements
	EntriesYounger85  int
	LeavingsYounger51 int

	// Slaughter data
	FemalesYounger731             int
	PropFemaleSlaughterYounger731 float64
	AnimalsFrom51To730            int

	// Binary classification indicators
	FemaleDairyCattle   int
	FemaleCattle        int
	CalfArrivals        int
	CalfLeavings        int
	FemaleSlaughterings int
	YoungSlaughterings  int

	// Group is the classification result; nil means unclassified.
	Group *Group
}

// Indicators returns the six classification indicators in slot order.
func (f *Farm) Indicators() IndicatorVector {
	return IndicatorVector{
		f.FemaleDairyCattle,
		f.FemaleCattle,
		f.CalfArrivals,
		f.CalfLeavings,
		f.FemaleSlaughterings,
		f.YoungSlaughterings,
	}
}

// GroupLabel returns the assigned group name, or Unclassified.
func (f *Farm) GroupLabel() string {
	if f.Group == nil {
		return UnclassifiedLabel
	}
	return string(*f.Group)
}
