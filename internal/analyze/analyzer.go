package analyze

import (
	"errors"
	"math"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/mischadiehm/muka/internal/model"
)

// ErrNoFarms is returned when an analyzer is built over an empty dataset.
var ErrNoFarms = errors.New("no farms loaded")

// FieldStats holds the descriptive statistics of one numeric field within
// one group. Count is the number of valid (non-NaN) observations.
type FieldStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// GroupStats aggregates every numeric field for one group label. Fields with
// zero valid observations are omitted from the map.
type GroupStats struct {
	Group  string                `json:"group"`
	Count  int                   `json:"count"`
	Fields map[string]FieldStats `json:"fields"`
}

// Analyzer computes per-group descriptive statistics over a classified (or
// unclassified) dataset. It never mutates the farms it is given.
type Analyzer struct {
	farms  []*model.Farm
	logger *zap.Logger
}

// New builds an analyzer. An empty dataset is rejected with ErrNoFarms so
// every downstream aggregate can assume at least one farm.
func New(farms []*model.Farm, logger *zap.Logger) (*Analyzer, error) {
	if len(farms) == 0 {
		return nil, ErrNoFarms
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{farms: farms, logger: logger}, nil
}

// Total returns the number of farms in the dataset.
func (a *Analyzer) Total() int { return len(a.farms) }

// Farms returns the underlying dataset.
func (a *Analyzer) Farms() []*model.Farm { return a.farms }

// GroupCounts returns the number of farms per group label, including the
// Unclassified bucket when present.
func (a *Analyzer) GroupCounts() map[string]int {
	counts := make(map[string]int)
	for _, f := range a.farms {
		counts[f.GroupLabel()]++
	}
	return counts
}

// GroupLabels returns the labels present in the dataset in canonical order:
// known groups first, Unclassified last.
func (a *Analyzer) GroupLabels() []string {
	counts := a.GroupCounts()
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	model.SortGroupLabels(labels)
	return labels
}

// FarmsByGroup returns the farms carrying the given label.
func (a *Analyzer) FarmsByGroup(label string) []*model.Farm {
	var out []*model.Farm
	for _, f := range a.farms {
		if f.GroupLabel() == label {
			out = append(out, f)
		}
	}
	return out
}

// Unclassified returns the farms no profile matched.
func (a *Analyzer) Unclassified() []*model.Farm {
	return a.FarmsByGroup(model.UnclassifiedLabel)
}

// GroupStatistics aggregates every numeric field per group. With a nil group
// it covers every classified label present in the dataset; otherwise only
// the named group. Unclassified farms never contribute: they are counted in
// GroupCounts but carry no per-group statistics. Labels with no farms yield
// no entry.
func (a *Analyzer) GroupStatistics(group *model.Group) []GroupStats {
	var labels []string
	if group != nil {
		labels = []string{string(*group)}
	} else {
		for _, label := range a.GroupLabels() {
			if label == model.UnclassifiedLabel {
				continue
			}
			labels = append(labels, label)
		}
	}

	out := make([]GroupStats, 0, len(labels))
	for _, label := range labels {
		farms := a.FarmsByGroup(label)
		if len(farms) == 0 {
			continue
		}
		gs := GroupStats{
			Group:  label,
			Count:  len(farms),
			Fields: make(map[string]FieldStats, len(model.NumericFields)),
		}
		for _, field := range model.NumericFields {
			if fs, ok := fieldStats(farms, field); ok {
				gs.Fields[field.Name] = fs
			}
		}
		out = append(out, gs)
	}

	a.logger.Debug("group statistics computed",
		zap.Int("groups", len(out)),
		zap.Int("fields", len(model.NumericFields)))
	return out
}

// fieldStats computes one field's statistics over a group, skipping NaN
// observations. The second return is false when no valid value exists.
func fieldStats(farms []*model.Farm, field model.Field) (FieldStats, bool) {
	values := fieldValues(farms, field)
	if len(values) == 0 {
		return FieldStats{}, false
	}
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	return FieldStats{
		Count:  len(values),
		Min:    min,
		Max:    max,
		Mean:   mean,
		Median: median,
	}, true
}

// fieldValues extracts a field's valid observations from a set of farms.
func fieldValues(farms []*model.Farm, field model.Field) stats.Float64Data {
	values := make(stats.Float64Data, 0, len(farms))
	for _, f := range farms {
		v := field.Value(f)
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}
