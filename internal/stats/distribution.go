// Package stats provides field-level distribution summaries and outlier
// detection over farm datasets. It complements the per-group aggregation in
// internal/analyze with whole-column views.
package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/mischadiehm/muka/internal/model"
)

// Distribution summarizes one numeric column. Percentile keys are "p25",
// "p50", "p75" and "p90".
type Distribution struct {
	Field       string             `json:"field"`
	Count       int                `json:"count"`
	Mean        float64            `json:"mean"`
	Std         float64            `json:"std"`
	Min         float64            `json:"min"`
	Max         float64            `json:"max"`
	Percentiles map[string]float64 `json:"percentiles"`
}

// Describe summarizes a field over the given farms, skipping NaN values.
// It fails on an unknown field name or a column with no valid value.
func Describe(farms []*model.Farm, fieldName string) (Distribution, error) {
	field, ok := model.FieldByName(fieldName)
	if !ok {
		return Distribution{}, fmt.Errorf("unknown field %q", fieldName)
	}
	values := collect(farms, field)
	if len(values) == 0 {
		return Distribution{}, fmt.Errorf("field %q has no valid values", fieldName)
	}

	mean, _ := mstats.Mean(values)
	std, _ := mstats.StandardDeviation(values)
	min, _ := mstats.Min(values)
	max, _ := mstats.Max(values)

	percentiles := make(map[string]float64, 4)
	for _, p := range []struct {
		key string
		q   float64
	}{{"p25", 25}, {"p50", 50}, {"p75", 75}, {"p90", 90}} {
		v, err := mstats.Percentile(values, p.q)
		if err != nil {
			// single-observation columns: every percentile is that value
			v = values[0]
		}
		percentiles[p.key] = v
	}

	return Distribution{
		Field:       fieldName,
		Count:       len(values),
		Mean:        mean,
		Std:         std,
		Min:         min,
		Max:         max,
		Percentiles: percentiles,
	}, nil
}

// DescribeByGroup summarizes a field separately for every group label
// present, in canonical order. Labels whose column is entirely invalid are
// skipped.
func DescribeByGroup(farms []*model.Farm, fieldName string) (map[string]Distribution, error) {
	if _, ok := model.FieldByName(fieldName); !ok {
		return nil, fmt.Errorf("unknown field %q", fieldName)
	}
	byGroup := make(map[string][]*model.Farm)
	for _, f := range farms {
		byGroup[f.GroupLabel()] = append(byGroup[f.GroupLabel()], f)
	}
	out := make(map[string]Distribution, len(byGroup))
	for label, group := range byGroup {
		d, err := Describe(group, fieldName)
		if err != nil {
			continue
		}
		out[label] = d
	}
	return out, nil
}

// collect extracts a field's valid observations.
func collect(farms []*model.Farm, field model.Field) mstats.Float64Data {
	values := make(mstats.Float64Data, 0, len(farms))
	for _, f := range farms {
		v := field.Value(f)
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}
