package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"github.com/mischadiehm/muka/internal/model"
)

// Outlier detection methods.
const (
	MethodIQR    = "iqr"
	MethodZScore = "zscore"
	MethodMAD    = "mad"
)

// OutlierReport lists the farms whose field value falls outside the bounds
// computed by one detection method.
type OutlierReport struct {
	Field      string  `json:"field"`
	Method     string  `json:"method"`
	Threshold  float64 `json:"threshold"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	TVDs       []int64 `json:"tvds"`
}

// DetectOutliers flags farms whose field value is extreme under the given
// method. A zero threshold selects the method's conventional default:
// 1.5 IQR multiples, z-score 3, robust z-score 3.5.
func DetectOutliers(farms []*model.Farm, fieldName, method string, threshold float64) (OutlierReport, error) {
	field, ok := model.FieldByName(fieldName)
	if !ok {
		return OutlierReport{}, fmt.Errorf("unknown field %q", fieldName)
	}
	values := collect(farms, field)
	if len(values) == 0 {
		return OutlierReport{}, fmt.Errorf("field %q has no valid values", fieldName)
	}

	var lower, upper float64
	switch method {
	case MethodIQR:
		if threshold == 0 {
			threshold = 1.5
		}
		q1, err := mstats.Percentile(values, 25)
		if err != nil {
			return OutlierReport{}, fmt.Errorf("field %q: %w", fieldName, err)
		}
		q3, err := mstats.Percentile(values, 75)
		if err != nil {
			return OutlierReport{}, fmt.Errorf("field %q: %w", fieldName, err)
		}
		iqr := q3 - q1
		lower = q1 - threshold*iqr
		upper = q3 + threshold*iqr
	case MethodZScore:
		if threshold == 0 {
			threshold = 3
		}
		mean, _ := mstats.Mean(values)
		std, _ := mstats.StandardDeviation(values)
		lower = mean - threshold*std
		upper = mean + threshold*std
	case MethodMAD:
		if threshold == 0 {
			threshold = 3.5
		}
		median, _ := mstats.Median(values)
		mad := medianAbsDeviation(values, median)
		// 1.4826 scales MAD to the standard deviation of a normal sample
		spread := 1.4826 * mad
		lower = median - threshold*spread
		upper = median + threshold*spread
	default:
		return OutlierReport{}, fmt.Errorf("unknown outlier method %q (valid: %s, %s, %s)",
			method, MethodIQR, MethodZScore, MethodMAD)
	}

	report := OutlierReport{
		Field:      fieldName,
		Method:     method,
		Threshold:  threshold,
		LowerBound: lower,
		UpperBound: upper,
	}
	for _, f := range farms {
		v := field.Value(f)
		if math.IsNaN(v) {
			continue
		}
		if v < lower || v > upper {
			report.Count++
			report.TVDs = append(report.TVDs, f.TVD)
		}
	}
	report.Percentage = float64(report.Count) / float64(len(values)) * 100
	return report, nil
}

func medianAbsDeviation(values mstats.Float64Data, median float64) float64 {
	devs := make(mstats.Float64Data, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - median)
	}
	mad, _ := mstats.Median(devs)
	return mad
}
