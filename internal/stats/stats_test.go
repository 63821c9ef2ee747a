package stats

import (
	"math"
	"testing"

	"github.com/mischadiehm/muka/internal/model"
)

func farmsWithAnimals(counts ...int) []*model.Farm {
	farms := make([]*model.Farm, len(counts))
	for i, n := range counts {
		farms[i] = &model.Farm{TVD: int64(i + 1), Year: 2024, AnimalsTotal: n}
	}
	return farms
}

func TestDescribe(t *testing.T) {
	farms := farmsWithAnimals(10, 20, 30, 40)
	d, err := Describe(farms, "n_animals_total")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if d.Count != 4 || d.Min != 10 || d.Max != 40 || d.Mean != 25 {
		t.Fatalf("distribution = %+v", d)
	}
	if d.Percentiles["p50"] < d.Min || d.Percentiles["p50"] > d.Max {
		t.Fatalf("p50 = %v out of [min,max]", d.Percentiles["p50"])
	}
	if d.Percentiles["p25"] > d.Percentiles["p75"] {
		t.Fatalf("p25 %v > p75 %v", d.Percentiles["p25"], d.Percentiles["p75"])
	}
}

func TestDescribeUnknownField(t *testing.T) {
	if _, err := Describe(farmsWithAnimals(1), "n_unicorns"); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDescribeSkipsNaN(t *testing.T) {
	farms := farmsWithAnimals(10, 20)
	farms[0].PropDaysFemaleAge3Dairy = math.NaN()
	farms[1].PropDaysFemaleAge3Dairy = 0.8
	d, err := Describe(farms, "prop_days_female_age3_dairy")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if d.Count != 1 || d.Mean != 0.8 {
		t.Fatalf("distribution = %+v, want single 0.8 observation", d)
	}
}

func TestDescribeByGroup(t *testing.T) {
	farms := farmsWithAnimals(10, 20, 90)
	g := model.GroupMuku
	farms[0].Group = &g
	farms[1].Group = &g

	byGroup, err := DescribeByGroup(farms, "n_animals_total")
	if err != nil {
		t.Fatalf("DescribeByGroup: %v", err)
	}
	if len(byGroup) != 2 {
		t.Fatalf("got %d groups, want 2", len(byGroup))
	}
	if byGroup["Muku"].Mean != 15 {
		t.Fatalf("Muku mean = %v, want 15", byGroup["Muku"].Mean)
	}
	if byGroup[model.UnclassifiedLabel].Count != 1 {
		t.Fatalf("Unclassified count = %d, want 1", byGroup[model.UnclassifiedLabel].Count)
	}
}

func TestDetectOutliersIQR(t *testing.T) {
	farms := farmsWithAnimals(10, 11, 12, 13, 14, 15, 16, 17, 500)
	report, err := DetectOutliers(farms, "n_animals_total", MethodIQR, 0)
	if err != nil {
		t.Fatalf("DetectOutliers: %v", err)
	}
	if report.Threshold != 1.5 {
		t.Fatalf("default threshold = %v, want 1.5", report.Threshold)
	}
	if report.Count != 1 || len(report.TVDs) != 1 || report.TVDs[0] != 9 {
		t.Fatalf("report = %+v, want only farm 9 flagged", report)
	}
	if report.LowerBound >= report.UpperBound {
		t.Fatalf("bounds inverted: %+v", report)
	}
}

func TestDetectOutliersZScore(t *testing.T) {
	farms := farmsWithAnimals(10, 10, 10, 10, 10, 10, 10, 10, 10, 1000)
	report, err := DetectOutliers(farms, "n_animals_total", MethodZScore, 2)
	if err != nil {
		t.Fatalf("DetectOutliers: %v", err)
	}
	if report.Count != 1 || report.TVDs[0] != 10 {
		t.Fatalf("report = %+v, want only farm 10 flagged", report)
	}
	if report.Percentage != 10 {
		t.Fatalf("percentage = %v, want 10", report.Percentage)
	}
}

func TestDetectOutliersMAD(t *testing.T) {
	farms := farmsWithAnimals(10, 11, 12, 13, 14, 10000)
	report, err := DetectOutliers(farms, "n_animals_total", MethodMAD, 0)
	if err != nil {
		t.Fatalf("DetectOutliers: %v", err)
	}
	if report.Count != 1 || report.TVDs[0] != 6 {
		t.Fatalf("report = %+v, want only farm 6 flagged", report)
	}
}

func TestDetectOutliersUnknownMethod(t *testing.T) {
	if _, err := DetectOutliers(farmsWithAnimals(1, 2), "n_animals_total", "dbscan", 0); err == nil {
		t.Fatal("expected error for unknown method")
	}
}
