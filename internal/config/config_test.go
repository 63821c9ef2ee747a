package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.IndicatorMode != "6-indicators" {
		t.Fatalf("indicator_mode = %q", c.IndicatorMode)
	}
	if c.DecimalPlaces != 2 || c.ListenAddr != ":8080" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.InputPath() != filepath.Join("csv", "farm_data.csv") {
		t.Fatalf("input path = %q", c.InputPath())
	}
	if c.ClassifiedPath() != filepath.Join("output", "classified_farms.csv") {
		t.Fatalf("classified path = %q", c.ClassifiedPath())
	}
	if c.SummaryPath() != filepath.Join("output", "analysis_summary.xlsx") {
		t.Fatalf("summary path = %q", c.SummaryPath())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "muka.yaml")
	body := "indicator_mode: 4-indicators\ndecimal_places: 3\nwarn_unclassified: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.IndicatorMode != "4-indicators" || c.DecimalPlaces != 3 || !c.WarnUnclassified {
		t.Fatalf("config = %+v", c)
	}
	// untouched keys keep defaults
	if c.OutputDir != "output" {
		t.Fatalf("output_dir = %q", c.OutputDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "muka.yaml")
	orig := &Global{
		CSVDir:               "data",
		OutputDir:            "out",
		InputFile:            "in.csv",
		ClassifiedOutputFile: "classified.csv",
		SummaryOutputFile:    "summary.xlsx",
		IndicatorMode:        "5-indicators-flex",
		DecimalPlaces:        4,
		MaxDisplayRows:       50,
		MinGroupSize:         5,
		ListenAddr:           ":9090",
	}
	if err := Save(orig, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.IndicatorMode != orig.IndicatorMode || got.DecimalPlaces != orig.DecimalPlaces ||
		got.CSVDir != orig.CSVDir || got.ListenAddr != orig.ListenAddr {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
