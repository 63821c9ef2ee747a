package ingest

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mischadiehm/muka/internal/model"
)

// validRow returns a data row aligned with RequiredColumns.
func validRow(tvd string) []string {
	return []string{
		tvd, "Verkehrsmilch", "2023",
		"42", "12",
		"3650", "730", "1825",
		"0.85", "15",
		"3", "1",
		"2", "0.1", "5",
		"1", "0", "0", "1", "0", "0",
	}
}

func writeCSV(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "farms.csv")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}

func TestReadFarms(t *testing.T) {
	path := writeCSV(t, [][]string{RequiredColumns(), validRow("1001"), validRow("1002")})

	farms, err := ReadFarms(path, nil)
	if err != nil {
		t.Fatalf("ReadFarms: %v", err)
	}
	if len(farms) != 2 {
		t.Fatalf("got %d farms, want 2", len(farms))
	}
	f := farms[0]
	if f.TVD != 1001 || f.Year != 2023 || f.FarmTypeName != "Verkehrsmilch" {
		t.Fatalf("farm = %+v", f)
	}
	if f.AnimalsTotal != 42 || f.CalfLeavings != 1 || f.FemaleDairyCattle != 1 {
		t.Fatalf("farm = %+v", f)
	}
	if f.AnimalYearFemaleAge3Dairy != 10 {
		t.Fatalf("animal years = %v, want 3650/365 = 10", f.AnimalYearFemaleAge3Dairy)
	}
	if f.AnimalYearFemaleAge3Double != 2 {
		t.Fatalf("animal years double = %v, want 2", f.AnimalYearFemaleAge3Double)
	}
}

func TestReadFarmsMissingColumn(t *testing.T) {
	header := RequiredColumns()[:len(RequiredColumns())-1]
	path := writeCSV(t, [][]string{header})

	_, err := ReadFarms(path, nil)
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	if !strings.Contains(err.Error(), ColIndYoungSlaughterings) {
		t.Fatalf("error %q does not name the missing column", err)
	}
}

func TestReadFarmsSkipsBadRows(t *testing.T) {
	bad := validRow("1002")
	bad[3] = "not-a-number" // n_animals_total
	path := writeCSV(t, [][]string{RequiredColumns(), validRow("1001"), bad, validRow("1003")})

	farms, err := ReadFarms(path, nil)
	if err != nil {
		t.Fatalf("ReadFarms: %v", err)
	}
	if len(farms) != 2 {
		t.Fatalf("got %d farms, want bad row skipped", len(farms))
	}
	if farms[0].TVD != 1001 || farms[1].TVD != 1003 {
		t.Fatalf("kept TVDs %d, %d", farms[0].TVD, farms[1].TVD)
	}
}

// A row with the wrong cell count must spoil only itself: rows after it
// still load.
func TestReadFarmsSkipsShortRows(t *testing.T) {
	short := []string{"1002", "Verkehrsmilch", "2023", "42"}
	path := writeCSV(t, [][]string{RequiredColumns(), validRow("1001"), short, validRow("1003")})

	farms, err := ReadFarms(path, nil)
	if err != nil {
		t.Fatalf("ReadFarms: %v", err)
	}
	if len(farms) != 2 {
		t.Fatalf("got %d farms, want rows after the short one kept", len(farms))
	}
	if farms[0].TVD != 1001 || farms[1].TVD != 1003 {
		t.Fatalf("kept TVDs %d, %d", farms[0].TVD, farms[1].TVD)
	}
}

func TestReadFarmsAllRowsBad(t *testing.T) {
	bad := validRow("x")
	path := writeCSV(t, [][]string{RequiredColumns(), bad})

	if _, err := ReadFarms(path, nil); err == nil {
		t.Fatal("expected error when every row fails")
	}
}

func TestReadFarmsMissingFloatBecomesNaN(t *testing.T) {
	row := validRow("1001")
	row[8] = "" // prop_days_female_age3_dairy
	path := writeCSV(t, [][]string{RequiredColumns(), row})

	farms, err := ReadFarms(path, nil)
	if err != nil {
		t.Fatalf("ReadFarms: %v", err)
	}
	if !math.IsNaN(farms[0].PropDaysFemaleAge3Dairy) {
		t.Fatalf("empty proportion = %v, want NaN", farms[0].PropDaysFemaleAge3Dairy)
	}
}

func TestReadFarmsRejectsNonBinaryIndicator(t *testing.T) {
	row := validRow("1001")
	row[15] = "2" // 1_femaleDairyCattle_V2
	path := writeCSV(t, [][]string{RequiredColumns(), row, validRow("1002")})

	farms, err := ReadFarms(path, nil)
	if err != nil {
		t.Fatalf("ReadFarms: %v", err)
	}
	if len(farms) != 1 || farms[0].TVD != 1002 {
		t.Fatal("row with indicator 2 should have been skipped")
	}
}

func TestWriteClassifiedRoundTrip(t *testing.T) {
	g := model.GroupMilchvieh
	farms := []*model.Farm{
		{TVD: 1001, FarmTypeName: "Verkehrsmilch", Year: 2023, AnimalsTotal: 42,
			DaysFemaleAge3Dairy: 3650, AnimalYearFemaleAge3Dairy: 10,
			PropDaysFemaleAge3Dairy: 0.85, FemaleDairyCattle: 1, CalfLeavings: 1,
			Group: &g},
		{TVD: 1002, Year: 2023, PropDaysFemaleAge3Dairy: math.NaN()},
	}
	path := filepath.Join(t.TempDir(), "classified.csv")
	if err := WriteClassified(path, farms, true); err != nil {
		t.Fatalf("WriteClassified: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(raw), "\ufeff") {
		t.Fatal("missing UTF-8 BOM")
	}

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\ufeff")))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	header := rows[0]
	groupIdx := len(header) - 1
	if header[groupIdx] != ColGroup {
		t.Fatalf("last column = %s, want %s", header[groupIdx], ColGroup)
	}
	if rows[1][groupIdx] != "Milchvieh" {
		t.Fatalf("group cell = %q", rows[1][groupIdx])
	}
	if rows[2][groupIdx] != model.UnclassifiedLabel {
		t.Fatalf("unclassified cell = %q", rows[2][groupIdx])
	}

	propIdx := -1
	for i, name := range header {
		if name == ColPropDaysDairy {
			propIdx = i
		}
	}
	if propIdx < 0 {
		t.Fatalf("%s missing from output header", ColPropDaysDairy)
	}
	if rows[2][propIdx] != "" {
		t.Fatalf("NaN cell = %q, want empty", rows[2][propIdx])
	}
}

func TestValidateFile(t *testing.T) {
	badYear := validRow("1003")
	badYear[2] = "1887"
	badIndicator := validRow("1004")
	badIndicator[16] = "3" // 2_femaleCattle
	badProp := validRow("1005")
	badProp[8] = "1.5"
	negative := validRow("1006")
	negative[3] = "-4"

	path := writeCSV(t, [][]string{
		RequiredColumns(),
		validRow("1001"),
		validRow("1001"), // duplicate tvd
		badYear,
		badIndicator,
		badProp,
		negative,
	})

	report, err := ValidateFile(path)
	if err != nil {
		t.Fatalf("ValidateFile: %v", err)
	}
	if report.Valid() {
		t.Fatal("report should not be valid")
	}
	if report.Rows != 6 {
		t.Fatalf("rows = %d, want 6", report.Rows)
	}
	if len(report.Errors) != 4 {
		t.Fatalf("errors = %v, want 4 entries", report.Errors)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "duplicate") {
		t.Fatalf("warnings = %v, want one duplicate warning", report.Warnings)
	}
}

func TestValidateFileShortRow(t *testing.T) {
	short := []string{"1002", "Verkehrsmilch", "2023"}
	path := writeCSV(t, [][]string{RequiredColumns(), validRow("1001"), short, validRow("1003")})

	report, err := ValidateFile(path)
	if err != nil {
		t.Fatalf("ValidateFile: %v", err)
	}
	if report.Rows != 3 {
		t.Fatalf("rows = %d, want the short row counted too", report.Rows)
	}
	if report.Valid() {
		t.Fatal("short row must be reported as an error")
	}
	found := false
	for _, e := range report.Errors {
		if strings.Contains(e, "line 3") && strings.Contains(e, "malformed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("errors = %v, want a malformed-row entry for line 3", report.Errors)
	}
}

func TestValidateFileCleanInput(t *testing.T) {
	path := writeCSV(t, [][]string{RequiredColumns(), validRow("1001"), validRow("1002")})
	report, err := ValidateFile(path)
	if err != nil {
		t.Fatalf("ValidateFile: %v", err)
	}
	if !report.Valid() || len(report.Warnings) != 0 {
		t.Fatalf("report = %+v, want clean", report)
	}
}
