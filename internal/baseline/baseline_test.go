package baseline

import (
	"math"
	"strings"
	"testing"
)

func TestReadCSVAppliesNothing(t *testing.T) {
	csv := strings.Join([]string{
		"tract_id,county_fips,population,median_rent",
		"06075010100,075,4200,3100",
		"06075010200,075,3800,",
	}, "\n")

	table, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}
	if table.Rows[0].Population != 4200 {
		t.Errorf("population = %v, want 4200", table.Rows[0].Population)
	}
	// Blank cell stays absent until defaults are applied.
	if !math.IsNaN(table.Rows[1].MedianRent) {
		t.Errorf("blank median_rent should stay NaN, got %v", table.Rows[1].MedianRent)
	}
	if !math.IsNaN(table.Rows[0].MedianIncome) {
		t.Error("missing column should stay NaN in loader")
	}
}

func TestReadCSVRequiredColumns(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"no tract_id", "county_fips,population\n075,100"},
		{"no county_fips", "tract_id,population\n06075010100,100"},
		{"duplicate tract", "tract_id,county_fips\na,075\na,075"},
		{"empty tract id", "tract_id,county_fips\n,075"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	row := NewRow("06075010100", "075")
	row.HousingUnits = 1000
	ApplyDefaults(&row)

	if row.MedianRent != DefaultMedianRent {
		t.Errorf("median rent default = %v, want %v", row.MedianRent, DefaultMedianRent)
	}
	if row.VacancyRate != DefaultVacancyRate {
		t.Errorf("vacancy default = %v, want %v", row.VacancyRate, DefaultVacancyRate)
	}
	if row.MaxDensityUnits != 2000 {
		t.Errorf("max density should default to 2x units, got %v", row.MaxDensityUnits)
	}
	shares := row.CommuteModeCar + row.CommuteModeTransit + row.CommuteModeOther
	if math.Abs(shares-1.0) > 1e-9 {
		t.Errorf("default mode shares sum to %v, want 1", shares)
	}
}

func TestApplyDefaultsKeepsPresentValues(t *testing.T) {
	row := NewRow("x", "075")
	row.MedianRent = 1800
	ApplyDefaults(&row)
	if row.MedianRent != 1800 {
		t.Errorf("present value overwritten: %v", row.MedianRent)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	a := Synthesize(DefaultSynthConfig())
	b := Synthesize(DefaultSynthConfig())
	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		if a.Rows[i] != b.Rows[i] {
			t.Fatalf("row %d differs between identically seeded generations", i)
		}
	}
}

func TestSynthesizeSanity(t *testing.T) {
	table := Synthesize(DefaultSynthConfig())
	if err := table.Validate(); err != nil {
		t.Fatalf("synthetic table invalid: %v", err)
	}
	if len(table.Rows) != 9*16 {
		t.Fatalf("got %d tracts, want 144", len(table.Rows))
	}
	for _, r := range table.Rows {
		if _, ok := BayAreaCounties[r.CountyFIPS]; !ok {
			t.Errorf("tract %s has unknown county %s", r.TractID, r.CountyFIPS)
		}
		if r.Population <= 0 || r.HousingUnits <= 0 {
			t.Errorf("tract %s has non-positive stock", r.TractID)
		}
		shares := r.CommuteModeCar + r.CommuteModeTransit + r.CommuteModeOther
		if math.Abs(shares-1.0) > 1e-9 {
			t.Errorf("tract %s mode shares sum to %v", r.TractID, shares)
		}
		if r.TransitAccessibility < 0 || r.TransitAccessibility > 1 {
			t.Errorf("tract %s accessibility %v out of range", r.TractID, r.TransitAccessibility)
		}
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	cfg := DefaultSynthConfig()
	cfg.TractsPerSide = 2
	table := Synthesize(cfg)

	var buf strings.Builder
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(got.Rows) != len(table.Rows) {
		t.Fatalf("got %d rows, want %d", len(got.Rows), len(table.Rows))
	}
	for i := range table.Rows {
		if got.Rows[i] != table.Rows[i] {
			t.Errorf("row %d changed across round trip:\n got %+v\nwant %+v",
				i, got.Rows[i], table.Rows[i])
		}
	}
}

func TestWriteCSVKeepsAbsentCellsBlank(t *testing.T) {
	table := &Table{Rows: []Row{NewRow("06075010100", "075")}}

	var buf strings.Builder
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !math.IsNaN(got.Rows[0].Population) {
		t.Errorf("absent population came back as %v, want NaN", got.Rows[0].Population)
	}
	if !math.IsNaN(got.Rows[0].MedianRent) {
		t.Errorf("absent rent came back as %v, want NaN", got.Rows[0].MedianRent)
	}
}
