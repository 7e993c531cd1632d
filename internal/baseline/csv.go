package baseline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// numericColumns maps baseline CSV headers to row field setters.
var numericColumns = map[string]func(*Row, float64){
	"housing_units":         func(r *Row, v float64) { r.HousingUnits = v },
	"vacancy_rate":          func(r *Row, v float64) { r.VacancyRate = v },
	"median_rent":           func(r *Row, v float64) { r.MedianRent = v },
	"median_home_price":     func(r *Row, v float64) { r.MedianHomePrice = v },
	"max_density_units":     func(r *Row, v float64) { r.MaxDensityUnits = v },
	"population":            func(r *Row, v float64) { r.Population = v },
	"households":            func(r *Row, v float64) { r.Households = v },
	"median_income":         func(r *Row, v float64) { r.MedianIncome = v },
	"businesses_count":      func(r *Row, v float64) { r.BusinessesCount = v },
	"crime_incidents":       func(r *Row, v float64) { r.CrimeIncidents = v },
	"drug_market_activity":  func(r *Row, v float64) { r.DrugMarketActivity = v },
	"transit_accessibility": func(r *Row, v float64) { r.TransitAccessibility = v },
	"transit_ridership":     func(r *Row, v float64) { r.TransitRidership = v },
	"commute_mode_car":      func(r *Row, v float64) { r.CommuteModeCar = v },
	"commute_mode_transit":  func(r *Row, v float64) { r.CommuteModeTransit = v },
	"commute_mode_other":    func(r *Row, v float64) { r.CommuteModeOther = v },
	"permit_timeline_days":  func(r *Row, v float64) { r.PermitTimelineDays = v },
	"area_sqmi":             func(r *Row, v float64) { r.AreaSqMi = v },
	"centroid_lat":          func(r *Row, v float64) { r.CentroidLat = v },
	"centroid_lon":          func(r *Row, v float64) { r.CentroidLon = v },
}

// ReadCSV parses a baseline table from CSV. The header row names the
// columns; tract_id and county_fips are required, everything else is
// optional and left for ApplyDefaults. Blank numeric cells stay absent.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read baseline header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	idCol, ok := col["tract_id"]
	if !ok {
		return nil, fmt.Errorf("baseline missing required column tract_id")
	}
	fipsCol, ok := col["county_fips"]
	if !ok {
		return nil, fmt.Errorf("baseline missing required column county_fips")
	}

	table := &Table{}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read baseline row %d: %w", line, err)
		}
		line++

		row := NewRow(record[idCol], record[fipsCol])
		for name, set := range numericColumns {
			i, ok := col[name]
			if !ok || i >= len(record) || record[i] == "" {
				continue
			}
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line, name, err)
			}
			set(&row, v)
		}
		table.Rows = append(table.Rows, row)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadCSV reads a baseline table from a CSV file on disk.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open baseline: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// csvColumns is the header order WriteCSV emits. ReadCSV accepts any
// column order, so the fixed order only keeps diffs between generated
// files readable.
var csvColumns = []string{
	"tract_id", "county_fips",
	"housing_units", "vacancy_rate", "median_rent", "median_home_price",
	"max_density_units", "population", "households", "median_income",
	"businesses_count", "crime_incidents", "drug_market_activity",
	"transit_accessibility", "transit_ridership",
	"commute_mode_car", "commute_mode_transit", "commute_mode_other",
	"permit_timeline_days", "area_sqmi", "centroid_lat", "centroid_lon",
}

// csvValues returns the row's numeric fields in csvColumns order,
// starting at housing_units. NaN fields become blank cells so a
// round-tripped table keeps its absent values absent.
func csvValues(r Row) []float64 {
	return []float64{
		r.HousingUnits, r.VacancyRate, r.MedianRent, r.MedianHomePrice,
		r.MaxDensityUnits, r.Population, r.Households, r.MedianIncome,
		r.BusinessesCount, r.CrimeIncidents, r.DrugMarketActivity,
		r.TransitAccessibility, r.TransitRidership,
		r.CommuteModeCar, r.CommuteModeTransit, r.CommuteModeOther,
		r.PermitTimelineDays, r.AreaSqMi, r.CentroidLat, r.CentroidLon,
	}
}

// WriteCSV writes the table in the format ReadCSV accepts.
func WriteCSV(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write baseline header: %w", err)
	}
	for _, row := range table.Rows {
		record := []string{row.TractID, row.CountyFIPS}
		for _, v := range csvValues(row) {
			if math.IsNaN(v) {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write baseline row %s: %w", row.TractID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a CSV file on disk.
func SaveCSV(path string, table *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create baseline: %w", err)
	}
	if err := WriteCSV(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
