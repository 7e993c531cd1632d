package baseline

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// tractRecord mirrors the tracts table written by the data pipeline.
// Nullable columns stay absent and get filled by ApplyDefaults.
type tractRecord struct {
	TractID              string          `db:"tract_id"`
	CountyFIPS           string          `db:"county_fips"`
	HousingUnits         sql.NullFloat64 `db:"housing_units"`
	VacancyRate          sql.NullFloat64 `db:"vacancy_rate"`
	MedianRent           sql.NullFloat64 `db:"median_rent"`
	MedianHomePrice      sql.NullFloat64 `db:"median_home_price"`
	MaxDensityUnits      sql.NullFloat64 `db:"max_density_units"`
	Population           sql.NullFloat64 `db:"population"`
	Households           sql.NullFloat64 `db:"households"`
	MedianIncome         sql.NullFloat64 `db:"median_income"`
	BusinessesCount      sql.NullFloat64 `db:"businesses_count"`
	CrimeIncidents       sql.NullFloat64 `db:"crime_incidents"`
	DrugMarketActivity   sql.NullFloat64 `db:"drug_market_activity"`
	TransitAccessibility sql.NullFloat64 `db:"transit_accessibility"`
	TransitRidership     sql.NullFloat64 `db:"transit_ridership"`
	CommuteModeCar       sql.NullFloat64 `db:"commute_mode_car"`
	CommuteModeTransit   sql.NullFloat64 `db:"commute_mode_transit"`
	CommuteModeOther     sql.NullFloat64 `db:"commute_mode_other"`
	PermitTimelineDays   sql.NullFloat64 `db:"permit_timeline_days"`
	AreaSqMi             sql.NullFloat64 `db:"area_sqmi"`
	CentroidLat          sql.NullFloat64 `db:"centroid_lat"`
	CentroidLon          sql.NullFloat64 `db:"centroid_lon"`
}

func nullable(v sql.NullFloat64) float64 {
	if v.Valid {
		return v.Float64
	}
	return math.NaN()
}

// LoadSQLite reads a baseline table from the tracts table of a SQLite
// database, ordered by tract_id for a stable run order.
func LoadSQLite(path string) (*Table, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open baseline db: %w", err)
	}
	defer db.Close()

	var records []tractRecord
	if err := db.Select(&records, "SELECT * FROM tracts ORDER BY tract_id"); err != nil {
		return nil, fmt.Errorf("load tracts: %w", err)
	}

	table := &Table{Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		row := NewRow(rec.TractID, rec.CountyFIPS)
		row.HousingUnits = nullable(rec.HousingUnits)
		row.VacancyRate = nullable(rec.VacancyRate)
		row.MedianRent = nullable(rec.MedianRent)
		row.MedianHomePrice = nullable(rec.MedianHomePrice)
		row.MaxDensityUnits = nullable(rec.MaxDensityUnits)
		row.Population = nullable(rec.Population)
		row.Households = nullable(rec.Households)
		row.MedianIncome = nullable(rec.MedianIncome)
		row.BusinessesCount = nullable(rec.BusinessesCount)
		row.CrimeIncidents = nullable(rec.CrimeIncidents)
		row.DrugMarketActivity = nullable(rec.DrugMarketActivity)
		row.TransitAccessibility = nullable(rec.TransitAccessibility)
		row.TransitRidership = nullable(rec.TransitRidership)
		row.CommuteModeCar = nullable(rec.CommuteModeCar)
		row.CommuteModeTransit = nullable(rec.CommuteModeTransit)
		row.CommuteModeOther = nullable(rec.CommuteModeOther)
		row.PermitTimelineDays = nullable(rec.PermitTimelineDays)
		row.AreaSqMi = nullable(rec.AreaSqMi)
		row.CentroidLat = nullable(rec.CentroidLat)
		row.CentroidLon = nullable(rec.CentroidLon)
		table.Rows = append(table.Rows, row)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
