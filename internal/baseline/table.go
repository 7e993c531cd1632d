// Package baseline holds the tract-level baseline table the simulation
// initializes from, along with its loaders and the single documented
// defaults table. Downstream modules assume fully-populated rows; every
// fallback lives here and nowhere else.
package baseline

import (
	"fmt"
	"math"
)

// Row is one tract of baseline data. Numeric fields initialized to NaN are
// considered absent and filled by ApplyDefaults.
type Row struct {
	TractID    string
	CountyFIPS string

	// Housing
	HousingUnits    float64
	VacancyRate     float64
	MedianRent      float64
	MedianHomePrice float64
	MaxDensityUnits float64

	// Population
	Population   float64
	Households   float64
	MedianIncome float64

	// Business
	BusinessesCount float64

	// Crime
	CrimeIncidents     float64
	DrugMarketActivity float64

	// Transit
	TransitAccessibility float64
	TransitRidership     float64
	CommuteModeCar       float64
	CommuteModeTransit   float64
	CommuteModeOther     float64

	// Fiscal
	PermitTimelineDays float64

	// Geography
	AreaSqMi    float64
	CentroidLat float64
	CentroidLon float64
}

// NewRow returns a Row with every numeric field marked absent.
func NewRow(tractID, countyFIPS string) Row {
	nan := math.NaN()
	return Row{
		TractID:              tractID,
		CountyFIPS:           countyFIPS,
		HousingUnits:         nan,
		VacancyRate:          nan,
		MedianRent:           nan,
		MedianHomePrice:      nan,
		MaxDensityUnits:      nan,
		Population:           nan,
		Households:           nan,
		MedianIncome:         nan,
		BusinessesCount:      nan,
		CrimeIncidents:       nan,
		DrugMarketActivity:   nan,
		TransitAccessibility: nan,
		TransitRidership:     nan,
		CommuteModeCar:       nan,
		CommuteModeTransit:   nan,
		CommuteModeOther:     nan,
		PermitTimelineDays:   nan,
		AreaSqMi:             nan,
		CentroidLat:          nan,
		CentroidLon:          nan,
	}
}

// Table is an ordered collection of tract rows. Row order is preserved from
// the source and defines the deterministic iteration order of a run.
type Table struct {
	Rows []Row
}

// Validate checks the structural requirements: at least one row, non-empty
// tract IDs, and no duplicates.
func (t *Table) Validate() error {
	if len(t.Rows) == 0 {
		return fmt.Errorf("baseline table is empty")
	}
	seen := make(map[string]bool, len(t.Rows))
	for i, r := range t.Rows {
		if r.TractID == "" {
			return fmt.Errorf("row %d: missing tract_id", i)
		}
		if seen[r.TractID] {
			return fmt.Errorf("row %d: duplicate tract_id %q", i, r.TractID)
		}
		seen[r.TractID] = true
	}
	return nil
}
