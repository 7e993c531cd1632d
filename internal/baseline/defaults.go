package baseline

import "math"

// Bay-Area-typical defaults for absent baseline fields. This is the one
// place fallbacks are defined; initialization applies them and the engine
// never re-applies ad hoc substitutes downstream.
const (
	DefaultVacancyRate          = 0.065
	DefaultMedianRent           = 2500.0
	DefaultMedianHomePrice      = 800000.0
	DefaultMedianIncome         = 80000.0
	DefaultBusinessesCount      = 10.0
	DefaultTransitAccessibility = 0.5
	DefaultCommuteModeCar       = 0.6
	DefaultCommuteModeTransit   = 0.25
	DefaultCommuteModeOther     = 0.15
	DefaultPermitTimelineDays   = 400.0
)

// ApplyDefaults fills every absent (NaN) field of r in place. Max density
// defaults to twice the housing stock when the zoning column is missing.
func ApplyDefaults(r *Row) {
	fill := func(f *float64, def float64) {
		if math.IsNaN(*f) {
			*f = def
		}
	}

	fill(&r.HousingUnits, 0)
	fill(&r.VacancyRate, DefaultVacancyRate)
	fill(&r.MedianRent, DefaultMedianRent)
	fill(&r.MedianHomePrice, DefaultMedianHomePrice)
	fill(&r.Population, 0)
	fill(&r.Households, 0)
	fill(&r.MedianIncome, DefaultMedianIncome)
	fill(&r.BusinessesCount, DefaultBusinessesCount)
	fill(&r.CrimeIncidents, 0)
	fill(&r.DrugMarketActivity, 0)
	fill(&r.TransitAccessibility, DefaultTransitAccessibility)
	fill(&r.TransitRidership, 0)
	fill(&r.CommuteModeCar, DefaultCommuteModeCar)
	fill(&r.CommuteModeTransit, DefaultCommuteModeTransit)
	fill(&r.CommuteModeOther, DefaultCommuteModeOther)
	fill(&r.PermitTimelineDays, DefaultPermitTimelineDays)
	fill(&r.AreaSqMi, 0)
	fill(&r.CentroidLat, 0)
	fill(&r.CentroidLon, 0)

	// Zoning cap defaults to 2x current stock.
	fill(&r.MaxDensityUnits, r.HousingUnits*2)
}
