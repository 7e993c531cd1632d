// Cross-system linkages: the feedback loops between housing, crime,
// transit, and density applied at the end of each timestep.
package engine

import "math"

const (
	// rentMigrationRatio marks a tract as high-rent relative to the
	// population-weighted regional comparison.
	rentMigrationRatio = 1.2
	// crimeClosureThreshold is the incident count past which crime adds
	// business-closure pressure.
	crimeClosureThreshold = 50.0
	// crimeClosureScale converts excess incidents into a closure addend.
	crimeClosureScale = 0.0001
	// transitPremiumThreshold is the accessibility level past which
	// transit adds a rent/price premium.
	transitPremiumThreshold = 0.7
	// transitPremiumSlope scales excess accessibility into the premium.
	transitPremiumSlope = 0.05
	// densityServiceRatio marks a tract as over-dense relative to the
	// regional median population.
	densityServiceRatio = 1.5
	// densityServiceScale converts excess density into lost accessibility.
	densityServiceScale = 0.001
)

// applyLinkages runs the four cross-system feedbacks: rent-driven
// migration pressure, crime-driven closure pressure, transit premium on
// rents/prices, and unmet service demand in over-dense tracts.
func (s *State) applyLinkages(cfg *Config) {
	migrationSens := cfg.Params.Get("migration_sensitivity", 0.3)
	crimePenalty := cfg.Params.Get("business_crime_penalty", -0.02)

	rents := make([]float64, 0, len(s.TractIDs))
	pops := make([]float64, 0, len(s.TractIDs))
	for _, tid := range s.TractIDs {
		rents = append(rents, s.Tracts[tid].MedianRent)
		pops = append(pops, s.Tracts[tid].Population)
	}
	medianRent := median(rents, 2500.0)
	medianPop := median(pops, 5000.0)

	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]

		// Rent -> migration pressure.
		rentRatio := t.MedianRent / maxFloat(medianRent, 1.0)
		if rentRatio > rentMigrationRatio {
			pressure := (rentRatio - rentMigrationRatio) * migrationSens * 0.01
			t.Population = maxFloat(0, t.Population*(1.0-pressure))
			t.Households = maxFloat(0, t.Households*(1.0-pressure))
		}

		// Crime -> business climate.
		if t.CrimeIncidents > crimeClosureThreshold {
			impact := t.CrimeIncidents * math.Abs(crimePenalty) * crimeClosureScale
			t.BusinessClosureRate = clamp01(t.BusinessClosureRate + impact)
		}

		// Transit -> housing demand.
		if t.TransitAccessibility > transitPremiumThreshold {
			premium := (t.TransitAccessibility - transitPremiumThreshold) * transitPremiumSlope
			t.MedianRent *= 1.0 + premium
			t.MedianHomePrice *= 1.0 + premium
		}

		// Density -> unmet service demand.
		popRatio := t.Population / maxFloat(medianPop, 1.0)
		if popRatio > densityServiceRatio {
			gap := (popRatio - densityServiceRatio) * densityServiceScale
			t.TransitAccessibility = clamp01(t.TransitAccessibility - gap)
		}
	}
}
