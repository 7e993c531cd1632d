// Business system dynamics: tract-level formation and closure rates and
// the resulting business counts.
package engine

import "math"

const (
	// baseFormationPer1K is the formation rate per 1,000 residents per step.
	baseFormationPer1K = 0.02
	// baseClosureRate is the per-step closure fraction before pressure factors.
	baseClosureRate = 0.005
	// referenceIncome normalizes tract income to the regional median.
	referenceIncome = 80000.0
	// referencePopulation scales the customer-base factor.
	referencePopulation = 5000.0
)

// updateBusiness advances business dynamics one step: formation from
// population, income, transit access, and permit speed; closure from rent
// pressure, crime, and customer base; counts floored at zero.
func (s *State) updateBusiness(cfg *Config) {
	crimePenalty := cfg.Params.Get("business_crime_penalty", -0.02)
	permitReduction := cfg.Policy.PermitReductionPct / 100.0

	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]

		// Formation.
		popFactor := 0.0
		if t.Population > 0 {
			popFactor = t.Population / 1000.0
		}
		incomeFactor := t.MedianIncome / referenceIncome
		transitFactor := 0.8 + 0.4*t.TransitAccessibility // 0.8 - 1.2
		permitBoost := 1.0 + permitReduction*0.5          // up to 1.5x at full reduction

		formation := baseFormationPer1K * popFactor * incomeFactor * transitFactor * permitBoost
		t.BusinessFormationRate = maxFloat(0, formation)

		// Closure.
		rentPressure := 1.0
		if t.MedianIncome > 0 {
			rentPressure = t.MedianRent / t.MedianIncome
		}
		rentFactor := 1.0 + maxFloat(0, rentPressure-0.03)*2.0
		crimeFactor := 1.0 + t.CrimeIncidents*math.Abs(crimePenalty)*0.001
		customerBase := clamp(t.Population/referencePopulation, 0.5, 1.5)
		customerFactor := 1.5 - customerBase*0.5

		closure := baseClosureRate * rentFactor * crimeFactor * customerFactor
		t.BusinessClosureRate = clamp01(closure)

		// Count update.
		t.BusinessesCount = maxFloat(0, t.BusinessesCount+t.BusinessFormationRate-t.BusinessesCount*t.BusinessClosureRate)
	}
}
