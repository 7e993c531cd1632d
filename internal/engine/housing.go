// Housing system dynamics: DiPasquale-Wheaton rent adjustment, price
// capitalization, the construction pipeline, and depreciation.
package engine

import "math"

const (
	// NaturalVacancyRate is the equilibrium vacancy benchmark.
	NaturalVacancyRate = 0.065
	// BaseCapRate converts annualized rent into implied asset price.
	BaseCapRate = 0.04
	// rentAdjustmentSpeed scales the vacancy gap into a per-step rent move.
	rentAdjustmentSpeed = 0.02
	// avgUnitSqft is the assumed average unit size for cost estimates.
	avgUnitSqft = 850.0
	// minRent floors rents against runaway downward adjustment.
	minRent = 500.0
)

// updateHousing advances housing dynamics one step: rents move against the
// vacancy gap, prices capitalize rents, the pipeline starts and completes
// units, stock depreciates, and vacancy plus property tax are recomputed.
func (s *State) updateHousing(cfg *Config) {
	p := cfg.Params
	demandElasticity := p.Get("housing_demand_elasticity", -0.7)
	supplyElasticity := p.Get("housing_supply_elasticity", 0.8)
	constructionLag := p.Get("construction_lag_steps", 52)
	costPerSqft := p.Get("construction_cost_per_sqft", 1000.0)
	profitThreshold := p.Get("developer_profit_threshold", 0.15)
	depreciation := p.Get("depreciation_rate", 0.005)
	taxRate := p.Get("property_tax_rate", 0.0115)

	targeted := make(map[string]bool, len(cfg.Policy.TargetTractIDs))
	for _, tid := range cfg.Policy.TargetTractIDs {
		targeted[tid] = true
	}

	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]

		// Rent adjustment: tight markets (below natural vacancy) push
		// rents up, slack markets pull them down.
		vacancyGap := t.VacancyRate - NaturalVacancyRate
		rentChange := -vacancyGap * math.Abs(demandElasticity) * rentAdjustmentSpeed * 100.0
		t.MedianRent = maxFloat(minRent, t.MedianRent*(1.0+rentChange))

		// Price capitalization.
		t.MedianHomePrice = t.MedianRent * 12.0 / BaseCapRate

		// Construction starts, gated by zoning headroom and profitability.
		effectiveMax := t.MaxDensityUnits
		if targeted[tid] {
			effectiveMax *= cfg.Policy.DensityMultiplier
		}
		headroom := maxFloat(0, effectiveMax-t.HousingUnits-t.ConstructionPipeline)
		if headroom > 0 {
			costPerUnit := costPerSqft * avgUnitSqft
			margin := (t.MedianHomePrice - costPerUnit) / maxFloat(costPerUnit, 1.0)
			if margin > profitThreshold {
				starts := headroom * supplyElasticity * math.Min(margin, 0.5) * 0.01
				t.ConstructionPipeline += clamp(starts, 0, headroom)
			}
		}

		// Pipeline completions, lag-based fraction per step.
		if t.ConstructionPipeline > 0 && constructionLag > 0 {
			completions := t.ConstructionPipeline / constructionLag
			t.HousingUnits += completions
			t.ConstructionPipeline = maxFloat(0, t.ConstructionPipeline-completions)
		}

		// Depreciation, annual rate apportioned across the horizon.
		lost := t.HousingUnits * depreciation / float64(TotalTimesteps)
		t.HousingUnits = maxFloat(0, t.HousingUnits-lost)

		// Vacancy from occupancy.
		if t.HousingUnits > 0 {
			t.VacancyRate = clamp01(1.0 - t.Households/t.HousingUnits)
		} else {
			t.VacancyRate = 0
		}

		// Property tax, per-step share of the annual levy on occupied stock.
		t.PropertyTaxRevenue = t.MedianHomePrice * t.HousingUnits * (1.0 - t.VacancyRate) * taxRate / StepsPerYear
	}
}
