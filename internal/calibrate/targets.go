package calibrate

import "math"

// Target is one empirical metric the calibrated model should reproduce.
type Target struct {
	Name         string
	Value        float64
	Unit         string
	Weight       float64
	TolerancePct float64
	Source       string
}

// Targets are the Bay Area empirical anchors, circa 2023-2024.
var Targets = []Target{
	{Name: "sf_median_rent", Value: 3500, Unit: "USD/month", Weight: 2.0,
		TolerancePct: 10, Source: "Zillow/Census ACS 2023"},
	{Name: "bay_area_vacancy_rate", Value: 0.065, Unit: "fraction", Weight: 1.5,
		TolerancePct: 15, Source: "Census ACS 2023"},
	{Name: "sf_transit_mode_share", Value: 0.34, Unit: "fraction", Weight: 1.5,
		TolerancePct: 10, Source: "ACS Commuting Data 2023"},
	{Name: "bay_area_median_home_price", Value: 1_200_000, Unit: "USD", Weight: 1.0,
		TolerancePct: 15, Source: "Redfin/Zillow 2024"},
	{Name: "sf_crime_rate_per_1k", Value: 55, Unit: "incidents/1000 pop", Weight: 1.0,
		TolerancePct: 20, Source: "SFPD CompStat 2023"},
	{Name: "bay_area_business_count", Value: 250_000, Unit: "businesses", Weight: 0.5,
		TolerancePct: 20, Source: "Census County Business Patterns 2022"},
	{Name: "sf_property_tax_revenue_annual", Value: 3_800_000_000, Unit: "USD/year", Weight: 0.5,
		TolerancePct: 15, Source: "SF Controller's Office FY2023"},
	{Name: "muni_annual_ridership", Value: 150_000_000, Unit: "rides/year", Weight: 1.0,
		TolerancePct: 20, Source: "SFMTA 2023"},
	{Name: "sf_housing_units", Value: 400_000, Unit: "units", Weight: 1.0,
		TolerancePct: 5, Source: "Census ACS 2023"},
	{Name: "bay_area_population", Value: 7_750_000, Unit: "people", Weight: 0.5,
		TolerancePct: 5, Source: "Census 2023 estimate"},
}

// WeightedRMSE scores simulated outputs against the targets: per-target
// squared error normalized by the target magnitude, weighted, then rooted.
// Targets missing from outputs are skipped; an empty overlap scores +Inf.
func WeightedRMSE(outputs map[string]float64) float64 {
	var sum, totalWeight float64
	for _, t := range Targets {
		simVal, ok := outputs[t.Name]
		if !ok {
			continue
		}
		var nse float64
		if math.Abs(t.Value) > 1e-10 {
			rel := (simVal - t.Value) / t.Value
			nse = rel * rel
		} else {
			diff := simVal - t.Value
			nse = diff * diff
		}
		sum += t.Weight * nse
		totalWeight += t.Weight
	}
	if totalWeight == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(sum / totalWeight)
}

// WithinTolerance reports whether each supplied output lands inside its
// target's acceptable band. Outputs without a target are ignored.
func WithinTolerance(outputs map[string]float64) map[string]bool {
	out := make(map[string]bool)
	for _, t := range Targets {
		simVal, ok := outputs[t.Name]
		if !ok {
			continue
		}
		if math.Abs(t.Value) <= 1e-10 {
			out[t.Name] = simVal == t.Value
			continue
		}
		dev := math.Abs(simVal-t.Value) / math.Abs(t.Value) * 100
		out[t.Name] = dev <= t.TolerancePct
	}
	return out
}
