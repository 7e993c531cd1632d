package engine

// TractMetrics is the per-tract subset recorded in each snapshot.
type TractMetrics struct {
	HousingUnits         float64 `json:"housing_units"`
	VacancyRate          float64 `json:"vacancy_rate"`
	MedianRent           float64 `json:"median_rent"`
	MedianHomePrice      float64 `json:"median_home_price"`
	Population           float64 `json:"population"`
	BusinessesCount      float64 `json:"businesses_count"`
	CrimeIncidents       float64 `json:"crime_incidents"`
	DrugMarketActivity   float64 `json:"drug_market_activity"`
	TransitAccessibility float64 `json:"transit_accessibility"`
	CommuteModeTransit   float64 `json:"commute_mode_transit"`
	PropertyTaxRevenue   float64 `json:"property_tax_revenue"`
}

// Aggregate is the region-wide block of each snapshot.
type Aggregate struct {
	TotalPopulation     float64 `json:"total_population"`
	TotalHousingUnits   float64 `json:"total_housing_units"`
	AvgMedianRent       float64 `json:"avg_median_rent"`
	AvgVacancyRate      float64 `json:"avg_vacancy_rate"`
	TransitModeShare    float64 `json:"transit_mode_share"`
	TotalBusinesses     float64 `json:"total_businesses"`
	TotalCrimeIncidents float64 `json:"total_crime_incidents"`
}

// Snapshot captures the recorded state at one timestep.
type Snapshot struct {
	Timestep  int                     `json:"timestep"`
	Tracts    map[string]TractMetrics `json:"tracts"`
	Aggregate Aggregate               `json:"aggregate"`
}

// Snapshot captures the current state.
func (s *State) Snapshot() Snapshot {
	tracts := make(map[string]TractMetrics, len(s.TractIDs))
	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]
		tracts[tid] = TractMetrics{
			HousingUnits:         t.HousingUnits,
			VacancyRate:          t.VacancyRate,
			MedianRent:           t.MedianRent,
			MedianHomePrice:      t.MedianHomePrice,
			Population:           t.Population,
			BusinessesCount:      t.BusinessesCount,
			CrimeIncidents:       t.CrimeIncidents,
			DrugMarketActivity:   t.DrugMarketActivity,
			TransitAccessibility: t.TransitAccessibility,
			CommuteModeTransit:   t.CommuteModeTransit,
			PropertyTaxRevenue:   t.PropertyTaxRevenue,
		}
	}
	return Snapshot{
		Timestep:  s.Timestep,
		Tracts:    tracts,
		Aggregate: s.computeAggregate(),
	}
}

// computeAggregate derives the region-wide metrics: totals, a
// population-weighted average rent and transit mode share, and an
// unweighted mean vacancy rate.
func (s *State) computeAggregate() Aggregate {
	var agg Aggregate
	var rentWeighted, transitWeighted, vacancySum float64

	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]
		agg.TotalPopulation += t.Population
		agg.TotalHousingUnits += t.HousingUnits
		agg.TotalBusinesses += t.BusinessesCount
		agg.TotalCrimeIncidents += t.CrimeIncidents
		rentWeighted += t.MedianRent * t.Population
		transitWeighted += t.CommuteModeTransit * t.Population
		vacancySum += t.VacancyRate
	}

	if agg.TotalPopulation > 0 {
		agg.AvgMedianRent = rentWeighted / agg.TotalPopulation
		agg.TransitModeShare = transitWeighted / agg.TotalPopulation
	}
	if n := len(s.TractIDs); n > 0 {
		agg.AvgVacancyRate = vacancySum / float64(n)
	}
	return agg
}
