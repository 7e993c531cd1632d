package engine

// Params is the flat dictionary of calibration coefficients shared
// read-only by every module during a run. Modules read by name with a
// fallback default so partially specified (or calibrated) sets still run.
type Params map[string]float64

// Get returns the named parameter, or def if absent.
func (p Params) Get(name string, def float64) float64 {
	if p == nil {
		return def
	}
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// DefaultParams returns the calibrated default parameter set.
func DefaultParams() Params {
	return Params{
		"housing_demand_elasticity":  -0.7,
		"housing_supply_elasticity":  0.8,
		"construction_cost_per_sqft": 1000.0,
		"construction_lag_steps":     52, // ~2 years of fortnightly steps
		"depreciation_rate":          0.005,
		"fare_elasticity":            -0.3,
		"service_elasticity":         0.6,
		"property_tax_rate":          0.0115,
		"displacement_coefficient":   0.7,
		"dealer_exit_rate":           0.3,
		"treatment_entry_rate":       0.2,
		"rent_burden_threshold":      0.5,
		"developer_profit_threshold": 0.15,
		"business_crime_penalty":     -0.02,
		"migration_sensitivity":      0.3,
	}
}
