// Package calibrate fits the engine's behavioral parameters to empirical
// regional targets, treating the simulation as a black box.
package calibrate

import (
	"math"

	"github.com/talgya/metrosim/internal/engine"
	"github.com/talgya/metrosim/internal/entropy"
)

// ParameterBound is the search range of one calibratable parameter.
type ParameterBound struct {
	Name    string
	Lower   float64
	Upper   float64
	Default float64
	// Integer restricts sampling to whole values (pipeline lags).
	Integer     bool
	Description string
}

// ParameterSpace is the full calibration search space. Order is fixed so
// seeded searches are reproducible.
var ParameterSpace = []ParameterBound{
	{Name: "housing_demand_elasticity", Lower: -1.2, Upper: -0.3, Default: -0.7,
		Description: "price elasticity of housing demand"},
	{Name: "housing_supply_elasticity", Lower: 0.3, Upper: 1.5, Default: 0.8,
		Description: "construction response to price"},
	{Name: "construction_cost_per_sqft", Lower: 600, Upper: 1500, Default: 1000,
		Description: "construction cost per square foot, USD"},
	{Name: "construction_lag_steps", Lower: 26, Upper: 78, Default: 52, Integer: true,
		Description: "pipeline completion lag, roughly one to three years"},
	{Name: "depreciation_rate", Lower: 0.001, Upper: 0.01, Default: 0.005,
		Description: "annual housing stock depreciation"},
	{Name: "fare_elasticity", Lower: -0.6, Upper: -0.1, Default: -0.3,
		Description: "ridership elasticity with respect to fares"},
	{Name: "service_elasticity", Lower: 0.3, Upper: 1.0, Default: 0.6,
		Description: "ridership elasticity with respect to service frequency"},
	{Name: "property_tax_rate", Lower: 0.008, Upper: 0.015, Default: 0.0115,
		Description: "effective annual property tax rate"},
	{Name: "displacement_coefficient", Lower: 0.3, Upper: 1.0, Default: 0.7,
		Description: "crime displacement under enforcement pressure"},
	{Name: "dealer_exit_rate", Lower: 0.1, Upper: 0.5, Default: 0.3,
		Description: "chance a displaced dealer exits the market"},
	{Name: "treatment_entry_rate", Lower: 0.05, Upper: 0.4, Default: 0.2,
		Description: "base per-step treatment entry probability"},
	{Name: "rent_burden_threshold", Lower: 0.3, Upper: 0.7, Default: 0.5,
		Description: "rent-to-income ratio that triggers moving"},
	{Name: "developer_profit_threshold", Lower: 0.05, Upper: 0.30, Default: 0.15,
		Description: "minimum margin for construction starts"},
	{Name: "business_crime_penalty", Lower: -0.05, Upper: -0.005, Default: -0.02,
		Description: "crime drag on business survival"},
	{Name: "migration_sensitivity", Lower: 0.1, Upper: 0.6, Default: 0.3,
		Description: "migration response to housing cost gaps"},
}

// DefaultPoint returns the parameter set at every bound's default.
func DefaultPoint() engine.Params {
	out := make(engine.Params, len(ParameterSpace))
	for _, b := range ParameterSpace {
		out[b.Name] = b.Default
	}
	return out
}

// Sample draws one value uniformly from the bound's range.
func (b ParameterBound) Sample(src *entropy.Source) float64 {
	v := b.Lower + src.Float()*(b.Upper-b.Lower)
	if b.Integer {
		v = math.Round(v)
	}
	return clampBound(v, b.Lower, b.Upper)
}

// SamplePoint draws a full parameter set uniformly from the space.
func SamplePoint(src *entropy.Source) engine.Params {
	out := make(engine.Params, len(ParameterSpace))
	for _, b := range ParameterSpace {
		out[b.Name] = b.Sample(src)
	}
	return out
}

// Contains reports whether every named parameter sits inside its bound.
// Parameters outside the space are ignored.
func Contains(p engine.Params) bool {
	for _, b := range ParameterSpace {
		v, ok := p[b.Name]
		if !ok {
			continue
		}
		if v < b.Lower || v > b.Upper {
			return false
		}
	}
	return true
}

func clampBound(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
