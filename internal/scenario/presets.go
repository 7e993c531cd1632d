// Package scenario bundles the preset policy experiments and YAML scenario
// loading for the simulation engine.
package scenario

import (
	"fmt"
	"sort"

	"github.com/talgya/metrosim/internal/engine"
)

// MissionSoMaTracts are representative census tracts for the Mission
// District and SoMa (SF county FIPS 075).
var MissionSoMaTracts = []string{
	"06075017700", // Mission, 24th St corridor
	"06075017601", // Mission, Valencia/Mission
	"06075017602", // Mission, 16th St area
	"06075017800", // Inner Mission
	"06075017900", // Mission Dolores
	"06075017500", // Mission, Cesar Chavez
	"06075060200", // SoMa, 2nd/3rd St
	"06075060100", // SoMa, Howard/Folsom
	"06075060400", // SoMa, Brannan area
	"06075060300", // SoMa, Townsend
}

// TenderloinTracts are the census tracts covering the Tenderloin and its
// Mid-Market edge.
var TenderloinTracts = []string{
	"06075012400", // Tenderloin core
	"06075012300", // Tenderloin north
	"06075012500", // Tenderloin south / Civic Center
	"06075012200", // Lower Nob Hill edge
	"06075012600", // Mid-Market / 6th St corridor
}

// HousingDensity upzones Mission and SoMa to five times current density.
func HousingDensity() *engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Policy.DensityMultiplier = 5.0
	cfg.Policy.TargetTractIDs = append([]string(nil), MissionSoMaTracts...)
	cfg.Policy.Name = "5x Density in Mission/SoMa"
	cfg.Policy.Description = "Upzone Mission District and SoMa to allow 5x current density. " +
		"Tests effects on housing supply, rents, displacement, and transit demand."
	return cfg
}

// DrugEnforcement doubles enforcement in the Tenderloin and adds 500
// treatment beds.
func DrugEnforcement() *engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Policy.EnforcementMultiplier = 2.0
	cfg.Policy.EnforcementTargetTracts = append([]string(nil), TenderloinTracts...)
	cfg.Policy.TreatmentBedsAdded = 500
	cfg.Policy.Name = "Tenderloin Enforcement + Treatment"
	cfg.Policy.Description = "Double police enforcement in Tenderloin tracts while adding 500 " +
		"treatment beds. Tests dealer displacement, user treatment uptake, and spillover " +
		"effects on neighboring areas."
	return cfg
}

// BudgetReduction cuts the city budget 40% with fire and police protected.
func BudgetReduction() *engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Policy.BudgetReductionPct = 40.0
	cfg.Policy.ProtectedDepartments = []string{"fire", "police"}
	cfg.Policy.Name = "40% Budget Cut (Fire/Police Protected)"
	cfg.Policy.Description = "Reduce the city budget by 40% while protecting fire and police " +
		"departments at current funding levels. All other departments absorb proportionally " +
		"larger cuts."
	return cfg
}

// PermitReform cuts the ~400 day residential permit timeline to 90 days.
func PermitReform() *engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Policy.PermitReductionPct = 77.5
	cfg.Policy.PermitTargetTypes = []string{"residential"}
	cfg.Policy.Name = "90-Day Residential Permits"
	cfg.Policy.Description = "Reduce the average residential permit timeline from ~400 days " +
		"to 90 days. Tests effects on construction starts, supply growth, and downstream rents."
	return cfg
}

// TransitSubsidy makes transit free and raises service frequency by half.
func TransitSubsidy() *engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Policy.FareMultiplier = 0.0
	cfg.Policy.ServiceFrequencyMultiplier = 1.5
	cfg.Policy.Name = "Free Muni + 50% Frequency Increase"
	cfg.Policy.Description = "Eliminate transit fares entirely and increase service frequency " +
		"by 50%. Tests ridership response, mode share gains, and fiscal implications."
	return cfg
}

// presets maps scenario keys to their builders.
var presets = map[string]func() *engine.Config{
	"housing_density":  HousingDensity,
	"drug_enforcement": DrugEnforcement,
	"budget_reduction": BudgetReduction,
	"permit_reform":    PermitReform,
	"transit_subsidy":  TransitSubsidy,
}

// Names returns the preset scenario keys in sorted order.
func Names() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Preset returns a fresh config for the named scenario.
func Preset(name string) (*engine.Config, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (have %v)", name, Names())
	}
	return build(), nil
}
