// Firm agents: per-establishment revenue dynamics, closures below the
// revenue floor, and Poisson spawns from the SD formation rates.
package engine

import (
	"github.com/talgya/metrosim/internal/agents"
	"github.com/talgya/metrosim/internal/entropy"
)

const (
	// transitRevenueSlope converts accessibility above 0.5 into revenue upside.
	transitRevenueSlope = 0.6
	// crimeRevenuePenalty scales incident counts into a revenue drag.
	crimeRevenuePenalty = 0.0005
	// minRevenueThreshold is the per-step revenue floor to stay open.
	minRevenueThreshold = 5000.0
	// revenueBlend is the weight kept on existing revenue each step.
	revenueBlend = 0.9
)

// updateFirms advances firm agents one step: blend revenue toward a local
// step target with stochastic noise, close firms under the floor, and
// spawn new firms per tract from the SD-computed formation rate.
func (s *State) updateFirms(cfg *Config, src *entropy.Source) {
	crimePenalty := cfg.Params.Get("business_crime_penalty", -0.02)
	firms := s.Agents.Firms

	// Revenue update and closures.
	for i := range firms {
		if !firms[i].Open {
			continue
		}
		t := s.Tracts[firms[i].TractID]

		popFactor := clamp(t.Population/referencePopulation, 0.5, 2.0)
		transitFactor := 1.0 + transitRevenueSlope*(t.TransitAccessibility-0.5)
		crimeFactor := maxFloat(0.5, 1.0+t.CrimeIncidents*crimeRevenuePenalty*crimePenalty)
		shock := src.Normal(1.0, 0.05)

		target := firms[i].Revenue * popFactor * transitFactor * crimeFactor * shock
		firms[i].Revenue = maxFloat(0, revenueBlend*firms[i].Revenue+(1.0-revenueBlend)*target)

		if firms[i].Revenue < minRevenueThreshold {
			firms[i].Open = false
		}
	}

	// Spawns: one Poisson draw per tract at the SD formation rate.
	for _, tid := range s.TractIDs {
		rate := s.Tracts[tid].BusinessFormationRate
		n := src.Poisson(maxFloat(0, rate))
		for j := 0; j < n; j++ {
			s.Agents.Firms = append(s.Agents.Firms, agents.Firm{
				TractID:   tid,
				Revenue:   maxFloat(10000, src.LogNormal(11.5, 1.0)),
				Employees: maxInt(1, int(src.LogNormal(1.5, 1.0))),
				Open:      true,
			})
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
