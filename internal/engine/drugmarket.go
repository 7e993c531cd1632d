// Drug-market agents: dealer displacement under enforcement pressure,
// user treatment entry, and the tract activity recount.
package engine

import (
	"github.com/talgya/metrosim/internal/agents"
	"github.com/talgya/metrosim/internal/entropy"
)

// updateDrugMarket advances drug-market agents one step. Dealers facing
// above-baseline enforcement displace toward lower-enforcement neighbors
// or exit; users probabilistically enter treatment, boosted by added beds;
// tract activity is then recounted from the surviving active agents.
func (s *State) updateDrugMarket(cfg *Config, src *entropy.Source) {
	dm := s.Agents.DrugMarket
	if len(dm) == 0 {
		return
	}
	p := cfg.Params
	displacementCoeff := p.Get("displacement_coefficient", 0.7)
	dealerExitRate := p.Get("dealer_exit_rate", 0.3)
	treatmentEntryRate := p.Get("treatment_entry_rate", 0.2)
	treatmentBeds := cfg.Policy.TreatmentBedsAdded

	// Dealer displacement.
	for i := range dm {
		if dm[i].Role != agents.RoleDealer || !dm[i].Active {
			continue
		}
		enf := s.Tracts[dm[i].TractID].EnforcementLevel
		displacementProb := clamp01((enf - 1.0) * displacementCoeff * 0.1)
		if src.Float() >= displacementProb {
			continue
		}

		// Prefer a lower-enforcement neighbor; otherwise exit the market.
		var lower []string
		for _, nid := range s.Adjacency[dm[i].TractID] {
			if s.Tracts[nid].EnforcementLevel < enf {
				lower = append(lower, nid)
			}
		}
		if len(lower) > 0 && src.Float() > dealerExitRate {
			dm[i].TractID = lower[src.Intn(len(lower))]
		} else {
			dm[i].Active = false
		}
	}

	// User treatment entry. Added beds raise the entry rate, capped.
	bedsBoost := clamp01(float64(treatmentBeds)/1000.0) * 0.3
	effectiveRate := clamp01(treatmentEntryRate + bedsBoost)
	for i := range dm {
		if dm[i].Role != agents.RoleUser || !dm[i].Active || dm[i].InTreatment {
			continue
		}
		if src.Float() < effectiveRate*0.01 {
			dm[i].InTreatment = true
			dm[i].Active = false
		}
	}

	// Recount tract activity from active agents. This is an agent-count
	// proxy, deliberately unscaled.
	counts := make(map[string]float64, len(s.TractIDs))
	for i := range dm {
		if dm[i].Active {
			counts[dm[i].TractID]++
		}
	}
	for _, tid := range s.TractIDs {
		s.Tracts[tid].DrugMarketActivity = counts[tid]
	}
}
