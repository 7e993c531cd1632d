// Integration bridges between the agent layer and the tract-level system
// dynamics: agent aggregation into tract totals, and the reverse push of
// fresh tract context into agent state.
package engine

import (
	"math"

	"github.com/talgya/metrosim/internal/agents"
)

// aggregateAgents folds agent locations back into tract totals, applied
// once per step as the first Phase C pass. Sampled household and firm
// counts rescale by their sampling factors exactly once here; drug-market
// activity stays an unscaled agent-count proxy.
func (s *State) aggregateAgents() {
	// Households -> population, household counts, and mode shares.
	hh := s.Agents.Households
	if len(hh) > 0 {
		type modeCount struct {
			total, car, transit, other float64
		}
		counts := make(map[string]*modeCount, len(s.TractIDs))
		for i := range hh {
			mc := counts[hh[i].TractID]
			if mc == nil {
				mc = &modeCount{}
				counts[hh[i].TractID] = mc
			}
			mc.total++
			switch hh[i].CommuteMode {
			case agents.ModeCar:
				mc.car++
			case agents.ModeTransit:
				mc.transit++
			default:
				mc.other++
			}
		}

		for _, tid := range s.TractIDs {
			t := s.Tracts[tid]
			mc := counts[tid]
			if mc == nil {
				t.Households = 0
				t.Population = 0
				continue
			}
			t.Households = mc.total * agents.HouseholdScale
			t.Population = mc.total * agents.HouseholdScale * agents.AvgHouseholdSize
			// Mode shares recomputed only where sampled households exist,
			// so empty tracts keep valid shares.
			t.CommuteModeCar = mc.car / mc.total
			t.CommuteModeTransit = mc.transit / mc.total
			t.CommuteModeOther = mc.other / mc.total
		}
	}

	// Open firms -> business counts.
	if len(s.Agents.Firms) > 0 {
		firmCounts := make(map[string]float64, len(s.TractIDs))
		for i := range s.Agents.Firms {
			if s.Agents.Firms[i].Open {
				firmCounts[s.Agents.Firms[i].TractID]++
			}
		}
		for _, tid := range s.TractIDs {
			s.Tracts[tid].BusinessesCount = firmCounts[tid] * agents.BusinessScale
		}
	}

	// Active drug-market participants -> activity counts.
	if len(s.Agents.DrugMarket) > 0 {
		dmCounts := make(map[string]float64, len(s.TractIDs))
		for i := range s.Agents.DrugMarket {
			if s.Agents.DrugMarket[i].Active {
				dmCounts[s.Agents.DrugMarket[i].TractID]++
			}
		}
		for _, tid := range s.TractIDs {
			s.Tracts[tid].DrugMarketActivity = dmCounts[tid]
		}
	}
}

// pushTractContext refreshes agent state that caches tract-derived values,
// keeping agent context consistent with the same-step SD pass. Only
// household rent shares are cached; other agent modules read tract fields
// directly.
func (s *State) pushTractContext() {
	hh := s.Agents.Households
	for i := range hh {
		t := s.Tracts[hh[i].TractID]
		hh[i].RentShare = math.Min(1.0, t.MedianRent*12.0/maxFloat(hh[i].Income, 1.0))
	}
}
