// Household agents: rent-burden evaluation, multinomial-logit relocation,
// and commute mode redraws.
package engine

import (
	"math"

	"github.com/talgya/metrosim/internal/agents"
	"github.com/talgya/metrosim/internal/entropy"
)

// Destination utility coefficients for the relocation logit.
const (
	logitRentCoeff        = -2.0
	logitIncomeMatchCoeff = 1.0
	logitTransitCoeff     = 0.8
	logitCrimeCoeff       = -1.5
	// crimeNormalizer scales incident counts into the utility range.
	crimeNormalizer = 1000.0
	// maxMoveFraction caps movers per step as a share of all households.
	maxMoveFraction = 0.05
)

// updateHouseholds advances household agents one step: refresh rent
// burdens, flag movers past the threshold, relocate a capped random subset
// via softmax over tract utilities, and redraw commute modes at the
// destination.
func (s *State) updateHouseholds(cfg *Config, src *entropy.Source) {
	hh := s.Agents.Households
	if len(hh) == 0 {
		return
	}
	threshold := cfg.Params.Get("rent_burden_threshold", 0.5)

	// Rent share refresh and mover flags.
	var movers []int
	for i := range hh {
		t := s.Tracts[hh[i].TractID]
		hh[i].RentShare = math.Min(1.0, t.MedianRent*12.0/maxFloat(hh[i].Income, 1.0))
		hh[i].WantsToMove = hh[i].RentShare > threshold
		if hh[i].WantsToMove {
			movers = append(movers, i)
		}
	}
	if len(movers) == 0 {
		return
	}

	// Cap movers per step; random subset when over the cap.
	maxMovers := int(float64(len(hh)) * maxMoveFraction)
	if len(movers) > maxMovers {
		picked := src.SampleInts(len(movers), maxMovers)
		capped := make([]int, 0, maxMovers)
		for _, j := range picked {
			capped = append(capped, movers[j])
		}
		movers = capped
	}

	utilities := make([]float64, len(s.TractIDs))
	for _, i := range movers {
		h := &hh[i]

		// Utility per destination tract.
		for j, tid := range s.TractIDs {
			t := s.Tracts[tid]
			rentShare := t.MedianRent * 12.0 / maxFloat(h.Income, 1.0)
			incomeMatch := 1.0 - math.Abs(t.MedianIncome-h.Income)/maxFloat(t.MedianIncome, 1.0)
			crimeNorm := t.CrimeIncidents / crimeNormalizer
			utilities[j] = logitRentCoeff*rentShare +
				logitIncomeMatchCoeff*incomeMatch +
				logitTransitCoeff*t.TransitAccessibility +
				logitCrimeCoeff*crimeNorm
		}

		dest := s.TractIDs[softmaxDraw(utilities, src)]
		h.TractID = dest
		h.WantsToMove = false

		// Redraw commute mode from the destination's share distribution.
		t := s.Tracts[dest]
		switch src.WeightedIndex([]float64{t.CommuteModeCar, t.CommuteModeTransit, t.CommuteModeOther}) {
		case 1:
			h.CommuteMode = agents.ModeTransit
		case 2:
			h.CommuteMode = agents.ModeOther
		default:
			h.CommuteMode = agents.ModeCar
		}
	}

	// Post-move rent share refresh.
	for i := range hh {
		t := s.Tracts[hh[i].TractID]
		hh[i].RentShare = math.Min(1.0, t.MedianRent*12.0/maxFloat(hh[i].Income, 1.0))
	}
}

// softmaxDraw converts utilities into a probability distribution via a
// max-shifted softmax and draws one index.
func softmaxDraw(utilities []float64, src *entropy.Source) int {
	maxU := utilities[0]
	for _, u := range utilities[1:] {
		if u > maxU {
			maxU = u
		}
	}
	weights := make([]float64, len(utilities))
	for i, u := range utilities {
		weights[i] = math.Exp(u - maxU)
	}
	if idx := src.WeightedIndex(weights); idx >= 0 {
		return idx
	}
	return 0
}
