// Board of Supervisors: annual policy votes by ideology alignment, with
// failed votes permanently dampening the active policy.
package engine

import (
	"math"

	"github.com/talgya/metrosim/internal/entropy"
)

// Vote thresholds on the eleven-seat board.
const (
	SimpleMajority = 6
	VetoOverride   = 8
)

// Policy category ideology positions: negative leans progressive,
// positive leans moderate/conservative.
var policyIdeology = map[string]float64{
	"density_increase":     -0.3,
	"enforcement_increase": 0.5,
	"budget_reduction":     0.7,
	"transit_subsidy":      -0.6,
	"permit_reform":        0.1,
	"treatment_expansion":  -0.4,
}

// categoryOrder fixes classification order for stable vote records.
var categoryOrder = []string{
	"density_increase", "enforcement_increase", "budget_reduction",
	"transit_subsidy", "permit_reform", "treatment_expansion",
}

// classifyPolicy returns the active policy categories in fixed order.
func classifyPolicy(p Policy) []string {
	active := map[string]bool{
		"density_increase":     p.DensityMultiplier > 1.0,
		"enforcement_increase": p.EnforcementMultiplier > 1.0,
		"budget_reduction":     p.BudgetReductionPct > 0,
		"transit_subsidy":      p.FareMultiplier < 1.0 || p.ServiceFrequencyMultiplier > 1.0,
		"permit_reform":        p.PermitReductionPct > 0,
		"treatment_expansion":  p.TreatmentBedsAdded > 0,
	}
	var out []string
	for _, c := range categoryOrder {
		if active[c] {
			out = append(out, c)
		}
	}
	return out
}

// alignmentProbability is the yes-vote probability for a supervisor at the
// given ideological distance from the policy: a logistic curve where close
// alignment approaches certainty.
func alignmentProbability(supervisorIdeology, policyIdeologyScore float64) float64 {
	distance := math.Abs(supervisorIdeology - policyIdeologyScore)
	return 1.0 / (1.0 + math.Exp(3.0*distance-1.5))
}

// updateCouncil runs the annual vote. A no-op except on vote steps. When
// the vote fails a simple majority, the run's policy is replaced by its
// dampened form for all remaining timesteps; this is the one place Phase B
// writes back into shared policy state.
func (s *State) updateCouncil(cfg *Config, src *entropy.Source) {
	if len(s.Agents.Supervisors) == 0 {
		return
	}
	if s.Timestep == 0 || s.Timestep%StepsPerYear != 0 {
		return
	}

	categories := classifyPolicy(cfg.Policy)
	if len(categories) == 0 {
		return
	}

	composite := 0.0
	for _, c := range categories {
		composite += policyIdeology[c]
	}
	composite /= float64(len(categories))

	yes := 0
	for _, sup := range s.Agents.Supervisors {
		if src.Float() < alignmentProbability(sup.Ideology, composite) {
			yes++
		}
	}

	record := VoteRecord{
		Timestep:       s.Timestep,
		Categories:     categories,
		PolicyIdeology: composite,
		YesVotes:       yes,
		TotalVotes:     len(s.Agents.Supervisors),
		Passed:         yes >= SimpleMajority,
		VetoOverride:   yes >= VetoOverride,
	}
	s.VoteHistory = append(s.VoteHistory, record)

	if !record.Passed {
		cfg.Policy = DampenPolicy(cfg.Policy)
	}
}
