// Developer agents: county-biased site scans, margin-gated construction
// starts, and lag-based project completions.
package engine

import "github.com/talgya/metrosim/internal/entropy"

const (
	// maxActiveProjects caps concurrent projects per developer.
	maxActiveProjects = 5
	// unitsPerProject is the fixed size of one started project.
	unitsPerProject = 50.0
	// Candidate scan sizes per step.
	preferredCandidates = 10
	otherCandidates     = 3
)

// updateDevelopers advances developer agents one step. Each developer
// under the project cap scans a county-biased candidate set, picks the
// highest-margin site whose cost fits half their capital, and starts a
// project when the margin clears both their personal risk threshold and
// the global profitability threshold. Active projects then complete as a
// binomial draw at one-over-construction-lag.
func (s *State) updateDevelopers(cfg *Config, src *entropy.Source) {
	devs := s.Agents.Developers
	if len(devs) == 0 {
		return
	}
	p := cfg.Params
	costPerSqft := p.Get("construction_cost_per_sqft", 1000.0)
	profitThreshold := p.Get("developer_profit_threshold", 0.15)
	constructionLag := p.Get("construction_lag_steps", 52)

	targeted := make(map[string]bool, len(cfg.Policy.TargetTractIDs))
	for _, tid := range cfg.Policy.TargetTractIDs {
		targeted[tid] = true
	}

	for i := range devs {
		d := &devs[i]
		if d.ActiveProjects >= maxActiveProjects {
			continue
		}

		candidates := s.sampleCandidates(d.PreferredCounty, src)

		bestTract := ""
		bestMargin := -1.0
		for _, tid := range candidates {
			t := s.Tracts[tid]

			effectiveMax := t.MaxDensityUnits
			if targeted[tid] {
				effectiveMax *= cfg.Policy.DensityMultiplier
			}
			headroom := effectiveMax - t.HousingUnits - t.ConstructionPipeline
			if headroom < unitsPerProject {
				continue
			}

			costPerUnit := costPerSqft * avgUnitSqft
			totalCost := costPerUnit * unitsPerProject
			totalRevenue := t.MedianHomePrice * unitsPerProject
			margin := (totalRevenue - totalCost) / maxFloat(totalCost, 1.0)

			if totalCost > d.Capital*0.5 {
				continue
			}
			if margin > bestMargin {
				bestMargin = margin
				bestTract = tid
			}
		}

		if bestTract != "" && bestMargin > maxFloat(d.RiskThreshold, profitThreshold) {
			s.Tracts[bestTract].ConstructionPipeline += unitsPerProject
			d.ActiveProjects++
		}
	}

	// Completions: each active project finishes with probability 1/lag.
	completionProb := 1.0 / maxFloat(constructionLag, 1.0)
	for i := range devs {
		if devs[i].ActiveProjects > 0 {
			done := src.Binomial(devs[i].ActiveProjects, completionProb)
			devs[i].ActiveProjects -= done
			if devs[i].ActiveProjects < 0 {
				devs[i].ActiveProjects = 0
			}
		}
	}
}

// sampleCandidates draws up to preferredCandidates tracts from the
// developer's preferred county and otherCandidates from everywhere else.
func (s *State) sampleCandidates(county string, src *entropy.Source) []string {
	var preferred, other []string
	for _, tid := range s.TractIDs {
		if s.Tracts[tid].CountyFIPS == county {
			preferred = append(preferred, tid)
		} else {
			other = append(other, tid)
		}
	}

	candidates := make([]string, 0, preferredCandidates+otherCandidates)
	if len(preferred) > preferredCandidates {
		for _, j := range src.SampleInts(len(preferred), preferredCandidates) {
			candidates = append(candidates, preferred[j])
		}
	} else {
		candidates = append(candidates, preferred...)
	}
	if len(other) > otherCandidates {
		for _, j := range src.SampleInts(len(other), otherCandidates) {
			candidates = append(candidates, other[j])
		}
	} else {
		candidates = append(candidates, other...)
	}
	return candidates
}
