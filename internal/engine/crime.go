// Crime system dynamics: enforcement suppression, displacement to
// centroid neighbors, and natural decay.
package engine

const (
	// crimeDecayRate is the per-step natural decay of incident counts.
	crimeDecayRate = 0.005
	// enforcementEffectiveness is the suppressed fraction per unit of
	// enforcement above baseline.
	enforcementEffectiveness = 0.03
	// displacementFraction is the share of suppressed incidents that
	// displaces rather than disappearing.
	displacementFraction = 0.4
)

// updateCrime advances crime dynamics one step. Suppression and
// displacement run as two passes: spillovers are fully accumulated before
// any are applied, so results do not depend on tract order.
func (s *State) updateCrime(cfg *Config) {
	displacementCoeff := cfg.Params.Get("displacement_coefficient", 0.7)

	spillover := make(map[string]float64, len(s.TractIDs))

	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]

		// Enforcement above baseline suppresses incidents.
		enforcementEffect := (t.EnforcementLevel - 1.0) * enforcementEffectiveness
		suppressed := t.CrimeIncidents * maxFloat(0, enforcementEffect)
		t.CrimeIncidents = maxFloat(0, t.CrimeIncidents-suppressed)

		// A fraction of suppression displaces, split evenly across
		// centroid neighbors.
		displaced := suppressed * displacementFraction * displacementCoeff
		neighbors := s.Adjacency[tid]
		if len(neighbors) > 0 && displaced > 0 {
			perNeighbor := displaced / float64(len(neighbors))
			for _, nid := range neighbors {
				spillover[nid] += perNeighbor
			}
		}
	}

	for _, tid := range s.TractIDs {
		s.Tracts[tid].CrimeIncidents = maxFloat(0, s.Tracts[tid].CrimeIncidents+spillover[tid])
	}

	// Natural decay after spillovers settle.
	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]
		t.CrimeIncidents = maxFloat(0, t.CrimeIncidents*(1.0-crimeDecayRate))
	}
}
