// Transit system dynamics: service-driven accessibility, fare-elastic
// ridership, and commute mode share rebalancing.
package engine

const (
	// transitShareCeiling caps the transit commute share.
	transitShareCeiling = 0.8
	// carShareFloor keeps some car mode share in every tract.
	carShareFloor = 0.05
)

// updateTransit advances transit dynamics one step. The three commute mode
// shares are renormalized to sum to 1 before the sweep leaves each tract.
func (s *State) updateTransit(cfg *Config) {
	p := cfg.Params
	fareElasticity := p.Get("fare_elasticity", -0.3)
	serviceElasticity := p.Get("service_elasticity", 0.6)

	fareMult := cfg.Policy.FareMultiplier
	serviceMult := cfg.Policy.ServiceFrequencyMultiplier
	fareChangePct := fareMult - 1.0 // free fares = -1.0

	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]

		// Accessibility moves with service frequency.
		baseAccess := t.TransitAccessibility
		t.TransitAccessibility = clamp01(baseAccess * (1.0 + (serviceMult-1.0)*serviceElasticity))

		// Ridership responds to fares and to service, multiplicatively.
		fareResponse := fareChangePct * fareElasticity
		t.TransitRidership = maxFloat(0, t.TransitRidership*(1.0+fareResponse*0.01))
		serviceBoost := (serviceMult - 1.0) * serviceElasticity * 0.01
		t.TransitRidership = maxFloat(0, t.TransitRidership*(1.0+serviceBoost))

		// Mode shares: transit share shifts by the accessibility delta plus
		// a fare effect, with car mode absorbing the opposite move.
		accessEffect := (t.TransitAccessibility - baseAccess) * 0.5
		fareEffect := fareChangePct * fareElasticity * 0.02
		newTransitShare := clamp(t.CommuteModeTransit+accessEffect+fareEffect, 0, transitShareCeiling)

		deltaActual := newTransitShare - t.CommuteModeTransit
		t.CommuteModeTransit = newTransitShare
		t.CommuteModeCar = clamp(t.CommuteModeCar-deltaActual, carShareFloor, 1.0)

		// Renormalize to sum to 1.
		total := t.CommuteModeCar + t.CommuteModeTransit + t.CommuteModeOther
		if total > 0 {
			t.CommuteModeCar /= total
			t.CommuteModeTransit /= total
			t.CommuteModeOther /= total
		}
	}
}
