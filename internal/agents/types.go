// Package agents holds the sampled agent populations of the simulation:
// households, firms, drug-market participants, supervisors, and developers.
// Tables are flat slices of small value structs mutated in place by index,
// which keeps per-step sweeps cache-friendly at tens of thousands of rows.
package agents

// Sampling scale factors. Agents are a sample of the true population; the
// factors apply exactly once, when agent counts are aggregated back into
// tract totals.
const (
	// HouseholdSampleRate is the fraction of real households simulated.
	HouseholdSampleRate = 0.1
	// HouseholdScale rescales sampled household counts to real counts.
	HouseholdScale = 1.0 / HouseholdSampleRate
	// BusinessSampleRate is the fraction of real businesses simulated.
	BusinessSampleRate = 0.2
	// BusinessScale rescales sampled business counts to real counts.
	BusinessScale = 1.0 / BusinessSampleRate
	// AvgHouseholdSize converts household counts to population estimates.
	AvgHouseholdSize = 2.5
)

// CommuteMode is a household's primary commute mode.
type CommuteMode uint8

const (
	ModeCar CommuteMode = iota
	ModeTransit
	ModeOther
)

// Household is one sampled household.
type Household struct {
	TractID     string
	Income      float64
	RentShare   float64 // annual rent / income, capped at 1
	CommuteMode CommuteMode
	WantsToMove bool
}

// Firm is one sampled business establishment.
type Firm struct {
	TractID   string
	Revenue   float64
	Employees int
	Open      bool
}

// MarketRole distinguishes drug-market participant types.
type MarketRole uint8

const (
	RoleDealer MarketRole = iota
	RoleUser
)

// MarketParticipant is one drug-market agent. Users can enter treatment;
// dealers can be displaced or exit under enforcement pressure.
type MarketParticipant struct {
	TractID     string
	Role        MarketRole
	Active      bool
	InTreatment bool // users only
}

// Supervisor is one elected board seat. Ideology runs from -1 (progressive)
// to +1 (moderate/conservative).
type Supervisor struct {
	District int
	Name     string
	Ideology float64
}

// Developer is one real-estate developer agent.
type Developer struct {
	ID              int
	Capital         float64
	RiskThreshold   float64 // minimum acceptable profit margin
	ActiveProjects  int
	PreferredCounty string
}

// Population bundles all five agent tables for a run.
type Population struct {
	Households  []Household
	Firms       []Firm
	DrugMarket  []MarketParticipant
	Supervisors []Supervisor
	Developers  []Developer
}
