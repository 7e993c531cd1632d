package engine

import (
	"github.com/talgya/metrosim/internal/baseline"
	"github.com/talgya/metrosim/internal/entropy"
)

// DefaultSnapshotInterval records every second (roughly monthly) step.
const DefaultSnapshotInterval = 2

// ProgressFunc reports loop progress once per completed timestep.
type ProgressFunc func(currentStep, totalSteps int)

// Initialize builds run state from a baseline table and seeds the single
// random source used for every stochastic draw of the run.
func Initialize(table *baseline.Table, cfg *Config) (*State, *entropy.Source, error) {
	src := entropy.NewSource(cfg.RandomSeed)
	state, err := NewState(table, src)
	if err != nil {
		return nil, nil, err
	}
	return state, src, nil
}

// Run executes the full simulation and returns the ordered snapshot
// sequence plus the board vote history. Snapshots cover the baseline
// before step 1, every snapshotInterval-th step, and unconditionally the
// final step.
//
// The config is deep-copied up front; a failed board vote dampens the
// copy's policy for the remainder of the run without touching the
// caller's value. Identical (baseline, config, seed) inputs produce an
// identical snapshot sequence.
func Run(table *baseline.Table, cfg *Config, snapshotInterval int, progress ProgressFunc) ([]Snapshot, []VoteRecord, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()
	if snapshotInterval <= 0 {
		snapshotInterval = DefaultSnapshotInterval
	}

	state, src, err := Initialize(table, cfg)
	if err != nil {
		return nil, nil, err
	}

	snapshots := []Snapshot{state.Snapshot()}

	for step := 1; step <= cfg.TotalSteps; step++ {
		state.Timestep = step

		state.phaseA(cfg)
		state.phaseB(cfg, src)
		state.phaseC(cfg)

		if step%snapshotInterval == 0 || step == cfg.TotalSteps {
			snapshots = append(snapshots, state.Snapshot())
		}
		if progress != nil {
			progress(step, cfg.TotalSteps)
		}
	}

	return snapshots, state.VoteHistory, nil
}

// phaseA runs the system-dynamics modules in fixed order. Later modules
// consume values the earlier ones produce within the same step: fiscal
// derives enforcement from housing/business tax outputs, and crime
// consumes that same-step enforcement level.
func (s *State) phaseA(cfg *Config) {
	s.updateHousing(cfg)
	s.updateTransit(cfg)
	s.updateFiscal(cfg)
	s.updateCrime(cfg)
	s.updateBusiness(cfg)
}

// phaseB runs the agent modules in fixed order. The council module may
// dampen cfg.Policy in place on a failed vote; that is the one backward
// flow from Phase B into shared policy state.
func (s *State) phaseB(cfg *Config, src *entropy.Source) {
	s.updateHouseholds(cfg, src)
	s.updateDrugMarket(cfg, src)
	s.updateFirms(cfg, src)
	s.updateCouncil(cfg, src)
	s.updateDevelopers(cfg, src)
}

// phaseC aggregates agents back into tract totals, refreshes agent context
// from the just-updated tracts, and applies the cross-system linkages.
func (s *State) phaseC(cfg *Config) {
	s.aggregateAgents()
	s.pushTractContext()
	s.applyLinkages(cfg)
}
