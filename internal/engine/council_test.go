package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/talgya/metrosim/internal/agents"
	"github.com/talgya/metrosim/internal/entropy"
)

func TestClassifyPolicy(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Policy)
		want []string
	}{
		{"neutral policy", nil, nil},
		{
			"upzoning",
			func(p *Policy) { p.DensityMultiplier = 5.0 },
			[]string{"density_increase"},
		},
		{
			"free fares is a transit subsidy",
			func(p *Policy) { p.FareMultiplier = 0.0 },
			[]string{"transit_subsidy"},
		},
		{
			"more service is a transit subsidy",
			func(p *Policy) { p.ServiceFrequencyMultiplier = 1.5 },
			[]string{"transit_subsidy"},
		},
		{
			"combined policy keeps fixed order",
			func(p *Policy) {
				p.TreatmentBedsAdded = 500
				p.EnforcementMultiplier = 2.0
				p.BudgetReductionPct = 10
			},
			[]string{"enforcement_increase", "budget_reduction", "treatment_expansion"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NeutralPolicy()
			if tt.mut != nil {
				tt.mut(&p)
			}
			if got := classifyPolicy(p); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("classifyPolicy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlignmentProbability(t *testing.T) {
	// Perfect alignment: 1 / (1 + e^-1.5).
	if got, want := alignmentProbability(-0.6, -0.6), 1/(1+math.Exp(-1.5)); math.Abs(got-want) > 1e-12 {
		t.Errorf("aligned probability = %v, want %v", got, want)
	}
	// Monotone decreasing in distance.
	prev := 1.0
	for _, d := range []float64{0, 0.3, 0.6, 1.0, 1.6} {
		p := alignmentProbability(d, 0)
		if p >= prev {
			t.Errorf("probability at distance %v is %v, not below %v", d, p, prev)
		}
		prev = p
	}
	// Symmetric around the policy position.
	if a, b := alignmentProbability(0.5, 0), alignmentProbability(-0.5, 0); a != b {
		t.Errorf("probability not symmetric: %v vs %v", a, b)
	}
}

func councilState(t *testing.T, ideology float64) *State {
	t.Helper()
	state, _, err := Initialize(twoTractTable(), DefaultConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	board := make([]agents.Supervisor, 11)
	for i := range board {
		board[i] = agents.Supervisor{District: i + 1, Ideology: ideology}
	}
	state.Agents.Supervisors = board
	return state
}

func TestCouncilVotesOnlyOnAnniversaries(t *testing.T) {
	state := councilState(t, 0)
	cfg := DefaultConfig()
	cfg.Policy.DensityMultiplier = 2.0
	src := entropy.NewSource(1)

	for _, step := range []int{0, 1, 13, 25, 27} {
		state.Timestep = step
		state.updateCouncil(cfg, src)
	}
	if len(state.VoteHistory) != 0 {
		t.Fatalf("votes recorded off-anniversary: %+v", state.VoteHistory)
	}

	state.Timestep = StepsPerYear
	state.updateCouncil(cfg, src)
	if len(state.VoteHistory) != 1 {
		t.Fatalf("got %d vote records at the anniversary, want 1", len(state.VoteHistory))
	}
	rec := state.VoteHistory[0]
	if rec.Timestep != StepsPerYear || rec.TotalVotes != 11 {
		t.Errorf("vote record = %+v", rec)
	}
	if !reflect.DeepEqual(rec.Categories, []string{"density_increase"}) {
		t.Errorf("categories = %v", rec.Categories)
	}
	if rec.PolicyIdeology != -0.3 {
		t.Errorf("composite ideology = %v, want -0.3", rec.PolicyIdeology)
	}
}

func TestCouncilNeutralPolicySkipsVote(t *testing.T) {
	state := councilState(t, 0)
	state.Timestep = StepsPerYear
	state.updateCouncil(DefaultConfig(), entropy.NewSource(1))
	if len(state.VoteHistory) != 0 {
		t.Errorf("neutral policy should not be put to a vote, got %+v", state.VoteHistory)
	}
}

func TestCouncilFailedVoteDampensPolicy(t *testing.T) {
	// A uniformly conservative board (+1.0) faces a transit subsidy at
	// -0.6: each yes probability is under 4%, so a majority is effectively
	// impossible at any seed.
	state := councilState(t, 1.0)
	cfg := DefaultConfig()
	cfg.Policy.FareMultiplier = 0.5
	cfg.Policy.ServiceFrequencyMultiplier = 2.0

	state.Timestep = StepsPerYear
	state.updateCouncil(cfg, entropy.NewSource(7))

	if len(state.VoteHistory) != 1 {
		t.Fatalf("got %d vote records, want 1", len(state.VoteHistory))
	}
	rec := state.VoteHistory[0]
	if rec.Passed {
		t.Fatalf("vote passed with %d yes votes against a hostile board", rec.YesVotes)
	}
	if got := cfg.Policy.FareMultiplier; got != 0.75 {
		t.Errorf("dampened fare multiplier = %v, want 0.75", got)
	}
	if got := cfg.Policy.ServiceFrequencyMultiplier; got != 1.5 {
		t.Errorf("dampened service multiplier = %v, want 1.5", got)
	}
}

func TestCouncilRepeatedFailuresConvergeToNeutral(t *testing.T) {
	state := councilState(t, 1.0)
	cfg := DefaultConfig()
	cfg.Policy.DensityMultiplier = 4.0
	cfg.Policy.FareMultiplier = 0.0
	src := entropy.NewSource(3)

	for year := 1; year <= 20; year++ {
		state.Timestep = year * StepsPerYear
		state.updateCouncil(cfg, src)
	}
	if math.Abs(cfg.Policy.DensityMultiplier-1.0) > 0.01 {
		t.Errorf("density multiplier = %v, want near 1 after repeated failures", cfg.Policy.DensityMultiplier)
	}
	if math.Abs(cfg.Policy.FareMultiplier-1.0) > 0.01 {
		t.Errorf("fare multiplier = %v, want near 1 after repeated failures", cfg.Policy.FareMultiplier)
	}
}
