package engine

import (
	"math"
	"reflect"
	"testing"

	"github.com/talgya/metrosim/internal/baseline"
)

// tractRow builds one baseline row for tests. Fields left untouched by mut
// fall through to the documented defaults at initialization.
func tractRow(id, fips string, lat, lon float64, mut func(*baseline.Row)) baseline.Row {
	r := baseline.NewRow(id, fips)
	r.CentroidLat = lat
	r.CentroidLon = lon
	if mut != nil {
		mut(&r)
	}
	return r
}

// twoTractTable returns adjacent tracts A and B (centroids well inside the
// neighbor radius) with round-number stocks.
func twoTractTable() *baseline.Table {
	pop := func(r *baseline.Row) {
		r.Population = 5000
		r.Households = 2000
		r.HousingUnits = 2100
		r.BusinessesCount = 100
		r.CrimeIncidents = 80
		r.DrugMarketActivity = 4
	}
	return &baseline.Table{Rows: []baseline.Row{
		tractRow("A", "075", 37.75, -122.42, pop),
		tractRow("B", "075", 37.76, -122.42, pop),
	}}
}

func smallSynthetic() *baseline.Table {
	cfg := baseline.DefaultSynthConfig()
	cfg.TractsPerSide = 2
	return baseline.Synthesize(cfg)
}

func shortConfig(steps int) *Config {
	cfg := DefaultConfig()
	cfg.TotalSteps = steps
	return cfg
}

func TestRunDeterminism(t *testing.T) {
	table := smallSynthetic()
	cfg := shortConfig(12)
	cfg.Policy.DensityMultiplier = 2.0
	cfg.Policy.ServiceFrequencyMultiplier = 1.5

	a, aVotes, err := Run(table, cfg, 2, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, bVotes, err := Run(table, cfg, 2, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical seed and config produced different snapshot sequences")
	}
	if !reflect.DeepEqual(aVotes, bVotes) {
		t.Fatal("identical seed and config produced different vote histories")
	}
}

func TestRunSeedSensitivity(t *testing.T) {
	table := smallSynthetic()
	cfgA := shortConfig(12)
	cfgB := shortConfig(12)
	cfgB.RandomSeed = 43

	a, _, _ := Run(table, cfgA, 2, nil)
	b, _, _ := Run(table, cfgB, 2, nil)
	if reflect.DeepEqual(a, b) {
		t.Fatal("different seeds produced identical snapshot sequences")
	}
}

func TestRunDoesNotMutateCallerConfig(t *testing.T) {
	table := smallSynthetic()
	cfg := shortConfig(StepsPerYear * 2)
	cfg.Policy.BudgetReductionPct = 40 // conservative policy, likely to fail votes
	before := cfg.Policy.Clone()

	if _, _, err := Run(table, cfg, 10, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(cfg.Policy, before) {
		t.Error("Run mutated the caller's policy; it must operate on a deep copy")
	}
}

func TestSnapshotCadence(t *testing.T) {
	table := smallSynthetic()
	tests := []struct {
		name     string
		steps    int
		interval int
		want     int // snapshot count including the baseline
	}{
		{"final step off-interval", 10, 4, 4}, // 0, 4, 8, 10
		{"final step on-interval", 9, 3, 4},   // 0, 3, 6, 9
		{"every step", 3, 1, 4},               // 0, 1, 2, 3
		{"interval past horizon", 2, 100, 2},  // 0, 2
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps, _, err := Run(table, shortConfig(tt.steps), tt.interval, nil)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(snaps) != tt.want {
				t.Fatalf("got %d snapshots, want %d", len(snaps), tt.want)
			}
			if snaps[0].Timestep != 0 {
				t.Errorf("first snapshot at step %d, want baseline 0", snaps[0].Timestep)
			}
			if last := snaps[len(snaps)-1].Timestep; last != tt.steps {
				t.Errorf("last snapshot at step %d, want %d", last, tt.steps)
			}
		})
	}
}

func TestProgressCallback(t *testing.T) {
	table := smallSynthetic()
	var calls []int
	_, _, err := Run(table, shortConfig(5), 2, func(step, total int) {
		if total != 5 {
			t.Errorf("progress total = %d, want 5", total)
		}
		calls = append(calls, step)
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(calls) != 5 {
		t.Fatalf("progress called %d times, want 5", len(calls))
	}
	for i, step := range calls {
		if step != i+1 {
			t.Errorf("call %d reported step %d", i, step)
		}
	}
}

func TestRunInvariants(t *testing.T) {
	table := smallSynthetic()
	cfg := shortConfig(20)
	cfg.Policy.ServiceFrequencyMultiplier = 2.0
	cfg.Policy.FareMultiplier = 0.5

	state, src, err := Initialize(table, cfg)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	for step := 1; step <= cfg.TotalSteps; step++ {
		state.Timestep = step
		state.phaseA(cfg)
		state.phaseB(cfg, src)
		state.phaseC(cfg)

		for _, tid := range state.TractIDs {
			tr := state.Tracts[tid]
			shares := tr.CommuteModeCar + tr.CommuteModeTransit + tr.CommuteModeOther
			if math.Abs(shares-1.0) > 1e-6 {
				t.Fatalf("step %d tract %s: mode shares sum to %v", step, tid, shares)
			}
			if tr.VacancyRate < 0 || tr.VacancyRate > 1 {
				t.Fatalf("step %d tract %s: vacancy %v out of [0,1]", step, tid, tr.VacancyRate)
			}
			for name, v := range map[string]float64{
				"population":      tr.Population,
				"households":      tr.Households,
				"housing_units":   tr.HousingUnits,
				"businesses":      tr.BusinessesCount,
				"crime_incidents": tr.CrimeIncidents,
			} {
				if v < 0 {
					t.Fatalf("step %d tract %s: %s = %v, want >= 0", step, tid, name, v)
				}
			}
		}
	}
}

func TestZeroPolicyStability(t *testing.T) {
	table := smallSynthetic()
	cfg := shortConfig(StepsPerYear)

	snaps, _, err := Run(table, cfg, 1, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	initial := snaps[0].Aggregate.TotalPopulation
	final := snaps[len(snaps)-1].Aggregate.TotalPopulation
	if initial <= 0 {
		t.Fatal("baseline population must be positive")
	}
	drift := math.Abs(final-initial) / initial
	if drift > 0.05 {
		t.Errorf("neutral policy drifted population by %.1f%% over one year, want <= 5%%", drift*100)
	}
}

func TestInitializeRejectsBadTable(t *testing.T) {
	cfg := DefaultConfig()
	if _, _, err := Initialize(&baseline.Table{}, cfg); err == nil {
		t.Error("empty table should fail initialization")
	}
	dup := &baseline.Table{Rows: []baseline.Row{
		tractRow("A", "075", 0, 0, nil),
		tractRow("A", "075", 0, 0, nil),
	}}
	if _, _, err := Initialize(dup, cfg); err == nil {
		t.Error("duplicate tract IDs should fail initialization")
	}
}

func TestSamplingRoundTrip(t *testing.T) {
	// Round-number households/businesses make the resampled aggregates
	// exact; population tolerates the household-size approximation.
	table := &baseline.Table{Rows: []baseline.Row{
		tractRow("A", "075", 37.70, -122.40, func(r *baseline.Row) {
			r.Households = 2000
			r.Population = 5000
			r.BusinessesCount = 100
			r.HousingUnits = 2100
		}),
		tractRow("B", "001", 37.90, -122.20, func(r *baseline.Row) {
			r.Households = 1000
			r.Population = 2500
			r.BusinessesCount = 50
			r.HousingUnits = 1100
		}),
	}}
	state, _, err := Initialize(table, DefaultConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	state.aggregateAgents()

	for tid, want := range map[string]struct{ hh, pop, biz float64 }{
		"A": {2000, 5000, 100},
		"B": {1000, 2500, 50},
	} {
		tr := state.Tracts[tid]
		if tr.Households != want.hh {
			t.Errorf("tract %s households = %v, want %v", tid, tr.Households, want.hh)
		}
		if tr.Population != want.pop {
			t.Errorf("tract %s population = %v, want %v", tid, tr.Population, want.pop)
		}
		if tr.BusinessesCount != want.biz {
			t.Errorf("tract %s businesses = %v, want %v", tid, tr.BusinessesCount, want.biz)
		}
	}
}

func TestAdjacencySymmetricAndRadiusBound(t *testing.T) {
	table := &baseline.Table{Rows: []baseline.Row{
		tractRow("A", "075", 37.750, -122.420, nil),
		tractRow("B", "075", 37.760, -122.420, nil), // ~0.01 from A
		tractRow("C", "075", 37.900, -122.420, nil), // far from both
	}}
	state, _, err := Initialize(table, DefaultConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if got := state.Adjacency["A"]; len(got) != 1 || got[0] != "B" {
		t.Errorf("A neighbors = %v, want [B]", got)
	}
	if got := state.Adjacency["B"]; len(got) != 1 || got[0] != "A" {
		t.Errorf("B neighbors = %v, want [A]", got)
	}
	if got := state.Adjacency["C"]; len(got) != 0 {
		t.Errorf("C neighbors = %v, want none", got)
	}
}

func TestComputeAggregateWeighting(t *testing.T) {
	table := twoTractTable()
	state, _, err := Initialize(table, DefaultConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	state.Tracts["A"].MedianRent = 3000
	state.Tracts["B"].MedianRent = 1000
	state.Tracts["A"].Population = 3000
	state.Tracts["B"].Population = 1000

	agg := state.computeAggregate()
	// Population-weighted rent: (3000*3000 + 1000*1000) / 4000 = 2500.
	if math.Abs(agg.AvgMedianRent-2500) > 1e-9 {
		t.Errorf("weighted rent = %v, want 2500", agg.AvgMedianRent)
	}
	if agg.TotalPopulation != 4000 {
		t.Errorf("total population = %v, want 4000", agg.TotalPopulation)
	}
}

func TestMedianHelper(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
		{"empty uses default", nil, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.in, 9); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRunReturnsVoteHistory(t *testing.T) {
	table := smallSynthetic()
	cfg := shortConfig(StepsPerYear)
	cfg.Policy.BudgetReductionPct = 40

	_, votes, err := Run(table, cfg, 10, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("got %d vote records over one year, want 1", len(votes))
	}
	v := votes[0]
	if v.Timestep != StepsPerYear {
		t.Errorf("vote at step %d, want %d", v.Timestep, StepsPerYear)
	}
	if len(v.Categories) != 1 || v.Categories[0] != "budget_reduction" {
		t.Errorf("vote categories = %v, want [budget_reduction]", v.Categories)
	}
	if v.TotalVotes != 11 {
		t.Errorf("total votes = %d, want the 11 board seats", v.TotalVotes)
	}
}

func TestRunNeutralPolicyHasNoVotes(t *testing.T) {
	table := smallSynthetic()
	_, votes, err := Run(table, shortConfig(StepsPerYear), 10, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(votes) != 0 {
		t.Errorf("neutral policy recorded %d votes, want none", len(votes))
	}
}
