package engine

import (
	"testing"

	"github.com/talgya/metrosim/internal/agents"
	"github.com/talgya/metrosim/internal/entropy"
)

func developerState(t *testing.T, devs []agents.Developer) *State {
	t.Helper()
	state, _, err := Initialize(twoTractTable(), DefaultConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	state.Agents.Developers = devs
	return state
}

func TestDevelopersStartProfitableProjects(t *testing.T) {
	devs := []agents.Developer{
		{ID: 1, Capital: 1e10, RiskThreshold: 0.10, PreferredCounty: "075"},
	}
	state := developerState(t, devs)
	// Tract A: ample headroom and a price far above the 850k unit cost.
	a := state.Tracts["A"]
	a.MedianHomePrice = 2_000_000
	a.HousingUnits = 1000
	a.MaxDensityUnits = 5000
	a.ConstructionPipeline = 0
	// Tract B: no headroom at all.
	b := state.Tracts["B"]
	b.MedianHomePrice = 2_000_000
	b.HousingUnits = 1000
	b.MaxDensityUnits = 1000
	b.ConstructionPipeline = 0

	state.updateDevelopers(DefaultConfig(), entropy.NewSource(17))

	if a.ConstructionPipeline != unitsPerProject {
		t.Errorf("A pipeline = %v, want one project of %v units", a.ConstructionPipeline, unitsPerProject)
	}
	if b.ConstructionPipeline != 0 {
		t.Errorf("B pipeline = %v, want 0 without zoning headroom", b.ConstructionPipeline)
	}
	// With a 1/52 completion chance the single project almost always stays
	// active; either way the count stays within [0, 1].
	if ap := state.Agents.Developers[0].ActiveProjects; ap < 0 || ap > 1 {
		t.Errorf("active projects = %d", ap)
	}
}

func TestDevelopersRespectCapitalConstraint(t *testing.T) {
	// Project cost is 850k/unit * 50 units = 42.5M; half of this capital
	// cannot cover it.
	devs := []agents.Developer{
		{ID: 1, Capital: 1e6, RiskThreshold: 0.10, PreferredCounty: "075"},
	}
	state := developerState(t, devs)
	a := state.Tracts["A"]
	a.MedianHomePrice = 2_000_000
	a.HousingUnits = 1000
	a.MaxDensityUnits = 5000

	state.updateDevelopers(DefaultConfig(), entropy.NewSource(17))

	if a.ConstructionPipeline != 0 {
		t.Errorf("pipeline = %v, want 0 for an undercapitalized developer", a.ConstructionPipeline)
	}
	if state.Agents.Developers[0].ActiveProjects != 0 {
		t.Error("undercapitalized developer started a project")
	}
}

func TestDevelopersSkipThinMargins(t *testing.T) {
	devs := []agents.Developer{
		{ID: 1, Capital: 1e10, RiskThreshold: 0.10, PreferredCounty: "075"},
	}
	state := developerState(t, devs)
	for _, tid := range state.TractIDs {
		tr := state.Tracts[tid]
		// Margin exactly 10%, under the 15% global threshold.
		tr.MedianHomePrice = 850000 * 1.10
		tr.HousingUnits = 1000
		tr.MaxDensityUnits = 5000
	}

	state.updateDevelopers(DefaultConfig(), entropy.NewSource(17))
	for _, tid := range state.TractIDs {
		if got := state.Tracts[tid].ConstructionPipeline; got != 0 {
			t.Errorf("tract %s pipeline = %v, want 0 at a thin margin", tid, got)
		}
	}
}

func TestDevelopersProjectCap(t *testing.T) {
	devs := []agents.Developer{
		{ID: 1, Capital: 1e10, RiskThreshold: 0.10, PreferredCounty: "075", ActiveProjects: maxActiveProjects},
	}
	state := developerState(t, devs)
	a := state.Tracts["A"]
	a.MedianHomePrice = 2_000_000
	a.HousingUnits = 1000
	a.MaxDensityUnits = 5000

	state.updateDevelopers(DefaultConfig(), entropy.NewSource(17))
	if a.ConstructionPipeline != 0 {
		t.Errorf("pipeline = %v, want 0 when the developer is at capacity", a.ConstructionPipeline)
	}
	if ap := state.Agents.Developers[0].ActiveProjects; ap > maxActiveProjects {
		t.Errorf("active projects = %d, want <= %d", ap, maxActiveProjects)
	}
}
