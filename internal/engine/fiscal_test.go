package engine

import (
	"math"
	"testing"
)

// fiscalState pins property tax and business counts to round numbers so
// revenue is exact: 2 tracts * (100k tax + 100 businesses * 200) = 240k.
func fiscalState(t *testing.T) *State {
	t.Helper()
	state, _, err := Initialize(twoTractTable(), DefaultConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	for _, tid := range state.TractIDs {
		tr := state.Tracts[tid]
		tr.PropertyTaxRevenue = 100000
		tr.BusinessesCount = 100
	}
	return state
}

func TestFiscalBaselineAllocation(t *testing.T) {
	state := fiscalState(t)
	state.updateFiscal(DefaultConfig())

	const wantRevenue = 240000.0
	if state.TotalRevenue != wantRevenue {
		t.Fatalf("total revenue = %v, want %v", state.TotalRevenue, wantRevenue)
	}
	var allocated float64
	for _, dept := range departmentOrder {
		want := DepartmentShares[dept] * wantRevenue
		got := state.DepartmentBudgets[dept]
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("%s budget = %v, want baseline share %v", dept, got, want)
		}
		allocated += got
	}
	if math.Abs(allocated-wantRevenue) > 1e-6 {
		t.Errorf("allocated %v of %v revenue", allocated, wantRevenue)
	}
}

func TestFiscalProtectedDepartments(t *testing.T) {
	state := fiscalState(t)
	cfg := DefaultConfig()
	cfg.Policy.BudgetReductionPct = 40
	cfg.Policy.ProtectedDepartments = []string{"police", "fire"}

	state.updateFiscal(cfg)

	total := state.TotalRevenue
	if got, want := state.DepartmentBudgets["police"], 0.28*total; math.Abs(got-want) > 1e-6 {
		t.Errorf("protected police budget = %v, want full share %v", got, want)
	}
	if got, want := state.DepartmentBudgets["fire"], 0.12*total; math.Abs(got-want) > 1e-6 {
		t.Errorf("protected fire budget = %v, want full share %v", got, want)
	}

	// Unprotected departments split what is left of the reduced budget
	// proportional to their baseline shares.
	remaining := total*0.6 - 0.40*total
	unprotectedShares := 1.0 - 0.28 - 0.12
	for _, dept := range []string{"transit", "health", "housing"} {
		want := remaining * DepartmentShares[dept] / unprotectedShares
		got := state.DepartmentBudgets[dept]
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("%s budget = %v, want %v", dept, got, want)
		}
		if got >= DepartmentShares[dept]*total {
			t.Errorf("%s budget %v not cut below baseline %v", dept, got, DepartmentShares[dept]*total)
		}
	}
}

func TestFiscalDeepCutNeverNegative(t *testing.T) {
	state := fiscalState(t)
	cfg := DefaultConfig()
	cfg.Policy.BudgetReductionPct = 50
	cfg.Policy.ProtectedDepartments = []string{
		"police", "fire", "transit", "public_works", "health", "housing",
	}
	cfg.Policy = cfg.Policy.Clamp()

	state.updateFiscal(cfg)
	for dept, budget := range state.DepartmentBudgets {
		if budget < 0 {
			t.Errorf("%s budget = %v, want >= 0", dept, budget)
		}
	}
}

func TestFiscalEnforcementTargeting(t *testing.T) {
	state := fiscalState(t)
	cfg := DefaultConfig()
	cfg.Policy.EnforcementMultiplier = 2.0
	cfg.Policy.EnforcementTargetTracts = []string{"A"}

	state.updateFiscal(cfg)

	// Full police budget keeps the ratio at 1, so the base level equals
	// the policy multiplier.
	if got, want := state.Tracts["A"].EnforcementLevel, 2.0*enforcementTargetBoost; math.Abs(got-want) > 1e-9 {
		t.Errorf("targeted enforcement = %v, want %v", got, want)
	}
	if got, want := state.Tracts["B"].EnforcementLevel, 2.0*enforcementElsewhereCut; math.Abs(got-want) > 1e-9 {
		t.Errorf("elsewhere enforcement = %v, want %v", got, want)
	}
}

func TestFiscalEnforcementTracksPoliceCuts(t *testing.T) {
	state := fiscalState(t)
	cfg := DefaultConfig()
	cfg.Policy.BudgetReductionPct = 30 // police unprotected, so it is cut

	state.updateFiscal(cfg)
	for _, tid := range state.TractIDs {
		if got := state.Tracts[tid].EnforcementLevel; got >= 1.0 {
			t.Errorf("tract %s enforcement = %v, want < 1 under a police cut", tid, got)
		}
	}
}
