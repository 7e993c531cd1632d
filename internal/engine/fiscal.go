// Fiscal system dynamics: revenue, department budget allocation with
// protected floors, and the tract enforcement level derived from the
// police budget ratio.
package engine

// departmentOrder fixes allocation iteration order for determinism.
var departmentOrder = []string{
	"police", "fire", "transit", "public_works",
	"health", "housing", "parks", "admin",
}

// DepartmentShares are the baseline budget shares of total revenue.
var DepartmentShares = map[string]float64{
	"police":       0.28,
	"fire":         0.12,
	"transit":      0.15,
	"public_works": 0.10,
	"health":       0.12,
	"housing":      0.08,
	"parks":        0.05,
	"admin":        0.10,
}

// businessTaxPerStep is the per-business tax proxy collected each step.
const businessTaxPerStep = 200.0

// Enforcement targeting factors when the policy names target tracts:
// targeted tracts get a focused boost, the rest lose some coverage.
const (
	enforcementTargetBoost  = 1.5
	enforcementElsewhereCut = 0.9
)

// updateFiscal advances fiscal dynamics one step: total revenue, the
// budget-reduction cut, department allocation with protected departments
// keeping their full share of original revenue, and per-tract enforcement.
func (s *State) updateFiscal(cfg *Config) {
	policy := cfg.Policy

	// Revenue: property taxes plus a flat per-business tax.
	var propertyTax, businessCount float64
	for _, tid := range s.TractIDs {
		propertyTax += s.Tracts[tid].PropertyTaxRevenue
		businessCount += s.Tracts[tid].BusinessesCount
	}
	totalRevenue := propertyTax + businessCount*businessTaxPerStep
	s.TotalRevenue = totalRevenue

	// Budget reduction.
	availableBudget := totalRevenue * (1.0 - policy.BudgetReductionPct/100.0)

	// Allocation. Protected departments keep their baseline share of the
	// original revenue; the remainder splits across unprotected ones
	// proportional to their baseline shares.
	protected := make(map[string]bool, len(policy.ProtectedDepartments))
	for _, d := range policy.ProtectedDepartments {
		protected[d] = true
	}

	var protectedTotal, unprotectedShareTotal float64
	for _, dept := range departmentOrder {
		if protected[dept] {
			protectedTotal += DepartmentShares[dept] * totalRevenue
		} else {
			unprotectedShareTotal += DepartmentShares[dept]
		}
	}
	remaining := maxFloat(0, availableBudget-protectedTotal)

	budgets := make(map[string]float64, len(departmentOrder))
	for _, dept := range departmentOrder {
		share := DepartmentShares[dept]
		switch {
		case protected[dept]:
			budgets[dept] = share * totalRevenue
		case unprotectedShareTotal > 0:
			budgets[dept] = remaining * share / unprotectedShareTotal
		default:
			budgets[dept] = 0
		}
	}
	s.DepartmentBudgets = budgets

	// Enforcement level from the police budget ratio and the policy
	// multiplier, split by targeting.
	baselinePolice := DepartmentShares["police"] * totalRevenue
	budgetRatio := 1.0
	if baselinePolice > 0 {
		budgetRatio = budgets["police"] / baselinePolice
	}
	enforcementBase := budgetRatio * policy.EnforcementMultiplier

	targets := make(map[string]bool, len(policy.EnforcementTargetTracts))
	for _, tid := range policy.EnforcementTargetTracts {
		targets[tid] = true
	}
	for _, tid := range s.TractIDs {
		t := s.Tracts[tid]
		switch {
		case len(targets) > 0 && targets[tid]:
			t.EnforcementLevel = enforcementBase * enforcementTargetBoost
		case len(targets) > 0:
			t.EnforcementLevel = enforcementBase * enforcementElsewhereCut
		default:
			t.EnforcementLevel = enforcementBase
		}
	}
}
