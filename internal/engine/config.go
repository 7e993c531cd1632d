package engine

// Timestep cadence: fortnightly steps over a ten-year horizon.
const (
	TotalTimesteps = 260
	TimestepDays   = 14
	StepsPerYear   = 26
)

// Policy describes one intervention. A zero-effect policy has all
// multipliers at 1 and all additive fields at 0.
type Policy struct {
	// Housing / zoning
	DensityMultiplier float64  `yaml:"density_multiplier"`
	TargetTractIDs    []string `yaml:"target_tract_ids"`

	// Enforcement
	EnforcementMultiplier   float64  `yaml:"enforcement_budget_multiplier"`
	EnforcementTargetTracts []string `yaml:"enforcement_target_tracts"`
	TreatmentBedsAdded      int      `yaml:"treatment_beds_added"`

	// Fiscal
	BudgetReductionPct   float64  `yaml:"budget_reduction_pct"`
	ProtectedDepartments []string `yaml:"protected_departments"`

	// Transit
	FareMultiplier             float64 `yaml:"fare_multiplier"`
	ServiceFrequencyMultiplier float64 `yaml:"service_frequency_multiplier"`

	// Permits
	PermitReductionPct float64  `yaml:"permit_timeline_reduction_pct"`
	PermitTargetTypes  []string `yaml:"permit_target_types"`

	// Metadata
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// NeutralPolicy returns the no-intervention policy.
func NeutralPolicy() Policy {
	return Policy{
		DensityMultiplier:          1.0,
		EnforcementMultiplier:      1.0,
		FareMultiplier:             1.0,
		ServiceFrequencyMultiplier: 1.0,
		PermitTargetTypes:          []string{"residential"},
	}
}

// Clone returns a deep copy. Runs mutate their policy in place when a vote
// fails, so no two runs may share one Policy value's slices.
func (p Policy) Clone() Policy {
	out := p
	out.TargetTractIDs = append([]string(nil), p.TargetTractIDs...)
	out.EnforcementTargetTracts = append([]string(nil), p.EnforcementTargetTracts...)
	out.ProtectedDepartments = append([]string(nil), p.ProtectedDepartments...)
	out.PermitTargetTypes = append([]string(nil), p.PermitTargetTypes...)
	return out
}

// Clamp forces all policy magnitudes into their documented ranges. Hosts
// run this before handing a config to the engine; the engine itself does
// not re-validate.
func (p Policy) Clamp() Policy {
	p.DensityMultiplier = clamp(p.DensityMultiplier, 1.0, 5.0)
	p.EnforcementMultiplier = clamp(p.EnforcementMultiplier, 0.0, 10.0)
	p.TreatmentBedsAdded = clampInt(p.TreatmentBedsAdded, 0, 5000)
	p.BudgetReductionPct = clamp(p.BudgetReductionPct, 0.0, 50.0)
	if p.FareMultiplier < 0 {
		p.FareMultiplier = 0
	}
	p.ServiceFrequencyMultiplier = clamp(p.ServiceFrequencyMultiplier, 0.1, 5.0)
	p.PermitReductionPct = clamp(p.PermitReductionPct, 0.0, 100.0)
	return p
}

// DampenPolicy pulls every policy magnitude partway back toward neutral.
// Applied when the board rejects the intervention; the result replaces the
// run's policy for all remaining timesteps.
func DampenPolicy(p Policy) Policy {
	out := p.Clone()
	out.DensityMultiplier = maxFloat(1.0, p.DensityMultiplier*0.7)
	out.EnforcementMultiplier = 1.0 + (p.EnforcementMultiplier-1.0)*0.5
	out.BudgetReductionPct = p.BudgetReductionPct * 0.5
	out.ServiceFrequencyMultiplier = 1.0 + (p.ServiceFrequencyMultiplier-1.0)*0.5
	out.FareMultiplier = 1.0 + (p.FareMultiplier-1.0)*0.5
	out.PermitReductionPct = p.PermitReductionPct * 0.5
	return out
}

// Config is the full configuration of one run.
type Config struct {
	Policy     Policy `yaml:"policy"`
	Params     Params `yaml:"params"`
	TotalSteps int    `yaml:"total_steps"`
	RandomSeed int64  `yaml:"random_seed"`
}

// DefaultConfig returns a ten-year run of the neutral policy at the
// calibrated default parameters.
func DefaultConfig() *Config {
	return &Config{
		Policy:     NeutralPolicy(),
		Params:     DefaultParams(),
		TotalSteps: TotalTimesteps,
		RandomSeed: 42,
	}
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	out := &Config{
		Policy:     c.Policy.Clone(),
		Params:     make(Params, len(c.Params)),
		TotalSteps: c.TotalSteps,
		RandomSeed: c.RandomSeed,
	}
	for k, v := range c.Params {
		out.Params[k] = v
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
