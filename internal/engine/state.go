// Package engine implements the metro region policy simulation core: the
// tract-level system-dynamics model, the sampled agent populations, and the
// three-phase timestep loop that couples them.
package engine

import (
	"math"
	"sort"

	"github.com/talgya/metrosim/internal/agents"
	"github.com/talgya/metrosim/internal/baseline"
	"github.com/talgya/metrosim/internal/entropy"
)

// Tract is the per-tract simulation state. One record per tract, created at
// initialization and mutated in place every timestep; never destroyed.
type Tract struct {
	TractID    string
	CountyFIPS string

	// Housing
	HousingUnits         float64
	VacancyRate          float64 // in [0,1]
	MedianRent           float64
	MedianHomePrice      float64
	ConstructionPipeline float64 // units started, not yet complete
	MaxDensityUnits      float64 // zoning cap

	// Population
	Population   float64
	Households   float64
	MedianIncome float64

	// Business
	BusinessesCount       float64
	BusinessFormationRate float64
	BusinessClosureRate   float64

	// Crime
	CrimeIncidents     float64
	DrugMarketActivity float64
	EnforcementLevel   float64

	// Transit. The three mode shares sum to 1 after every transit update.
	TransitAccessibility float64
	TransitRidership     float64
	CommuteModeCar       float64
	CommuteModeTransit   float64
	CommuteModeOther     float64

	// Fiscal
	PropertyTaxRevenue float64
	PermitTimelineDays float64

	// Geography
	AreaSqMi    float64
	CentroidLat float64
	CentroidLon float64
}

// VoteRecord captures one board vote on the active policy.
type VoteRecord struct {
	Timestep       int      `json:"timestep"`
	Categories     []string `json:"categories"`
	PolicyIdeology float64  `json:"policy_ideology"`
	YesVotes       int      `json:"yes_votes"`
	TotalVotes     int      `json:"total_votes"`
	Passed         bool     `json:"passed"`
	VetoOverride   bool     `json:"veto_override"`
}

// State is the full simulation state of one run. Tract iteration always
// follows TractIDs (baseline row order) so runs are deterministic.
type State struct {
	Timestep int
	Tracts   map[string]*Tract
	TractIDs []string
	Agents   *agents.Population

	// Centroid-proximity adjacency, built once at initialization and
	// shared read-only by crime displacement and drug-market moves.
	Adjacency map[string][]string

	// Fiscal results of the latest Phase A, inspectable by hosts.
	DepartmentBudgets map[string]float64
	TotalRevenue      float64

	VoteHistory []VoteRecord
}

// NewState builds simulation state from a baseline table: tracts in row
// order with defaults applied, sampled agent populations, and the centroid
// adjacency structure.
func NewState(table *baseline.Table, src *entropy.Source) (*State, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	// Defaults are applied exactly once, here, to a working copy of the
	// table; both tract construction and agent sampling see filled rows.
	filled := &baseline.Table{Rows: make([]baseline.Row, len(table.Rows))}
	for i, row := range table.Rows {
		filled.Rows[i] = row
		baseline.ApplyDefaults(&filled.Rows[i])
	}

	s := &State{
		Tracts:            make(map[string]*Tract, len(filled.Rows)),
		TractIDs:          make([]string, 0, len(filled.Rows)),
		DepartmentBudgets: make(map[string]float64),
	}

	for i := range filled.Rows {
		r := filled.Rows[i]
		s.Tracts[r.TractID] = &Tract{
			TractID:              r.TractID,
			CountyFIPS:           r.CountyFIPS,
			HousingUnits:         r.HousingUnits,
			VacancyRate:          r.VacancyRate,
			MedianRent:           r.MedianRent,
			MedianHomePrice:      r.MedianHomePrice,
			MaxDensityUnits:      r.MaxDensityUnits,
			Population:           r.Population,
			Households:           r.Households,
			MedianIncome:         r.MedianIncome,
			BusinessesCount:      r.BusinessesCount,
			CrimeIncidents:       r.CrimeIncidents,
			DrugMarketActivity:   r.DrugMarketActivity,
			EnforcementLevel:     1.0,
			TransitAccessibility: r.TransitAccessibility,
			TransitRidership:     r.TransitRidership,
			CommuteModeCar:       r.CommuteModeCar,
			CommuteModeTransit:   r.CommuteModeTransit,
			CommuteModeOther:     r.CommuteModeOther,
			PermitTimelineDays:   r.PermitTimelineDays,
			AreaSqMi:             r.AreaSqMi,
			CentroidLat:          r.CentroidLat,
			CentroidLon:          r.CentroidLon,
		}
		s.TractIDs = append(s.TractIDs, r.TractID)
	}

	s.Agents = agents.SampleFromBaseline(filled, src)
	s.buildAdjacency(NeighborRadiusDeg)
	return s, nil
}

// --- numeric helpers shared across modules ---

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// median returns the median of vs, averaging the middle pair for even
// lengths. Returns def for an empty slice.
func median(vs []float64, def float64) float64 {
	if len(vs) == 0 {
		return def
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
