package agents

import (
	"fmt"
	"math"

	"github.com/talgya/metrosim/internal/baseline"
	"github.com/talgya/metrosim/internal/entropy"
)

// supervisorIdeologies are the eleven board seats' positions on the
// progressive (-1) to moderate (+1) axis.
var supervisorIdeologies = []float64{
	-0.8, -0.6, -0.3, 0.1, -0.2,
	-0.7, 0.2, -0.1, 0.3, -0.4, 0.0,
}

// Developer population constants.
const (
	developerCount        = 50
	developerCapitalMu    = 16.0
	developerCapitalSigma = 1.0
)

// SampleFromBaseline draws all five agent populations from a baseline
// table. Row order drives draw order, so a fixed seed reproduces the same
// populations exactly.
func SampleFromBaseline(table *baseline.Table, src *entropy.Source) *Population {
	pop := &Population{}
	pop.Households = sampleHouseholds(table, src)
	pop.Firms = sampleFirms(table, src)
	pop.DrugMarket = sampleDrugMarket(table)
	pop.Supervisors = seatSupervisors()
	pop.Developers = sampleDevelopers(table, src)
	return pop
}

func sampleHouseholds(table *baseline.Table, src *entropy.Source) []Household {
	var out []Household
	for _, row := range table.Rows {
		n := int(row.Households * HouseholdSampleRate)
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			income := math.Max(10000, src.Normal(row.MedianIncome, row.MedianIncome*0.4))
			mode := drawCommuteMode(src, row.CommuteModeCar, row.CommuteModeTransit, row.CommuteModeOther)
			out = append(out, Household{
				TractID:     row.TractID,
				Income:      income,
				RentShare:   math.Min(1.0, row.MedianRent*12/math.Max(income, 1)),
				CommuteMode: mode,
			})
		}
	}
	return out
}

func drawCommuteMode(src *entropy.Source, car, transit, other float64) CommuteMode {
	switch src.WeightedIndex([]float64{car, transit, other}) {
	case 1:
		return ModeTransit
	case 2:
		return ModeOther
	default:
		return ModeCar
	}
}

func sampleFirms(table *baseline.Table, src *entropy.Source) []Firm {
	var out []Firm
	for _, row := range table.Rows {
		n := int(row.BusinessesCount * BusinessSampleRate)
		for i := 0; i < n; i++ {
			out = append(out, Firm{
				TractID:   row.TractID,
				Revenue:   math.Max(10000, src.LogNormal(11.5, 1.0)),
				Employees: maxInt(1, int(src.LogNormal(1.5, 1.0))),
				Open:      true,
			})
		}
	}
	return out
}

// sampleDrugMarket seeds dealers and users proportional to baseline
// drug-market activity. No randomness: counts derive directly from the
// activity score.
func sampleDrugMarket(table *baseline.Table) []MarketParticipant {
	var out []MarketParticipant
	for _, row := range table.Rows {
		dealers := int(row.DrugMarketActivity * 5)
		users := int(row.DrugMarketActivity * 20)
		for i := 0; i < dealers; i++ {
			out = append(out, MarketParticipant{TractID: row.TractID, Role: RoleDealer, Active: true})
		}
		for i := 0; i < users; i++ {
			out = append(out, MarketParticipant{TractID: row.TractID, Role: RoleUser, Active: true})
		}
	}
	return out
}

func seatSupervisors() []Supervisor {
	out := make([]Supervisor, len(supervisorIdeologies))
	for i, ideology := range supervisorIdeologies {
		out[i] = Supervisor{
			District: i + 1,
			Name:     fmt.Sprintf("Supervisor D%d", i+1),
			Ideology: ideology,
		}
	}
	return out
}

func sampleDevelopers(table *baseline.Table, src *entropy.Source) []Developer {
	// Unique counties in row order.
	var counties []string
	seen := make(map[string]bool)
	for _, row := range table.Rows {
		if !seen[row.CountyFIPS] {
			seen[row.CountyFIPS] = true
			counties = append(counties, row.CountyFIPS)
		}
	}

	out := make([]Developer, 0, developerCount)
	for i := 0; i < developerCount; i++ {
		county := "075"
		if len(counties) > 0 {
			county = counties[src.Intn(len(counties))]
		}
		out = append(out, Developer{
			ID:              i,
			Capital:         src.LogNormal(developerCapitalMu, developerCapitalSigma),
			RiskThreshold:   0.10 + src.Float()*0.15,
			PreferredCounty: county,
		})
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
