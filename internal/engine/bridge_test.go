package engine

import (
	"math"
	"testing"

	"github.com/talgya/metrosim/internal/agents"
)

func TestAggregateAgentsModeShares(t *testing.T) {
	state, _, err := Initialize(twoTractTable(), DefaultConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	state.Agents.Households = []agents.Household{
		{TractID: "A", Income: 50000, CommuteMode: agents.ModeCar},
		{TractID: "A", Income: 50000, CommuteMode: agents.ModeCar},
		{TractID: "A", Income: 50000, CommuteMode: agents.ModeTransit},
		{TractID: "A", Income: 50000, CommuteMode: agents.ModeOther},
	}
	state.Agents.Firms = nil
	state.Agents.DrugMarket = nil

	state.aggregateAgents()

	a := state.Tracts["A"]
	if a.Households != 40 || a.Population != 100 {
		t.Errorf("A households/population = %v/%v, want 40/100", a.Households, a.Population)
	}
	if a.CommuteModeCar != 0.5 || a.CommuteModeTransit != 0.25 || a.CommuteModeOther != 0.25 {
		t.Errorf("A shares = %v/%v/%v", a.CommuteModeCar, a.CommuteModeTransit, a.CommuteModeOther)
	}

	// B has no sampled households: counts zero out but the shares keep
	// their last valid values.
	b := state.Tracts["B"]
	if b.Households != 0 || b.Population != 0 {
		t.Errorf("B households/population = %v/%v, want 0/0", b.Households, b.Population)
	}
	sum := b.CommuteModeCar + b.CommuteModeTransit + b.CommuteModeOther
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("B shares sum to %v after zeroing", sum)
	}
}

func TestAggregateAgentsFirmsAndMarket(t *testing.T) {
	state, _, err := Initialize(twoTractTable(), DefaultConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	state.Agents.Firms = []agents.Firm{
		{TractID: "A", Revenue: 1e6, Employees: 5, Open: true},
		{TractID: "A", Revenue: 1e6, Employees: 5, Open: true},
		{TractID: "A", Revenue: 0, Employees: 0, Open: false}, // closed, not counted
		{TractID: "B", Revenue: 1e6, Employees: 5, Open: true},
	}
	state.Agents.DrugMarket = []agents.MarketParticipant{
		{TractID: "A", Role: agents.RoleDealer, Active: true},
		{TractID: "A", Role: agents.RoleUser, Active: true},
		{TractID: "A", Role: agents.RoleUser, Active: false},
	}

	state.aggregateAgents()

	if got := state.Tracts["A"].BusinessesCount; got != 2*agents.BusinessScale {
		t.Errorf("A businesses = %v, want %v", got, 2*agents.BusinessScale)
	}
	if got := state.Tracts["B"].BusinessesCount; got != 1*agents.BusinessScale {
		t.Errorf("B businesses = %v, want %v", got, 1*agents.BusinessScale)
	}
	// Activity is an unscaled count of active participants.
	if got := state.Tracts["A"].DrugMarketActivity; got != 2 {
		t.Errorf("A activity = %v, want 2", got)
	}
	if got := state.Tracts["B"].DrugMarketActivity; got != 0 {
		t.Errorf("B activity = %v, want 0", got)
	}
}

func TestPushTractContextRefreshesRentShares(t *testing.T) {
	state, _, err := Initialize(twoTractTable(), DefaultConfig())
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	state.Agents.Households = []agents.Household{
		{TractID: "A", Income: 48000, RentShare: 0.1},
	}
	state.Tracts["A"].MedianRent = 2000

	state.pushTractContext()
	if got := state.Agents.Households[0].RentShare; got != 0.5 {
		t.Errorf("rent share = %v, want refreshed 0.5", got)
	}
}
