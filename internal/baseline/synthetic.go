package baseline

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// BayAreaCounties maps the nine county FIPS codes (state 06) to names.
var BayAreaCounties = map[string]string{
	"001": "Alameda",
	"013": "Contra Costa",
	"041": "Marin",
	"055": "Napa",
	"075": "San Francisco",
	"081": "San Mateo",
	"085": "Santa Clara",
	"095": "Solano",
	"097": "Sonoma",
}

// countyOrder fixes county iteration order for deterministic generation.
var countyOrder = []string{"001", "013", "041", "055", "075", "081", "085", "095", "097"}

// SynthConfig controls synthetic baseline generation.
type SynthConfig struct {
	Seed          int64
	TractsPerSide int // tracts per county grid side (n² tracts per county)
}

// DefaultSynthConfig returns a region of 9 counties x 16 tracts.
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{Seed: 42, TractsPerSide: 4}
}

// Synthesize generates a plausible Bay-Area-like baseline from layered
// simplex noise: one field each for income, density, crime, and transit,
// with downstream fields (rent, price, businesses) derived from them.
// Useful for demos and tests; real runs load pipeline output instead.
func Synthesize(cfg SynthConfig) *Table {
	if cfg.TractsPerSide <= 0 {
		cfg.TractsPerSide = 4
	}

	incomeNoise := opensimplex.NewNormalized(cfg.Seed)
	densityNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	crimeNoise := opensimplex.NewNormalized(cfg.Seed + 2)
	transitNoise := opensimplex.NewNormalized(cfg.Seed + 3)

	table := &Table{}
	n := cfg.TractsPerSide

	for ci, fips := range countyOrder {
		// County anchor on a rough Bay Area lattice.
		baseLat := 37.3 + 0.25*float64(ci%3)
		baseLon := -122.5 + 0.3*float64(ci/3)

		for gy := 0; gy < n; gy++ {
			for gx := 0; gx < n; gx++ {
				seq := gy*n + gx
				tractID := fmt.Sprintf("06%s%06d", fips, (seq+1)*100)

				// Noise coordinates spread per county to decorrelate.
				nx := float64(ci*n+gx) * 0.35
				ny := float64(gy) * 0.35

				income := 40000.0 + 120000.0*incomeNoise.Eval2(nx, ny)
				density := 0.15 + 0.85*densityNoise.Eval2(nx, ny)
				crime := crimeNoise.Eval2(nx, ny)
				transit := transitNoise.Eval2(nx, ny)

				// Urban cores (dense tracts) get better transit and more crime.
				transit = clamp01(0.25*transit + 0.6*density)
				population := math.Round(1500 + 9000*density)
				households := math.Round(population / 2.5)
				units := math.Round(households * 1.07)

				rent := 1200 + income*0.025 + 800*transit
				row := NewRow(tractID, fips)
				row.HousingUnits = units
				row.VacancyRate = clamp(1.0-households/math.Max(units, 1), 0.0, 0.3)
				row.MedianRent = rent
				row.MedianHomePrice = rent * 12 / 0.04
				row.MaxDensityUnits = units * (1.5 + density)
				row.Population = population
				row.Households = households
				row.MedianIncome = income
				row.BusinessesCount = math.Round(20 + 180*density)
				row.CrimeIncidents = math.Round(40 * crime * density * 10)
				row.DrugMarketActivity = math.Round(8 * crime * density)
				row.TransitAccessibility = transit
				row.TransitRidership = math.Round(population * 0.2 * transit)
				row.CommuteModeCar = 0.75 - 0.35*transit
				row.CommuteModeTransit = 0.10 + 0.35*transit
				row.CommuteModeOther = 1.0 - row.CommuteModeCar - row.CommuteModeTransit
				row.PermitTimelineDays = 300 + 250*density
				row.AreaSqMi = 0.8
				row.CentroidLat = baseLat + 0.015*float64(gy)
				row.CentroidLon = baseLon + 0.015*float64(gx)

				table.Rows = append(table.Rows, row)
			}
		}
	}

	return table
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
