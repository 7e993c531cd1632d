package calibrate

import (
	"errors"
	"log/slog"
	"math"

	"github.com/talgya/metrosim/internal/baseline"
	"github.com/talgya/metrosim/internal/engine"
	"github.com/talgya/metrosim/internal/entropy"
)

// failurePenalty is the loss reported for evaluations that error out.
// Failed points are never recorded as the best point.
const failurePenalty = 10.0

// EvalFunc runs the model under one parameter set and returns metric
// values keyed by calibration target names.
type EvalFunc func(engine.Params) (map[string]float64, error)

// Result is the outcome of a calibration search.
type Result struct {
	BestParams  engine.Params
	BestLoss    float64
	Evaluations int
}

// Search minimizes WeightedRMSE over the parameter space with seeded
// random search: the default point is evaluated first, then iterations-1
// uniform draws. Identical seeds reproduce the full trajectory. Search
// errors if every evaluation fails.
func Search(eval EvalFunc, iterations int, seed int64) (Result, error) {
	if iterations <= 0 {
		return Result{}, errors.New("calibrate: iterations must be positive")
	}
	src := entropy.NewSource(seed)

	res := Result{BestLoss: math.Inf(1)}
	for i := 0; i < iterations; i++ {
		var point engine.Params
		if i == 0 {
			point = DefaultPoint()
		} else {
			point = SamplePoint(src)
		}

		outputs, err := eval(point)
		res.Evaluations++
		if err != nil {
			slog.Warn("calibration evaluation failed",
				"iteration", i, "loss", failurePenalty, "error", err)
			continue
		}
		loss := WeightedRMSE(outputs)

		if loss < res.BestLoss {
			res.BestLoss = loss
			res.BestParams = point
			slog.Info("calibration improved", "iteration", i, "loss", loss)
		}
	}

	if res.BestParams == nil {
		return res, errors.New("calibrate: every evaluation failed")
	}
	return res, nil
}

// EngineEvaluator adapts the engine into an EvalFunc: each evaluation runs
// the neutral policy for steps timesteps on the given baseline and maps
// the final snapshot onto target metrics.
func EngineEvaluator(table *baseline.Table, steps int, seed int64) EvalFunc {
	return func(params engine.Params) (map[string]float64, error) {
		cfg := engine.DefaultConfig()
		cfg.TotalSteps = steps
		cfg.RandomSeed = seed
		for k, v := range params {
			cfg.Params[k] = v
		}

		snapshots, _, err := engine.Run(table, cfg, steps, nil)
		if err != nil {
			return nil, err
		}
		return SnapshotMetrics(snapshots[len(snapshots)-1]), nil
	}
}

// SnapshotMetrics projects one snapshot onto the calibration target names.
// Ridership is not snapshotted, so its target is simply never scored.
func SnapshotMetrics(snap engine.Snapshot) map[string]float64 {
	agg := snap.Aggregate

	// Per-step property tax annualizes by the step cadence; home price is
	// population-weighted across tracts.
	var taxPerStep, priceWeighted, pop float64
	for _, tm := range snap.Tracts {
		taxPerStep += tm.PropertyTaxRevenue
		priceWeighted += tm.MedianHomePrice * tm.Population
		pop += tm.Population
	}

	out := map[string]float64{
		"sf_median_rent":                 agg.AvgMedianRent,
		"bay_area_vacancy_rate":          agg.AvgVacancyRate,
		"sf_transit_mode_share":          agg.TransitModeShare,
		"bay_area_business_count":        agg.TotalBusinesses,
		"bay_area_population":            agg.TotalPopulation,
		"sf_housing_units":               agg.TotalHousingUnits,
		"sf_property_tax_revenue_annual": taxPerStep * engine.StepsPerYear,
	}
	if pop > 0 {
		out["bay_area_median_home_price"] = priceWeighted / pop
		out["sf_crime_rate_per_1k"] = agg.TotalCrimeIncidents * engine.StepsPerYear / pop * 1000
	}
	return out
}
