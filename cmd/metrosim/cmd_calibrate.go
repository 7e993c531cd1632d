package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/talgya/metrosim/internal/calibrate"
)

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Search the parameter space against empirical targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			iterations, _ := cmd.Flags().GetInt("iterations")
			steps, _ := cmd.Flags().GetInt("steps")
			seed, _ := cmd.Flags().GetInt64("seed")
			outPath, _ := cmd.Flags().GetString("out")

			table, err := loadBaseline(cmd)
			if err != nil {
				return err
			}

			slog.Info("calibration starting", "iterations", iterations,
				"steps", steps, "seed", seed, "tracts", len(table.Rows))

			eval := calibrate.EngineEvaluator(table, steps, seed)
			res, err := calibrate.Search(eval, iterations, seed)
			if err != nil {
				return err
			}

			fmt.Printf("best loss %.4f after %d evaluations\n\n", res.BestLoss, res.Evaluations)

			names := make([]string, 0, len(res.BestParams))
			for name := range res.BestParams {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %-28s %g\n", name, res.BestParams[name])
			}

			outputs, err := eval(res.BestParams)
			if err != nil {
				return fmt.Errorf("re-evaluate best point: %w", err)
			}
			fmt.Println()
			printTargetReport(outputs)

			if outPath != "" {
				if err := writeParams(outPath, res.BestParams); err != nil {
					return err
				}
				slog.Info("calibrated params written", "path", outPath)
			}
			return nil
		},
	}

	baselineFlags(cmd)
	cmd.Flags().Int("iterations", 60, "Parameter sets to evaluate")
	cmd.Flags().Int("steps", 260, "Timesteps per evaluation run")
	cmd.Flags().Int64("seed", 42, "Search and evaluation seed")
	cmd.Flags().String("out", "", "Write best params as a scenario YAML fragment")
	return cmd
}

func printTargetReport(outputs map[string]float64) {
	within := calibrate.WithinTolerance(outputs)
	fmt.Printf("%-32s %18s %18s  %s\n", "target", "empirical", "simulated", "ok")
	for _, t := range calibrate.Targets {
		simVal, found := outputs[t.Name]
		if !found {
			fmt.Printf("%-32s %18s %18s  %s\n", t.Name,
				humanize.CommafWithDigits(t.Value, 3), "-", "n/a")
			continue
		}
		mark := "MISS"
		if within[t.Name] {
			mark = "ok"
		}
		fmt.Printf("%-32s %18s %18s  %s\n", t.Name,
			humanize.CommafWithDigits(t.Value, 3),
			humanize.CommafWithDigits(simVal, 3), mark)
	}
}

// writeParams emits a params-only fragment that 'metrosim run --config'
// accepts as-is.
func writeParams(path string, params map[string]float64) error {
	data, err := yaml.Marshal(map[string]any{"params": params})
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write params: %w", err)
	}
	return nil
}
