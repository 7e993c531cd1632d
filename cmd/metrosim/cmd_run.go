package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/metrosim/internal/engine"
	"github.com/talgya/metrosim/internal/runner"
	"github.com/talgya/metrosim/internal/scenario"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a policy scenario against a baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioName, _ := cmd.Flags().GetString("scenario")
			configPath, _ := cmd.Flags().GetString("config")
			steps, _ := cmd.Flags().GetInt("steps")
			seed, _ := cmd.Flags().GetInt64("seed")
			outPath, _ := cmd.Flags().GetString("out")

			cfg, err := resolveConfig(scenarioName, configPath)
			if err != nil {
				return err
			}
			if steps > 0 {
				cfg.TotalSteps = steps
			}
			if seed != 0 {
				cfg.RandomSeed = seed
			}

			table, err := loadBaseline(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			mgr := runner.NewManager(store)
			id := mgr.Start(table, cfg, scenarioName)

			stop := make(chan struct{})
			go reportProgress(mgr, id, stop)
			run, err := mgr.Wait(id, 24*time.Hour)
			close(stop)
			if err != nil {
				return err
			}
			if run.Status != runner.StatusCompleted {
				return fmt.Errorf("run %s failed: %s", run.ID, run.Error)
			}

			printSummary(run)

			if outPath != "" {
				if err := writeSnapshots(outPath, run.Snapshots); err != nil {
					return err
				}
				slog.Info("snapshots written", "path", outPath, "count", len(run.Snapshots))
			}
			return nil
		},
	}

	baselineFlags(cmd)
	cmd.Flags().String("scenario", "", "Preset scenario name (see 'metrosim scenarios')")
	cmd.Flags().String("config", "", "Scenario YAML file (overrides --scenario)")
	cmd.Flags().Int("steps", 0, "Override total timesteps")
	cmd.Flags().Int64("seed", 0, "Override random seed")
	cmd.Flags().String("out", "", "Write the snapshot sequence to a JSON file")
	return cmd
}

// resolveConfig builds the run config from either a YAML file or a preset
// name, defaulting to the neutral policy.
func resolveConfig(scenarioName, configPath string) (*engine.Config, error) {
	if configPath != "" {
		return scenario.Load(configPath)
	}
	if scenarioName != "" {
		return scenario.Preset(scenarioName)
	}
	return engine.DefaultConfig(), nil
}

// reportProgress logs the run's step count every few seconds until the
// stop channel closes. Short runs finish before the first tick.
func reportProgress(mgr *runner.Manager, id string, stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			run, ok := mgr.Get(id)
			if !ok || run.Status != runner.StatusRunning {
				return
			}
			slog.Info("run progress", "run_id", id, "step", run.Step, "total", run.TotalSteps)
		}
	}
}

func printSummary(run runner.Run) {
	first := run.Snapshots[0].Aggregate
	last := run.Snapshots[len(run.Snapshots)-1].Aggregate

	fmt.Printf("run %s completed in %s (%d steps, %d snapshots)\n",
		run.ID, run.FinishedAt.Sub(run.CreatedAt).Round(time.Millisecond),
		run.TotalSteps, len(run.Snapshots))
	fmt.Println()
	fmt.Printf("%-22s %15s %15s\n", "", "baseline", "final")
	printMetric("population", first.TotalPopulation, last.TotalPopulation, 0)
	printMetric("housing units", first.TotalHousingUnits, last.TotalHousingUnits, 0)
	printMetric("avg median rent", first.AvgMedianRent, last.AvgMedianRent, 0)
	printMetric("avg vacancy rate", first.AvgVacancyRate, last.AvgVacancyRate, 3)
	printMetric("transit mode share", first.TransitModeShare, last.TransitModeShare, 3)
	printMetric("businesses", first.TotalBusinesses, last.TotalBusinesses, 0)
	printMetric("crime incidents", first.TotalCrimeIncidents, last.TotalCrimeIncidents, 0)
}

func printMetric(name string, before, after float64, digits int) {
	fmt.Printf("%-22s %15s %15s\n", name,
		humanize.CommafWithDigits(before, digits),
		humanize.CommafWithDigits(after, digits))
}

func writeSnapshots(path string, snapshots []engine.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshots); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshots: %w", err)
	}
	return f.Close()
}
