// Command metrosim runs the metro-region policy simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/metrosim/internal/baseline"
	"github.com/talgya/metrosim/internal/persistence"
)

var version = "0.1.0-dev"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "metrosim",
		Short: "Metro-region policy simulation",
		Long: `metrosim simulates a metro region at census-tract resolution, combining
tract-level system dynamics with a sampled agent population, and runs
policy scenarios against it over a ten-year horizon.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("db", "", "SQLite database for persisted runs")

	rootCmd.AddCommand(
		newRunCmd(),
		newRunsCmd(),
		newScenariosCmd(),
		newGenerateCmd(),
		newCalibrateCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadBaseline resolves the baseline table from the shared flags: a CSV
// file, a SQLite tracts database, or the synthetic generator when neither
// is given.
func loadBaseline(cmd *cobra.Command) (*baseline.Table, error) {
	csvPath, _ := cmd.Flags().GetString("baseline")
	dbPath, _ := cmd.Flags().GetString("baseline-db")
	seed, _ := cmd.Flags().GetInt64("synth-seed")

	switch {
	case csvPath != "" && dbPath != "":
		return nil, fmt.Errorf("cannot specify both --baseline and --baseline-db")
	case csvPath != "":
		slog.Info("loading baseline", "csv", csvPath)
		return baseline.LoadCSV(csvPath)
	case dbPath != "":
		slog.Info("loading baseline", "db", dbPath)
		return baseline.LoadSQLite(dbPath)
	default:
		cfg := baseline.DefaultSynthConfig()
		if seed != 0 {
			cfg.Seed = seed
		}
		slog.Info("no baseline given, generating synthetic region",
			"seed", cfg.Seed, "tracts_per_side", cfg.TractsPerSide)
		return baseline.Synthesize(cfg), nil
	}
}

// baselineFlags registers the baseline source flags on a subcommand.
func baselineFlags(cmd *cobra.Command) {
	cmd.Flags().String("baseline", "", "Baseline tract table (CSV)")
	cmd.Flags().String("baseline-db", "", "Baseline tract table (SQLite)")
	cmd.Flags().Int64("synth-seed", 0, "Seed for the synthetic baseline fallback")
}

// openStore opens the run database named by the global --db flag, or
// returns nil when the flag is unset.
func openStore(cmd *cobra.Command) (*persistence.DB, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		return nil, nil
	}
	db, err := persistence.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run database: %w", err)
	}
	return db, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("metrosim version %s\n", version)
		},
	}
}
