package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/talgya/metrosim/internal/baseline"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic baseline tract table",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetInt64("seed")
			perSide, _ := cmd.Flags().GetInt("tracts-per-side")
			outPath, _ := cmd.Flags().GetString("out")

			cfg := baseline.DefaultSynthConfig()
			if seed != 0 {
				cfg.Seed = seed
			}
			if perSide > 0 {
				cfg.TractsPerSide = perSide
			}

			table := baseline.Synthesize(cfg)
			if outPath == "" {
				return fmt.Errorf("generate requires --out")
			}
			if err := baseline.SaveCSV(outPath, table); err != nil {
				return err
			}
			slog.Info("baseline written", "path", outPath, "tracts", len(table.Rows),
				"seed", cfg.Seed)
			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Generator seed (default 42)")
	cmd.Flags().Int("tracts-per-side", 0, "Tracts per county grid side (default 4)")
	cmd.Flags().String("out", "", "Output CSV path")
	return cmd
}
