package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/metrosim/internal/persistence"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List persisted runs, or show one run's results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("runs requires --db")
			}
			defer store.Close()

			if len(args) == 1 {
				return showRun(store, args[0])
			}

			recs, err := store.ListRuns()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("no runs recorded")
				return nil
			}
			fmt.Printf("%-36s  %-18s  %-10s  %s\n", "ID", "SCENARIO", "STATUS", "CREATED")
			for _, rec := range recs {
				scenarioName := rec.Scenario
				if scenarioName == "" {
					scenarioName = "(neutral)"
				}
				fmt.Printf("%-36s  %-18s  %-10s  %s\n",
					rec.ID, scenarioName, rec.Status, humanize.Time(rec.CreatedAt))
			}
			return nil
		},
	}
	return cmd
}

func showRun(store *persistence.DB, id string) error {
	rec, err := store.GetRun(id)
	if err != nil {
		return err
	}
	snapshots, err := store.LoadSnapshots(id)
	if err != nil {
		return err
	}
	votes, err := store.LoadVotes(id)
	if err != nil {
		return err
	}

	fmt.Printf("run %s\n", rec.ID)
	fmt.Printf("  scenario:   %s\n", rec.Scenario)
	fmt.Printf("  status:     %s\n", rec.Status)
	fmt.Printf("  seed:       %d\n", rec.RandomSeed)
	fmt.Printf("  steps:      %d\n", rec.TotalSteps)
	fmt.Printf("  created:    %s\n", humanize.Time(rec.CreatedAt))
	if rec.Error != "" {
		fmt.Printf("  error:      %s\n", rec.Error)
	}

	if len(snapshots) > 0 {
		agg := snapshots[len(snapshots)-1].Aggregate
		fmt.Printf("  snapshots:  %d (final step %d)\n", len(snapshots), snapshots[len(snapshots)-1].Timestep)
		fmt.Printf("  final:      pop %s, units %s, rent %s, crime %s\n",
			humanize.Comma(int64(agg.TotalPopulation)),
			humanize.Comma(int64(agg.TotalHousingUnits)),
			humanize.CommafWithDigits(agg.AvgMedianRent, 0),
			humanize.Comma(int64(agg.TotalCrimeIncidents)))
	}

	for _, v := range votes {
		verdict := "failed"
		if v.Passed {
			verdict = "passed"
		}
		if v.VetoOverride {
			verdict += " (veto-proof)"
		}
		fmt.Printf("  vote @%-4d  %d/%d %s on %s\n",
			v.Timestep, v.YesVotes, v.TotalVotes, verdict, strings.Join(v.Categories, ","))
	}
	return nil
}
