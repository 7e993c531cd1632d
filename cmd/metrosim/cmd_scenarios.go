package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/metrosim/internal/scenario"
)

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the preset policy scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.Names() {
				cfg, err := scenario.Preset(name)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", name, cfg.Policy.Name)
				fmt.Printf("    %s\n", cfg.Policy.Description)
			}
			return nil
		},
	}
}
