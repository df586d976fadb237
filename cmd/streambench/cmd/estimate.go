package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/armadaproject/streambench/internal/streambench/configuration"
	"github.com/armadaproject/streambench/internal/streambench/scenario"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [scenario...]",
	Short: "Print the time budget of each run without running anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		if len(names) == 0 {
			names = cfg.Scenarios
		}
		scenarios, err := scenario.Select(names, cfg.CustomRuns)
		if err != nil {
			return err
		}
		env := configuration.DetectEnvironment(os.LookupEnv)
		profile, err := resolveProfile(cmd.Flags(), cfg, env)
		if err != nil {
			return err
		}
		scenario.PrintEstimates(cmd.OutOrStdout(), scenario.Estimate(scenarios, profile, env, cfg.JoinTimeout))
		return nil
	},
}
