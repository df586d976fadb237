package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/armadaproject/streambench/internal/streambench/scenario"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		scenarios, err := scenario.Select(allNames(), cfg.CustomRuns)
		if err != nil {
			return err
		}
		p := message.NewPrinter(language.English)
		for _, s := range scenarios {
			marker := " "
			if slices.Contains(scenario.DefaultScenarios, s.Name) {
				marker = "*"
			}
			p.Fprintf(cmd.OutOrStdout(), "%s %-22s %s\n", marker, s.Name, s.Description)
		}
		p.Fprintln(cmd.OutOrStdout(), "\n* run when no scenario is named")
		return nil
	},
}

func allNames() []string {
	var names []string
	for _, s := range scenario.Catalogue() {
		names = append(names, s.Name)
	}
	for _, rc := range cfg.CustomRuns {
		names = append(names, rc.Name)
	}
	return names
}
