package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/serialevent/internal/engine"
	"github.com/gyaneshwarpardhi/serialevent/internal/rule"
)

var matchCmd = &cobra.Command{
	Use:   "match <line>",
	Short: "Show which rules a line fires",
	Long: `Evaluates a line against the configured rules and prints the commands that
would be dispatched. Nothing is sent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		set := buildRules(loader.Config())

		line := engine.Normalize(args[0])
		if line == "" {
			return fmt.Errorf("line is empty after removing control characters")
		}
		firings := set.Plan(line)
		if firings == nil {
			firings = []rule.Firing{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(firings)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
