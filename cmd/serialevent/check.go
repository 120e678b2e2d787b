package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/serialevent/internal/config"
	"github.com/gyaneshwarpardhi/serialevent/internal/rule"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the plugin document and list its rules",
	Long:  `Loads the document, reports every problem found and prints the rules that would be loaded.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg := loader.Config()
		set, _ := rule.Build(cfg.SerialEvents)

		out := cmd.OutOrStdout()
		src := cfg.LineSource()
		fmt.Fprintf(out, "port %s at %d baud, %s\n", src.Channel, src.Speed, src.Format)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(set.Summaries()); err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d rules, document is valid\n", set.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
