package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/serialevent/internal/config"
	"github.com/gyaneshwarpardhi/serialevent/internal/logging"
)

const defaultConfigPath = "/home/fpp/media/config/plugin.serialevent.json"

var rootCmd = &cobra.Command{
	Use:   "serialevent",
	Short: "Fire FPP commands from lines read on a serial port",
	Long: `serialevent reads newline-delimited text from a serial port, keeps the most
recent lines, and fires the configured commands for every rule a line matches.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(lvl)
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(level))
		return nil
	},
	RunE: runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "Path to the plugin document (JSON or YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	addServeFlags(rootCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Loader, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.NewLoader(path)
}
