package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "synod",
	Short: "Synod is a deliberative trading decision pipeline",
	Long: `Synod runs concurrent analysts, an adversarial bull/bear debate and a
reviewed trading decision for a financial instrument, entirely offline
by default.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "synod.yaml", "Path to the pipeline configuration file")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}
