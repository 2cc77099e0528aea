package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the pipeline topology visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the configured pipeline topology.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := buildLogger(cmd)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		pipeline, err := buildPipeline(cfg, logger, nil)
		if err != nil {
			return err
		}

		fmt.Print(pipeline.Mermaid())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
