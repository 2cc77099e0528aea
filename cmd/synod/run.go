package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"synod/internal/presentation/report"
	"synod/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <instrument>",
	Short: "Run the decision pipeline for one instrument",
	Long: `Runs the full pipeline — concurrent analysts, bull/bear debate, risk
assessment and the reviewed trading decision — and prints the report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		instrument := args[0]
		jsonMode, _ := cmd.Flags().GetBool("json")

		logger := buildLogger(cmd)
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		pipeline, err := buildPipeline(cfg, logger, nil)
		if err != nil {
			return err
		}

		outcome, err := pipeline.Run(cmd.Context(), instrument, seedFromFlags(cmd))
		if err != nil {
			return err
		}

		if jsonMode {
			return json.NewEncoder(os.Stdout).Encode(outcome)
		}

		markdown := report.Build(instrument, outcome)
		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner()
			render := tui.NewRenderer()
			if pretty, err := render(markdown); err == nil {
				fmt.Print(pretty)
				return nil
			}
		}
		fmt.Print(markdown)
		return nil
	},
}

// seedFromFlags turns repeated --seed key=value flags into the initial
// context fields.
func seedFromFlags(cmd *cobra.Command) map[string]any {
	pairs, _ := cmd.Flags().GetStringToString("seed")
	if len(pairs) == 0 {
		return nil
	}
	seed := make(map[string]any, len(pairs))
	for k, v := range pairs {
		seed[k] = v
	}
	return seed
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("json", false, "Print the raw outcome as JSON instead of the rendered report")
	runCmd.Flags().StringToString("seed", nil, "Initial context fields as key=value pairs (repeatable)")
}
