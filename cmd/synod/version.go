package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"synod"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of synod",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("synod version %s\n", strings.TrimSpace(synod.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
