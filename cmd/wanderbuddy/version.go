package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/wanderbuddy"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wanderbuddy",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wanderbuddy version %s\n", strings.TrimSpace(wanderbuddy.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
