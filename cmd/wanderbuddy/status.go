package main

import (
	"fmt"

	"github.com/aretw0/wanderbuddy/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in and whether the profile is complete",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, printer, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		app.Client.Wait()
		state := app.Client.Session().State()

		if asGraph, _ := cmd.Flags().GetBool("graph"); asGraph {
			fmt.Fprint(cmd.OutOrStdout(), graph.SessionMermaid(state.Status()))
			return nil
		}
		printer.Session(state)
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("graph", false, "Print the session lifecycle as a Mermaid diagram, current state highlighted")
	rootCmd.AddCommand(statusCmd)
}
