package main

import (
	"github.com/aretw0/wanderbuddy/internal/cli"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/spf13/cobra"
)

var itineraryCmd = &cobra.Command{
	Use:     "itinerary",
	Aliases: []string{"itineraries"},
	Short:   "Work with saved itineraries",
}

var itineraryListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List saved itineraries",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		if err := requireLogin(app); err != nil {
			return err
		}

		saved, err := app.Client.Itineraries(cmd.Context())
		if err != nil {
			return err
		}
		if len(saved) == 0 {
			cli.PrintSystemMessage(cmd.OutOrStdout(), "No saved itineraries yet")
			return nil
		}
		return printResult(cmd, domain.RequestResult{Packages: saved})
	},
}

func init() {
	itineraryListCmd.Flags().Bool("plain", false, "Print plain text instead of rendered markdown")
	itineraryCmd.AddCommand(itineraryListCmd)
	rootCmd.AddCommand(itineraryCmd)
}
