package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/wanderbuddy"
	"github.com/aretw0/wanderbuddy/internal/cli"
	"github.com/aretw0/wanderbuddy/internal/presentation/tui"
	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the backend for travel packages",
}

var suggestPromptCmd = &cobra.Command{
	Use:   "prompt <text>",
	Short: "Describe the trip in your own words",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuggest(cmd, func(app *cli.App) (domain.RequestResult, error) {
			return app.Client.SubmitPrompt(cmd.Context(), strings.Join(args, " "))
		})
	},
}

var suggestFiltersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Search by dates, destination, budget and travel type",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		var q domain.FilterQuery
		q.FromDate, _ = f.GetString("from")
		q.ToDate, _ = f.GetString("to")
		q.Destination, _ = f.GetString("destination")
		q.Budget, _ = f.GetString("budget")
		travelType, _ := f.GetString("travel-type")
		t, err := domain.ParseTravelType(travelType)
		if err != nil {
			return err
		}
		q.TravelType = t

		return runSuggest(cmd, func(app *cli.App) (domain.RequestResult, error) {
			return app.Client.SubmitFilters(cmd.Context(), q)
		})
	},
}

// runSuggest submits a request, applies --expand and --save, then prints
// the result set.
func runSuggest(cmd *cobra.Command, submit func(*cli.App) (domain.RequestResult, error)) error {
	app, _, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := requireLogin(app); err != nil {
		return err
	}

	res, err := submit(app)
	if err != nil {
		return err
	}

	if id, _ := cmd.Flags().GetString("expand"); id != "" {
		res = app.Client.ToggleExpanded(id)
	}
	if id, _ := cmd.Flags().GetString("save"); id != "" {
		if err := app.Client.SaveItinerary(cmd.Context(), id); err != nil {
			return err
		}
	}
	return printResult(cmd, res)
}

func printResult(cmd *cobra.Command, res domain.RequestResult) error {
	format := tui.NewResultRenderer()
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		format = wanderbuddy.PlainText
	}
	out, err := format(res)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
	return nil
}

func init() {
	for _, c := range []*cobra.Command{suggestPromptCmd, suggestFiltersCmd} {
		c.Flags().String("expand", "", "Show the day plan of this package id")
		c.Flags().String("save", "", "Save this package id as an itinerary")
		c.Flags().Bool("plain", false, "Print plain text instead of rendered markdown")
	}

	types := make([]string, len(domain.TravelTypes))
	for i, t := range domain.TravelTypes {
		types[i] = string(t)
	}
	f := suggestFiltersCmd.Flags()
	f.String("from", "", "Start date (YYYY-MM-DD)")
	f.String("to", "", "End date (YYYY-MM-DD)")
	f.String("destination", "", "Destination")
	f.String("budget", "", "Budget")
	f.String("travel-type", string(domain.TravelFlexible), "Travel type: "+strings.Join(types, ", "))

	suggestCmd.AddCommand(suggestPromptCmd, suggestFiltersCmd)
	rootCmd.AddCommand(suggestCmd)
}
