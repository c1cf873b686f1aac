package main

import (
	"strings"

	"github.com/aretw0/wanderbuddy/pkg/domain"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the traveler profile",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Finish onboarding by creating the traveler profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, printer, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		if err := requireLogin(app); err != nil {
			return err
		}

		f := cmd.Flags()
		in := domain.ProfileInput{}
		in.Name, _ = f.GetString("name")
		in.Nationality, _ = f.GetString("nationality")
		in.CountryOfResidence, _ = f.GetString("residence")
		in.PassportNumber, _ = f.GetString("passport")
		in.PassportExpiry, _ = f.GetString("passport-expiry")
		in.HasVisa, _ = f.GetBool("visa")
		in.VisaExpiry, _ = f.GetString("visa-expiry")
		in.TravelPersona, _ = f.GetString("persona")
		in.Interests, _ = f.GetString("interests")
		in.PreferredLanguages, _ = f.GetString("languages")
		if in.Name == "" {
			in.Name = app.Client.Session().Identity().DisplayName
		}

		if err := app.Client.Session().CreateProfile(cmd.Context(), in); err != nil {
			return err
		}
		printer.Session(app.Client.Session().State())
		return nil
	},
}

func init() {
	f := profileCreateCmd.Flags()
	f.String("name", "", "Full name (defaults to the account display name)")
	f.String("nationality", "", "Nationality")
	f.String("residence", "", "Country of residence")
	f.String("passport", "", "Passport number")
	f.String("passport-expiry", "", "Passport expiry (YYYY-MM-DD)")
	f.Bool("visa", false, "Holds a visa")
	f.String("visa-expiry", "", "Visa expiry (YYYY-MM-DD)")
	f.String("persona", domain.DefaultTravelPersona, "Travel persona: "+strings.Join(domain.TravelPersonas, ", "))
	f.String("interests", "", "Comma-separated interests")
	f.String("languages", "", "Comma-separated preferred languages")

	profileCmd.AddCommand(profileCreateCmd)
	rootCmd.AddCommand(profileCmd)
}
