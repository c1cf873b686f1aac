package main

import (
	"github.com/aretw0/wanderbuddy/internal/cli"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session",
	Long:  `Logs in with email and password. Missing values are prompted for; the password is never echoed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, printer, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		prompt := cli.NewPrompter()
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			if email, err = prompt.Line("Email", ""); err != nil {
				return err
			}
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			if password, err = prompt.Secret("Password"); err != nil {
				return err
			}
		}

		if err := app.Client.Session().Login(cmd.Context(), email, password); err != nil {
			return err
		}
		printer.Session(app.Client.Session().State())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, printer, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		prompt := cli.NewPrompter()
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			if name, err = prompt.Line("Name", ""); err != nil {
				return err
			}
		}
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			if email, err = prompt.Line("Email", ""); err != nil {
				return err
			}
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			if password, err = prompt.Secret("Password"); err != nil {
				return err
			}
		}

		if err := app.Client.Session().Register(cmd.Context(), email, password, name); err != nil {
			return err
		}
		printer.Session(app.Client.Session().State())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, printer, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		app.Client.Logout(cmd.Context())
		printer.Session(app.Client.Session().State())
		return nil
	},
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password (prompted when omitted)")

	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Account password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}
