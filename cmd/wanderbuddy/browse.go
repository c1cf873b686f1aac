package main

import (
	"os"

	"github.com/aretw0/wanderbuddy"
	"github.com/aretw0/wanderbuddy/internal/cli"
	"github.com/aretw0/wanderbuddy/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Plan interactively: type prompts, open and save packages",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		if err := requireLogin(app); err != nil {
			return err
		}

		runner := wanderbuddy.NewRunner()
		runner.Input = cli.NewInterruptibleReader(os.Stdin, cmd.Context().Done())
		runner.Output = cmd.OutOrStdout()
		runner.Headless, _ = cmd.Flags().GetBool("headless")

		if plain, _ := cmd.Flags().GetBool("plain"); plain || runner.Headless {
			runner.Format = wanderbuddy.PlainText
		} else {
			tui.PrintBanner(runner.Output, wanderbuddy.Version)
			runner.Format = tui.NewResultRenderer()
		}

		return cli.HandleExecutionError(runner.Run(cmd.Context(), app.Client))
	},
}

func init() {
	browseCmd.Flags().Bool("headless", false, "No banner or prompts, for scripted input")
	browseCmd.Flags().Bool("plain", false, "Print plain text instead of rendered markdown")

	rootCmd.AddCommand(browseCmd)
	rootCmd.RunE = browseCmd.RunE
	rootCmd.Flags().AddFlagSet(browseCmd.Flags())
}
