package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/wanderbuddy/internal/cli"
	"github.com/aretw0/wanderbuddy/internal/config"
	"github.com/aretw0/wanderbuddy/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wanderbuddy",
	Short: "WanderBuddy plans trips from a prompt or a set of filters",
	Long: `WanderBuddy talks to the travel-agent backend: log in, finish your
traveler profile, then ask for packages in plain words or by dates,
destination and budget.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	sc := cli.NewSignalContext(context.Background())
	defer sc.Cancel()

	if err := rootCmd.ExecuteContext(sc); err != nil {
		if err = cli.HandleExecutionError(err); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("api", "", "Backend base URL (overrides the configuration)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Serve Prometheus metrics on this address while the command runs")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := flags.GetString("api"); v != "" {
		cfg.API.BaseURL = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := flags.GetString("metrics-addr"); v != "" {
		cfg.Metrics.Addr = v
	}
	return cfg, cfg.Validate()
}

func newPrinter(cmd *cobra.Command) *tui.Printer {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		return tui.NewPlainPrinter(cmd.ErrOrStderr())
	}
	return tui.NewPrinter(cmd.ErrOrStderr())
}

// openApp builds the app for cmd and restores the persisted session.
// Outcomes are printed on stderr so results on stdout can be piped.
func openApp(cmd *cobra.Command) (*cli.App, *tui.Printer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	printer := newPrinter(cmd)
	app, err := cli.Open(cfg, logger, cli.OutcomeHooks(printer))
	if err != nil {
		return nil, nil, err
	}

	if addr, err := app.ServeMetrics(cmd.Context()); err != nil {
		app.Close()
		return nil, nil, err
	} else if addr != "" {
		logger.Info("Metrics available", "url", "http://"+addr+"/metrics")
	}

	if _, err := app.Client.Restore(cmd.Context()); err != nil {
		logger.Warn("Discarded unreadable session", "err", err)
	}
	return app, printer, nil
}

// requireLogin waits for the restored session to be verified and fails
// when nobody is logged in.
func requireLogin(app *cli.App) error {
	app.Client.Wait()
	if !app.Client.Session().State().LoggedIn() {
		return fmt.Errorf("not logged in, run `wanderbuddy login` first")
	}
	return nil
}
