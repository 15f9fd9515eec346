// Package main is the entry point for the keyfocus daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/keyfocus/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "keyfocus",
	Short: "Keyboard gestures that focus applications",
	Long: `keyfocus grabs the keyboard and turns chords and two-step sequences
into actions: focusing an application, tapping a different key, or running
a small Lua script. Keys that are not part of a gesture pass through.

Run without a subcommand to start the daemon.

Examples:
  keyfocus                          # Run with the default config
  keyfocus -c ~/keyfocus.toml       # Run with a specific config
  keyfocus check                    # Validate the config and list gestures
  keyfocus keys                     # List key names usable in gestures`,
	Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the gesture daemon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd)
	},
}

// Flags
var (
	flagConfig   string
	flagLogLevel string
	flagDevice   string
	flagNoWatch  bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")

	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().StringVarP(&flagDevice, "device", "d", "", "Keyboard evdev device (default: autodetect)")
		cmd.Flags().BoolVar(&flagNoWatch, "no-watch", false, "Do not reload gestures when the config file changes")
	}

	rootCmd.AddCommand(runCmd, checkCmd, keysCmd, versionCmd)
}

func options() app.Options {
	return app.Options{
		ConfigPath: flagConfig,
		LogLevel:   flagLogLevel,
		Device:     flagDevice,
		Watch:      !flagNoWatch,
	}
}

func runDaemon(cmd *cobra.Command) error {
	application, err := app.New(options())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = application.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if errors.Is(err, app.ErrHookInit) {
		return fmt.Errorf("cannot capture the keyboard: %w", err)
	}
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "keyfocus %s\n", rootCmd.Version)
	},
}
