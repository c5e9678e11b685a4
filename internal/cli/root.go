// Package cli is the pullstring test bed: a command line client that talks
// to a conversation project through the core package.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/koscakluka/pullstring-core/internal/config"
)

var (
	configPath string
	verbose    bool
	fresh      bool

	cfg *config.Config

	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "pullstring",
	Short: "Talk to a PullString conversation project",
	Long: `A command line client for the PullString conversation Web API.

Settings are read from pullstring.yaml, a .env file and the environment
(PULLSTRING_API_KEY, PULLSTRING_PROJECT, PULLSTRING_BASE_URL).

The participant of the last conversation with a project is remembered, so
later runs continue where the previous one stopped. Use --fresh to start
over.

Quick Start:
  pullstring chat                   # Interactive chat with push-to-talk
  pullstring say "hello"            # Send one line of text
  pullstring entities get score     # Read entity values`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}

		level, err := loaded.SlogLevel()
		if err != nil {
			return err
		}
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		cfg = loaded
		return nil
	},
}

// Execute runs the command selected by the process arguments.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "pullstring.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&fresh, "fresh", false, "Ignore the remembered participant and start a new conversation")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
