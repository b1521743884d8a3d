package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/naricha/ctxwhisper/internal/app"
	"github.com/naricha/ctxwhisper/internal/config"
	"github.com/naricha/ctxwhisper/internal/llm"
	"github.com/naricha/ctxwhisper/internal/store"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// newService builds the summarization backend from the merged config.
// Tests swap this out for a scripted mock.
var newService = func(c config.Config) llm.Service {
	return llm.NewService(llm.Config{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      config.APIKey(),
		BaseURL:     c.BaseURL,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	})
}

var rootCmd = &cobra.Command{
	Use:   "ctxwhisper",
	Short: "Summarize content and chat about it from your terminal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First run: no global config → run the setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !config.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to ctxwhisper! Looks like this is your first time.")
				if err := runSetup(true); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults.
		}

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp rehydrates the application over the persisted snapshots.
func newApp() (*app.App, error) {
	st, err := store.New()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, st, newService(cfg))
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}
