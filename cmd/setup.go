package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naricha/ctxwhisper/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure ctxwhisper (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works before config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(false)
	},
}

// runSetup runs the interactive setup wizard.
// If firstRun is true, a welcome message is shown.
func runSetup(firstRun bool) error {
	if firstRun {
		fmt.Println()
		fmt.Println("  Welcome to ctxwhisper! Let's get you set up.")
	}

	// Load the existing config as prompt defaults if present.
	var existing *config.Config
	if config.Exists() {
		c, err := config.LoadGlobal()
		if err == nil {
			existing = c
		}
	}

	c, err := config.RunSetup(existing)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := config.SaveGlobal(c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Println("  ✓ Config saved.")
	fmt.Println("  Setup complete. Run 'ctxwhisper analyze <file>' or 'ctxwhisper chat' to begin.")
	fmt.Println()
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
