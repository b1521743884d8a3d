package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session at a glance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		s := a.Session
		cmd.Printf("Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		cmd.Printf("Language: %s\n", s.Options.Language)
		cmd.Printf("Context: %d chars\n", len(s.Context))
		if s.Summary == "" {
			cmd.Println("Summary: (none)")
		} else {
			cmd.Printf("Summary: %s\n", firstLine(s.Summary, 60))
		}
		cmd.Printf("Chat: %s, %d messages\n", a.Thread.Status(), len(s.Messages))
		cmd.Printf("History: %d entries\n", len(s.History))
		if s.LastError != "" {
			cmd.Printf("Last error: %s\n", s.LastError)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
