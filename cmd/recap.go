package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naricha/ctxwhisper/internal/app"
)

var recapCmd = &cobra.Command{
	Use:   "recap",
	Short: "Summarize the conversation so far",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		recap, err := a.Recap(cmd.Context())
		if err != nil {
			if errors.Is(err, app.ErrNoConversation) {
				return fmt.Errorf("no conversation to summarize — ask something first")
			}
			if a.Session.LastError != "" {
				return fmt.Errorf("%s", a.Session.LastError)
			}
			return err
		}

		cmd.Println(strings.TrimSpace(recap))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recapCmd)
}
