package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naricha/ctxwhisper/internal/chat"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask a follow-up question about the current summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		reply, err := a.Send(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, chat.ErrLocked) {
				return fmt.Errorf("%s", chat.MsgChatLocked)
			}
			return err
		}

		cmd.Println(strings.TrimSpace(reply))
		return nil
	},
}

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Resend the last question after a failed reply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		reply, err := a.Retry(cmd.Context())
		if err != nil {
			if errors.Is(err, chat.ErrNothingToRetry) {
				return fmt.Errorf("nothing to retry: no question has been asked yet")
			}
			return err
		}

		cmd.Println(strings.TrimSpace(reply))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(retryCmd)
}
