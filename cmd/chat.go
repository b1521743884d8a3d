package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naricha/ctxwhisper/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive TUI (context, summary, chat, history)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return tui.Run(a)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
