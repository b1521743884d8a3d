package cmd

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naricha/ctxwhisper/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-summarize a file every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("watching %s (ctrl+c to stop)\n\n", args[0])
		return a.Watch(ctx, args[0], func(r app.WatchResult) {
			if r.Err != nil {
				fmt.Printf("✗ %s: %v\n", r.Path, r.Err)
				return
			}
			fmt.Printf("── %s ──\n%s\n\n", r.Path, strings.TrimSpace(r.Summary))
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
