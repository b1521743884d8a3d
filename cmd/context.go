package cmd

import (
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Inspect or edit the stored context text",
}

var contextShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if a.Session.Context == "" {
			cmd.Println("(empty)")
			return nil
		}
		cmd.Println(a.Session.Context)
		return nil
	},
}

var contextSetCmd = &cobra.Command{
	Use:   "set <text>",
	Short: "Replace the stored context with the given text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.SetContext(args[0])
	},
}

var contextLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Replace the stored context with the text of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.LoadContextFile(args[0])
	},
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the stored context",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return a.ClearContext()
	},
}

func init() {
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextLoadCmd)
	contextCmd.AddCommand(contextClearCmd)
	rootCmd.AddCommand(contextCmd)
}
