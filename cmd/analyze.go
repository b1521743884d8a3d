package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/naricha/ctxwhisper/internal/state"
)

var (
	analyzeExcludeCode bool
	analyzeFocus       string
	analyzeLang        string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Summarize a file, piped input, or the stored context",
	Long: `Summarize content with the configured backend.

With a file argument, the file's text becomes the context. With piped
input, stdin becomes the context. With neither, the previously stored
context is re-analyzed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		switch {
		case len(args) == 1:
			if err := a.LoadContextFile(args[0]); err != nil {
				return err
			}
		case !term.IsTerminal(os.Stdin.Fd()):
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			// Empty piped input falls through to the stored context.
			if len(strings.TrimSpace(string(data))) > 0 {
				if err := a.SetContext(string(data)); err != nil {
					return err
				}
			}
		}

		if analyzeExcludeCode {
			a.Session.Options.ExcludeCode = true
		}
		if analyzeFocus != "" {
			a.Session.Options.FocusKeywords = analyzeFocus
		}
		if analyzeLang != "" {
			a.Session.Options.Language = state.ParseLanguage(analyzeLang)
		}

		summary, err := a.Analyze(cmd.Context())
		if err != nil {
			if a.Session.LastError != "" {
				return fmt.Errorf("%s", a.Session.LastError)
			}
			return err
		}

		cmd.Println(strings.TrimSpace(summary))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeExcludeCode, "exclude-code", false, "skip code snippets when summarizing")
	analyzeCmd.Flags().StringVar(&analyzeFocus, "focus", "", "comma-separated keywords to focus the summary on")
	analyzeCmd.Flags().StringVar(&analyzeLang, "lang", "", "summary language (en or th)")
	rootCmd.AddCommand(analyzeCmd)
}
