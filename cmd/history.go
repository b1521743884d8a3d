package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/naricha/ctxwhisper/internal/state"
)

var restoreYes bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if len(a.Session.History) == 0 {
			cmd.Println("no past analyses")
			return nil
		}
		for _, e := range a.Session.History {
			cmd.Printf("%s  %s  %s\n",
				e.ID[:8],
				e.CreatedAt.Local().Format("2006-01-02 15:04"),
				firstLine(e.Summary, 60))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a past analysis in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		e, err := findEntry(a.Session.History, args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Created:  %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		cmd.Printf("Language: %s\n", e.Options.Language)
		if e.Options.ExcludeCode {
			cmd.Println("Options:  exclude code")
		}
		if e.Options.FocusKeywords != "" {
			cmd.Printf("Focus:    %s\n", e.Options.FocusKeywords)
		}
		cmd.Println()
		cmd.Println(strings.TrimSpace(e.Summary))
		return nil
	},
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Replace the current context and summary with a past analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		e, err := findEntry(a.Session.History, args[0])
		if err != nil {
			return err
		}

		if !restoreYes {
			if !term.IsTerminal(os.Stdin.Fd()) {
				return errors.New("confirmation required: pass --yes to restore non-interactively")
			}
			fmt.Printf("Restore the analysis from %s? The current context, summary, and conversation will be replaced. [y/N] ",
				e.CreatedAt.Local().Format("2006-01-02 15:04"))
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
				cmd.Println("aborted")
				return nil
			}
		}

		if err := a.RestoreHistory(e.ID); err != nil {
			return err
		}
		cmd.Println("restored")
		return nil
	},
}

// findEntry resolves a full or prefix entry ID.
func findEntry(h state.History, id string) (state.HistoryEntry, error) {
	if e, ok := h.Find(id); ok {
		return e, nil
	}
	var matches []state.HistoryEntry
	for _, e := range h {
		if strings.HasPrefix(e.ID, id) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return state.HistoryEntry{}, fmt.Errorf("no history entry matches %q", id)
	default:
		return state.HistoryEntry{}, errors.New("ambiguous id: matches more than one entry")
	}
}

func firstLine(s string, width int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if width > 1 && len(s) > width {
		s = s[:width-1] + "…"
	}
	return s
}

func init() {
	historyRestoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "skip the confirmation prompt")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRestoreCmd)
	rootCmd.AddCommand(historyCmd)
}
