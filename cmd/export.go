package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naricha/ctxwhisper/internal/app"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current summary to a dated text file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		dir := exportDir
		if dir == "" {
			dir = cfg.ExportDir
		}

		path, err := a.ExportSummary(dir)
		if err != nil {
			if errors.Is(err, app.ErrNoSummary) {
				return fmt.Errorf("no summary to export — run an analysis first")
			}
			return err
		}

		cmd.Printf("exported to %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "", "directory to write into (default from config)")
	rootCmd.AddCommand(exportCmd)
}
