package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// openResult mirrors the staging result shape for direct opens.
type openResult struct {
	Status    string   `json:"status"`
	Mode      string   `json:"mode"`
	Files     []string `json:"files"`
	FileCount int      `json:"file_count"`
}

var openCmd = &cobra.Command{
	Use:   "open <files...>",
	Short: "Open files in the editor, respecting the delivery mode",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Existing paths are resolved to absolute form; anything else is
		// passed through verbatim for the editor to complain about.
		resolved := make([]string, 0, len(args))
		for _, f := range args {
			if _, err := os.Stat(f); err != nil {
				resolved = append(resolved, f)
				continue
			}
			abs, err := filepath.Abs(f)
			if err != nil {
				return err
			}
			if real, err := filepath.EvalSymlinks(abs); err == nil {
				abs = real
			}
			resolved = append(resolved, abs)
		}

		d := newDispatcher()
		if err := d.Open(resolved, viper.GetBool("editor.new_window")); err != nil {
			return err
		}

		return ui.JSON(&openResult{
			Status:    "opened",
			Mode:      string(d.CurrentMode()),
			Files:     resolved,
			FileCount: len(resolved),
		})
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
