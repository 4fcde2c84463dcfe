package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/rvw/internal/editor"
)

var modeCmd = &cobra.Command{
	Use:   "mode [local|remote]",
	Short: "Show or set the editor delivery mode",
	Long: `Show or set how dispatched files are delivered to the editor.

local launches the editor directly; remote stages the command in the
mailbox file for an out-of-process watcher. Absent or unrecognized
state defaults to remote.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := newDispatcher()

		if len(args) == 0 {
			return ui.JSON(map[string]string{"mode": string(d.CurrentMode())})
		}

		m := editor.Mode(args[0])
		if err := d.SetMode(m); err != nil {
			return err
		}
		ui.Success("editor mode set to %s", m)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modeCmd)
}
