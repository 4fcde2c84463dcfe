package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var incrementalCmd = &cobra.Command{
	Use:   "incremental [repo] [n]",
	Short: "Stage an incremental review of the last N commits",
	Long: `Stage an incremental review: diff the last N commits (default 1)
against HEAD and open the changed files in the editor.

The repo argument is an alias from the directory map, a path, or empty
to use the active task's first repository.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		alias := ""
		n := 1
		if len(args) > 0 {
			alias = args[0]
		}
		if len(args) > 1 {
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid commit count %q", args[1])
			}
			n = v
		}

		repo, err := newWorkspace().Resolve(alias)
		if err != nil {
			return err
		}

		res, err := newEngine().Incremental(cmd.Context(), repo, n)
		if err != nil {
			return err
		}
		return ui.JSON(res)
	},
}

func init() {
	rootCmd.AddCommand(incrementalCmd)
}
