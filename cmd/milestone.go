package cmd

import (
	"github.com/spf13/cobra"
)

var milestoneCmd = &cobra.Command{
	Use:   "milestone [repo] [branch]",
	Short: "Stage a milestone review of all changes since a branch",
	Long: `Stage a milestone review: diff everything since the merge-base
with the given branch (default main) and open the changed files in the
editor.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		alias := ""
		branch := "main"
		if len(args) > 0 {
			alias = args[0]
		}
		if len(args) > 1 {
			branch = args[1]
		}

		repo, err := newWorkspace().Resolve(alias)
		if err != nil {
			return err
		}

		res, err := newEngine().Milestone(cmd.Context(), repo, branch)
		if err != nil {
			return err
		}
		return ui.JSON(res)
	},
}

func init() {
	rootCmd.AddCommand(milestoneCmd)
}
