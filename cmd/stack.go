package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/rvw/internal/review"
)

var stackFormat string

var stackCmd = &cobra.Command{
	Use:   "stack [repo] [branch]",
	Short: "Show the commit stack since a branch",
	Long: `List the commits between the merge-base with the given branch
(default main) and HEAD, plus per-file diff statistics.`,
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

		res, err := newEngine().Stack(cmd.Context(), repo, branch)
		if errors.Is(err, review.ErrNoMergeBase) {
			// Same contract as milestone: a missing merge base is a
			// result record, not a command failure.
			return ui.JSON(&review.Result{
				Status: review.StatusError,
				Error:  err.Error(),
				Repo:   repo,
			})
		}
		if err != nil {
			return err
		}

		if stackFormat == "table" {
			return stackTable(res)
		}
		return ui.JSON(res)
	},
}

func init() {
	stackCmd.Flags().StringVar(&stackFormat, "format", "json", "Output format: json, table")
	rootCmd.AddCommand(stackCmd)
}

func stackTable(res *review.StackResult) error {
	ui.Info("%s: %d commit(s) on %s since %s (merge base %s)",
		res.Repo, res.Count, res.Branch, res.Base, res.MergeBase)
	for _, c := range res.Commits {
		fmt.Fprintf(ui.Out, "  %s\n", c)
	}
	if res.Stats != "" {
		fmt.Fprintln(ui.Out)
		fmt.Fprintln(ui.Out, res.Stats)
	}
	return nil
}
