package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joescharf/rvw/internal/output"
	"github.com/joescharf/rvw/internal/scan"
)

var commentsFormat string

var commentsCmd = &cobra.Command{
	Use:   "comments [repo]",
	Short: "Collect RVW:/RVWY: review annotations from a repo",
	Long: `Scan a repository for inline review annotations.

RVW: marks a line for discussion; RVWY: marks it for auto-apply.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alias := ""
		if len(args) > 0 {
			alias = args[0]
		}

		repo, err := newWorkspace().Resolve(alias)
		if err != nil {
			return err
		}

		report, err := newScanner().Scan(cmd.Context(), repo)
		if err != nil {
			return err
		}

		if commentsFormat == "table" {
			return commentsTable(report.Comments)
		}
		return ui.JSON(report)
	},
}

func init() {
	commentsCmd.Flags().StringVar(&commentsFormat, "format", "json", "Output format: json, table")
	rootCmd.AddCommand(commentsCmd)
}

func commentsTable(comments []scan.Comment) error {
	if len(comments) == 0 {
		ui.Info("No review annotations found.")
		return nil
	}

	table := ui.Table([]string{"File", "Line", "Kind", "Comment"})
	for _, c := range comments {
		kind := "discuss"
		if c.Yolo {
			kind = output.Yellow("auto-apply")
		}
		table.Append([]string{
			output.Cyan(c.RelativePath),
			strconv.Itoa(c.Line),
			kind,
			c.Comment,
		})
	}
	table.Render()
	fmt.Fprintln(ui.Out)
	ui.Info("%d annotation(s)", len(comments))
	return nil
}
