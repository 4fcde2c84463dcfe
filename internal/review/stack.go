package review

import (
	"context"
	"strings"

	"github.com/joescharf/rvw/internal/git"
)

// StackResult lists the commits between the merge-base with a branch and
// HEAD, plus per-file diff statistics. Stats is the preformatted text
// produced by the VCS; it is never parsed.
type StackResult struct {
	Repo      string   `json:"repo"`
	Branch    string   `json:"branch"`
	Base      string   `json:"base"`
	MergeBase string   `json:"merge_base"`
	Commits   []string `json:"commits"`
	Count     int      `json:"count"`
	Stats     string   `json:"stats"`
}

// Stack reports the commit stack since branch. Commits keep the order the
// one-line log produces for the merge-base..HEAD range (newest first);
// ErrNoMergeBase is returned when there is no common ancestor.
func (e *Engine) Stack(ctx context.Context, repo, branch string) (*StackResult, error) {
	mergeBase, err := e.mergeBase(ctx, repo, branch)
	if err != nil {
		return nil, err
	}

	log, err := e.Git.Run(ctx, repo, "log", "--oneline", mergeBase+"..HEAD")
	if err != nil {
		return nil, err
	}
	commits := git.Lines(log.Stdout)
	if commits == nil {
		commits = []string{}
	}

	current := e.currentBranch(ctx, repo)

	stats := ""
	if stat, err := e.Git.Run(ctx, repo, "diff", "--stat", mergeBase); err != nil {
		return nil, err
	} else if stat.Ok() {
		stats = strings.TrimSpace(stat.Stdout)
	}

	return &StackResult{
		Repo:      repo,
		Branch:    current,
		Base:      branch,
		MergeBase: shortHash(mergeBase),
		Commits:   commits,
		Count:     len(commits),
		Stats:     stats,
	}, nil
}
