// Package review stages code-review sessions: it computes which files
// changed over a chosen range, hands them to the editor dispatcher, and
// reports commit stacks against a base branch.
package review

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joescharf/rvw/internal/editor"
	"github.com/joescharf/rvw/internal/git"
)

var (
	// ErrInvalidRange reports a non-positive commit count.
	ErrInvalidRange = errors.New("commit count must be at least 1")
	// ErrNoMergeBase reports that HEAD and the base branch share no ancestor.
	ErrNoMergeBase = errors.New("no merge base")
)

// Status classifies a staging result.
type Status string

const (
	StatusStaged  Status = "staged"
	StatusNothing Status = "nothing_to_review"
	StatusError   Status = "error"
)

// Result is the record returned by the diff-range strategies. Fields not
// meaningful for a given status are left zero and omitted from JSON.
type Result struct {
	Status      Status   `json:"status"`
	Error       string   `json:"error,omitempty"`
	Mode        string   `json:"mode,omitempty"`
	Repo        string   `json:"repo"`
	Branch      string   `json:"branch,omitempty"`
	Base        string   `json:"base,omitempty"`
	Head        string   `json:"head,omitempty"`
	MergeBase   string   `json:"merge_base,omitempty"`
	Files       []string `json:"files,omitempty"`
	FileCount   int      `json:"file_count,omitempty"`
	CommitCount *int     `json:"commit_count,omitempty"`
}

// Opener is the slice of the editor dispatcher the engine needs.
type Opener interface {
	CurrentMode() editor.Mode
	Open(files []string, newWindow bool) error
}

// Engine runs the staging strategies against one git runner and one
// editor dispatcher.
type Engine struct {
	Git    git.Runner
	Opener Opener

	// NewWindow is passed through to the dispatcher on every open.
	NewWindow bool
}

// NewEngine returns an Engine over the given runner and opener.
func NewEngine(r git.Runner, o Opener) *Engine {
	return &Engine{Git: r, Opener: o, NewWindow: true}
}

// Incremental stages a review of the last n commits. VCS failures (e.g.
// fewer than n commits exist) become a status=error record carrying the
// command's stderr; they are not returned as Go errors.
func (e *Engine) Incremental(ctx context.Context, repo string, n int) (*Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRange, n)
	}
	base := fmt.Sprintf("HEAD~%d", n)

	diff, err := e.Git.Run(ctx, repo, "diff", "--name-only", base)
	if err != nil {
		return nil, err
	}
	if !diff.Ok() {
		return &Result{Status: StatusError, Error: strings.TrimSpace(diff.Stderr), Repo: repo}, nil
	}

	files := git.Lines(diff.Stdout)
	if len(files) == 0 {
		return &Result{Status: StatusNothing, Base: base, Repo: repo}, nil
	}

	branch := e.currentBranch(ctx, repo)
	e.open(repo, files)

	return &Result{
		Status:    StatusStaged,
		Mode:      string(e.Opener.CurrentMode()),
		Repo:      repo,
		Branch:    branch,
		Base:      base,
		Head:      "HEAD",
		Files:     files,
		FileCount: len(files),
	}, nil
}

// Milestone stages a review of all changes since the merge-base with the
// named branch. When the file list is empty the result still carries the
// truncated merge-base, but never a commit count, even though one has been
// computed by then.
func (e *Engine) Milestone(ctx context.Context, repo, branch string) (*Result, error) {
	mergeBase, err := e.mergeBase(ctx, repo, branch)
	if err != nil {
		if errors.Is(err, ErrNoMergeBase) {
			return &Result{Status: StatusError, Error: err.Error(), Repo: repo}, nil
		}
		return nil, err
	}

	diff, err := e.Git.Run(ctx, repo, "diff", "--name-only", mergeBase)
	if err != nil {
		return nil, err
	}
	files := git.Lines(diff.Stdout)

	commitCount := 0
	count, err := e.Git.Run(ctx, repo, "rev-list", "--count", mergeBase+"..HEAD")
	if err != nil {
		return nil, err
	}
	if count.Ok() {
		commitCount, _ = strconv.Atoi(strings.TrimSpace(count.Stdout))
	}

	current := e.currentBranch(ctx, repo)

	if len(files) == 0 {
		return &Result{
			Status:    StatusNothing,
			Base:      branch,
			MergeBase: shortHash(mergeBase),
			Repo:      repo,
		}, nil
	}

	e.open(repo, files)

	return &Result{
		Status:      StatusStaged,
		Mode:        string(e.Opener.CurrentMode()),
		Repo:        repo,
		Branch:      current,
		Base:        branch,
		MergeBase:   shortHash(mergeBase),
		Files:       files,
		FileCount:   len(files),
		CommitCount: &commitCount,
	}, nil
}

// mergeBase resolves the nearest common ancestor of HEAD and branch.
func (e *Engine) mergeBase(ctx context.Context, repo, branch string) (string, error) {
	res, err := e.Git.Run(ctx, repo, "merge-base", "HEAD", branch)
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", fmt.Errorf("%w with %s", ErrNoMergeBase, branch)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// currentBranch returns the checked-out branch, or "unknown" when the
// lookup fails.
func (e *Engine) currentBranch(ctx context.Context, repo string) string {
	res, err := e.Git.Run(ctx, repo, "branch", "--show-current")
	if err != nil || !res.Ok() {
		return "unknown"
	}
	return strings.TrimSpace(res.Stdout)
}

// open dispatches the repo-relative files as absolute paths. Dispatch
// failures never fail the staging result.
func (e *Engine) open(repo string, files []string) {
	full := make([]string, len(files))
	for i, f := range files {
		full[i] = filepath.Join(repo, f)
	}
	_ = e.Opener.Open(full, e.NewWindow)
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
