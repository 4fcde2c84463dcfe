package scan

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Match is one line reported by the search tool.
type Match struct {
	Path string // relative to the searched directory
	Line int    // 1-based
	Text string
}

// Searcher runs a recursive text search in a directory. The real
// implementation shells out to grep; tests substitute scripted matches.
type Searcher interface {
	Search(ctx context.Context, dir, pattern string, includes []string) ([]Match, error)
}

// GrepSearcher implements Searcher using the grep binary.
type GrepSearcher struct {
	// Timeout bounds each invocation; zero means no deadline.
	Timeout time.Duration
}

// NewGrepSearcher returns a GrepSearcher with the given timeout.
func NewGrepSearcher(timeout time.Duration) *GrepSearcher {
	return &GrepSearcher{Timeout: timeout}
}

func (g *GrepSearcher) Search(ctx context.Context, dir, pattern string, includes []string) ([]Match, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	args := []string{"-rn", "-E", pattern}
	for _, inc := range includes {
		args = append(args, "--include="+inc)
	}
	args = append(args, ".")

	cmd := exec.CommandContext(ctx, "grep", args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		// Exit 1 means no matches; anything else is a real failure.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("grep %s: %w", pattern, err)
	}

	return parseGrepOutput(string(out)), nil
}

// grepLineRe parses grep -rn output: ./path/file.go:42:text
var grepLineRe = regexp.MustCompile(`^\.?/?([^:]+):(\d+):(.*)$`)

func parseGrepOutput(out string) []Match {
	var matches []Match
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		g := grepLineRe.FindStringSubmatch(line)
		if g == nil {
			continue
		}
		lineno, err := strconv.Atoi(g[2])
		if err != nil {
			continue
		}
		matches = append(matches, Match{Path: g[1], Line: lineno, Text: g[3]})
	}
	return matches
}
