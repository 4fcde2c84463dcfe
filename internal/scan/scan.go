// Package scan finds review annotation comments in a repository.
//
// Two markers are recognized: "RVW:" flags a line for discussion and
// "RVWY:" flags it for auto-apply. The markers match anywhere on a line;
// no comment syntax is parsed.
package scan

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// MarkerPattern is the broad search expression handed to the search tool.
// It matches both markers; Scan narrows the hits afterwards.
const MarkerPattern = `RVWY?:`

// DefaultIncludes is the file allow-list searched for markers.
var DefaultIncludes = []string{
	"*.go", "*.py", "*.cpp", "*.c", "*.h", "*.hpp",
	"*.cmake", "CMakeLists.txt", "*.md", "*.toml",
	"*.yaml", "*.yml", "*.sh", "*.js", "*.ts",
}

var (
	yoloRe    = regexp.MustCompile(`RVWY:\s*(.*)$`)
	discussRe = regexp.MustCompile(`RVW:\s*(.*)$`)
)

// Comment is one annotation found in the repository.
type Comment struct {
	File         string `json:"file"`
	RelativePath string `json:"relative_path"`
	Line         int    `json:"line"`
	Raw          string `json:"raw"`
	Comment      string `json:"comment"`
	Yolo         bool   `json:"yolo"`
}

// Report is the result of scanning one repository.
type Report struct {
	Repo     string    `json:"repo"`
	Count    int       `json:"count"`
	Comments []Comment `json:"comments"`
}

// Scanner finds annotation comments via an injected Searcher.
type Scanner struct {
	Searcher Searcher
	Includes []string
}

// NewScanner returns a Scanner over the given searcher with the default
// include list.
func NewScanner(s Searcher) *Scanner {
	return &Scanner{Searcher: s, Includes: DefaultIncludes}
}

// Scan searches repo for annotation markers and structures the hits.
// "RVWY:" is checked before "RVW:" so a line containing both yields one
// auto-apply record. Hits where the broad pattern matched but neither
// marker is present are dropped. Results are sorted by (relative path,
// line); the search tool's own traversal order is not stable across
// implementations.
func (s *Scanner) Scan(ctx context.Context, repo string) (*Report, error) {
	includes := s.Includes
	if len(includes) == 0 {
		includes = DefaultIncludes
	}

	matches, err := s.Searcher.Search(ctx, repo, MarkerPattern, includes)
	if err != nil {
		return nil, err
	}

	comments := []Comment{}
	for _, m := range matches {
		raw := strings.TrimSpace(m.Text)

		var text string
		var yolo bool
		if g := yoloRe.FindStringSubmatch(raw); g != nil {
			text, yolo = g[1], true
		} else if g := discussRe.FindStringSubmatch(raw); g != nil {
			text = g[1]
		} else {
			continue
		}

		comments = append(comments, Comment{
			File:         filepath.Join(repo, m.Path),
			RelativePath: m.Path,
			Line:         m.Line,
			Raw:          raw,
			Comment:      strings.TrimSpace(text),
			Yolo:         yolo,
		})
	}

	sort.Slice(comments, func(i, j int) bool {
		if comments[i].RelativePath != comments[j].RelativePath {
			return comments[i].RelativePath < comments[j].RelativePath
		}
		return comments[i].Line < comments[j].Line
	})

	return &Report{Repo: repo, Count: len(comments), Comments: comments}, nil
}
