package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	matches []Match
	err     error

	dir      string
	pattern  string
	includes []string
}

func (f *fakeSearcher) Search(_ context.Context, dir, pattern string, includes []string) ([]Match, error) {
	f.dir, f.pattern, f.includes = dir, pattern, includes
	return f.matches, f.err
}

func TestScan_DiscussMarker(t *testing.T) {
	fake := &fakeSearcher{matches: []Match{
		{Path: "pkg/a.py", Line: 12, Text: "    # RVW: discuss naming"},
	}}
	report, err := NewScanner(fake).Scan(context.Background(), "/repo")
	require.NoError(t, err)

	require.Equal(t, 1, report.Count)
	c := report.Comments[0]
	assert.Equal(t, "/repo/pkg/a.py", c.File)
	assert.Equal(t, "pkg/a.py", c.RelativePath)
	assert.Equal(t, 12, c.Line)
	assert.Equal(t, "# RVW: discuss naming", c.Raw)
	assert.Equal(t, "discuss naming", c.Comment)
	assert.False(t, c.Yolo)
}

func TestScan_YoloMarker(t *testing.T) {
	fake := &fakeSearcher{matches: []Match{
		{Path: "main.go", Line: 3, Text: "\t// RVWY: fix bounds check"},
	}}
	report, err := NewScanner(fake).Scan(context.Background(), "/repo")
	require.NoError(t, err)

	require.Equal(t, 1, report.Count)
	assert.True(t, report.Comments[0].Yolo)
	assert.Equal(t, "fix bounds check", report.Comments[0].Comment)
}

func TestScan_YoloWinsWhenBothMarkersPresent(t *testing.T) {
	fake := &fakeSearcher{matches: []Match{
		{Path: "x.c", Line: 1, Text: "// RVWY: see RVW: below"},
	}}
	report, err := NewScanner(fake).Scan(context.Background(), "/repo")
	require.NoError(t, err)

	require.Equal(t, 1, report.Count)
	assert.True(t, report.Comments[0].Yolo)
	assert.Equal(t, "see RVW: below", report.Comments[0].Comment)
}

func TestScan_DropsBroadPatternFalsePositives(t *testing.T) {
	// A lenient search tool may report hits carrying neither marker.
	fake := &fakeSearcher{matches: []Match{
		{Path: "x.md", Line: 1, Text: "no marker on this line"},
	}}
	report, err := NewScanner(fake).Scan(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Zero(t, report.Count)
	assert.Empty(t, report.Comments)
}

func TestScan_SortsByPathThenLine(t *testing.T) {
	fake := &fakeSearcher{matches: []Match{
		{Path: "b.go", Line: 9, Text: "// RVW: two"},
		{Path: "a.go", Line: 20, Text: "// RVW: three"},
		{Path: "a.go", Line: 2, Text: "// RVW: one"},
	}}
	report, err := NewScanner(fake).Scan(context.Background(), "/repo")
	require.NoError(t, err)

	require.Equal(t, 3, report.Count)
	assert.Equal(t, "one", report.Comments[0].Comment)
	assert.Equal(t, "three", report.Comments[1].Comment)
	assert.Equal(t, "two", report.Comments[2].Comment)
}

func TestScan_SearcherError(t *testing.T) {
	fake := &fakeSearcher{err: errors.New("boom")}
	_, err := NewScanner(fake).Scan(context.Background(), "/repo")
	assert.Error(t, err)
}

func TestScan_PassesPatternAndIncludes(t *testing.T) {
	fake := &fakeSearcher{}
	_, err := NewScanner(fake).Scan(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, "/repo", fake.dir)
	assert.Equal(t, MarkerPattern, fake.pattern)
	assert.Equal(t, DefaultIncludes, fake.includes)
}

func TestParseGrepOutput(t *testing.T) {
	out := "./pkg/a.py:12:    # RVW: discuss\nmain.go:3:// RVWY: fix\n"
	matches := parseGrepOutput(out)
	require.Len(t, matches, 2)
	assert.Equal(t, Match{Path: "pkg/a.py", Line: 12, Text: "    # RVW: discuss"}, matches[0])
	assert.Equal(t, Match{Path: "main.go", Line: 3, Text: "// RVWY: fix"}, matches[1])
}

func TestParseGrepOutput_Empty(t *testing.T) {
	assert.Nil(t, parseGrepOutput(""))
}
