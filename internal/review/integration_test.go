package review

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/rvw/internal/git"
)

func initRepo(t *testing.T, dir string) {
	t.Helper()
	cmds := [][]string{
		{"git", "-C", dir, "init", "-b", "main"},
		{"git", "-C", dir, "config", "user.email", "test@test.com"},
		{"git", "-C", dir, "config", "user.name", "Test"},
	}
	for _, args := range cmds {
		require.NoError(t, exec.Command(args[0], args[1:]...).Run())
	}
}

func commit(t *testing.T, dir, name, content, msg string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	require.NoError(t, exec.Command("git", "-C", dir, "add", name).Run())
	require.NoError(t, exec.Command("git", "-C", dir, "commit", "-m", msg).Run())
}

func TestIncremental_RealRepo(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir)
	commit(t, dir, "base.txt", "base", "first")
	commit(t, dir, "changed.txt", "v1", "second")

	o := &fakeOpener{}
	e := NewEngine(git.NewRunner(30*time.Second), o)

	res, err := e.Incremental(context.Background(), dir, 1)
	require.NoError(t, err)

	assert.Equal(t, StatusStaged, res.Status)
	assert.Equal(t, "main", res.Branch)
	assert.Equal(t, []string{"changed.txt"}, res.Files)
	assert.Equal(t, 1, res.FileCount)
	require.Len(t, o.opened, 1)
	assert.Equal(t, []string{filepath.Join(dir, "changed.txt")}, o.opened[0])
}

func TestIncremental_RealRepo_RangePastRoot(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir)
	commit(t, dir, "only.txt", "x", "first")

	o := &fakeOpener{}
	e := NewEngine(git.NewRunner(30*time.Second), o)

	res, err := e.Incremental(context.Background(), dir, 5)
	require.NoError(t, err)

	assert.Equal(t, StatusError, res.Status)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, o.opened)
}

func TestMilestoneAndStack_RealRepo(t *testing.T) {
	dir := t.TempDir()
	initRepo(t, dir)
	commit(t, dir, "base.txt", "base", "first")

	require.NoError(t, exec.Command("git", "-C", dir, "checkout", "-b", "feature").Run())
	commit(t, dir, "feat.txt", "feat", "feature work")

	o := &fakeOpener{}
	e := NewEngine(git.NewRunner(30*time.Second), o)

	m, err := e.Milestone(context.Background(), dir, "main")
	require.NoError(t, err)
	assert.Equal(t, StatusStaged, m.Status)
	assert.Equal(t, "feature", m.Branch)
	assert.Equal(t, []string{"feat.txt"}, m.Files)
	require.NotNil(t, m.CommitCount)
	assert.Equal(t, 1, *m.CommitCount)
	assert.Len(t, m.MergeBase, 8)

	s, err := e.Stack(context.Background(), dir, "main")
	require.NoError(t, err)
	assert.Equal(t, m.MergeBase, s.MergeBase, "milestone and stack must agree on the merge base")
	assert.Equal(t, 1, s.Count)
	require.Len(t, s.Commits, 1)
	assert.Contains(t, s.Commits[0], "feature work")
	assert.Contains(t, s.Stats, "feat.txt")
}
