package git

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a git repo in dir with a user config so commits work on CI.
func initTestRepo(t *testing.T, dir string) {
	t.Helper()
	cmds := [][]string{
		{"git", "-C", dir, "init"},
		{"git", "-C", dir, "config", "user.email", "test@test.com"},
		{"git", "-C", dir, "config", "user.name", "Test"},
	}
	for _, args := range cmds {
		require.NoError(t, exec.Command(args[0], args[1:]...).Run())
	}
}

func commitFile(t *testing.T, dir, name, content, msg string) {
	t.Helper()
	require.NoError(t, os.WriteFile(dir+"/"+name, []byte(content), 0o644))
	require.NoError(t, exec.Command("git", "-C", dir, "add", name).Run())
	require.NoError(t, exec.Command("git", "-C", dir, "commit", "-m", msg).Run())
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	commitFile(t, dir, "a.txt", "hello", "init")

	res, err := NewRunner(0).Run(context.Background(), dir, "log", "--oneline")
	require.NoError(t, err)
	assert.True(t, res.Ok())
	assert.Contains(t, res.Stdout, "init")
	assert.Empty(t, res.Stderr)
}

func TestRun_NonZeroExitIsNotError(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	res, err := NewRunner(0).Run(context.Background(), dir, "rev-parse", "--verify", "no-such-ref")
	require.NoError(t, err)
	assert.False(t, res.Ok())
	assert.NotZero(t, res.ExitCode)
	assert.NotEmpty(t, res.Stderr)
}

func TestRun_MissingDirIsError(t *testing.T) {
	_, err := NewRunner(0).Run(context.Background(), "/nonexistent/path", "status")
	assert.Error(t, err)
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a.go", "b/c.go"}, Lines("a.go\nb/c.go\n"))
	assert.Nil(t, Lines(""))
	assert.Nil(t, Lines("\n\n"))
}
