package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/rvw/internal/editor"
)

func TestMode_RoundTripThroughStateDir(t *testing.T) {
	dir := testEnv(t)
	viper.Set("state_dir", filepath.Join(dir, ".state"))

	d := newDispatcher()
	assert.Equal(t, editor.ModeRemote, d.CurrentMode(), "absent marker defaults to remote")

	require.NoError(t, d.SetMode(editor.ModeLocal))

	// A fresh dispatcher reads the persisted mode.
	assert.Equal(t, editor.ModeLocal, newDispatcher().CurrentMode())
}

func TestMode_RejectsUnknown(t *testing.T) {
	dir := testEnv(t)
	viper.Set("state_dir", filepath.Join(dir, ".state"))

	assert.Error(t, newDispatcher().SetMode(editor.Mode("vim")))
}
