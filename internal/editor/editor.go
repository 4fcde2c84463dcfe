// Package editor delivers file lists to an editor, either by launching it
// directly or by staging a command for an out-of-process watcher.
package editor

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Mode selects how dispatched commands are delivered.
type Mode string

const (
	// ModeLocal launches the editor as a child process.
	ModeLocal Mode = "local"
	// ModeRemote stages the command in the mailbox file for a watcher.
	ModeRemote Mode = "remote"
)

// Dispatcher builds editor commands and delivers them per the current mode.
// The mode is read fresh from the marker file on every dispatch.
type Dispatcher struct {
	FS afero.Fs

	StateDir    string
	ModeFile    string
	CommandFile string

	// Editor is the editor binary, e.g. "code".
	Editor string

	// Launch runs the editor in local mode. Replaceable in tests.
	Launch func(name string, args ...string) error

	// Logf, when set, receives swallowed local-launch failures.
	Logf func(format string, a ...any)
}

// New returns a Dispatcher staging state under stateDir.
func New(stateDir, editorCmd string) *Dispatcher {
	return &Dispatcher{
		FS:          afero.NewOsFs(),
		StateDir:    stateDir,
		ModeFile:    filepath.Join(stateDir, "editor-mode"),
		CommandFile: filepath.Join(stateDir, "editor-commands"),
		Editor:      editorCmd,
		Launch:      launch,
	}
}

// launch runs the editor synchronously with output discarded.
func launch(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// CurrentMode reads the mode marker file. Absent or unrecognized content
// defaults to remote.
func (d *Dispatcher) CurrentMode() Mode {
	data, err := afero.ReadFile(d.FS, d.ModeFile)
	if err != nil {
		return ModeRemote
	}
	switch m := Mode(strings.ToLower(strings.TrimSpace(string(data)))); m {
	case ModeLocal, ModeRemote:
		return m
	}
	return ModeRemote
}

// SetMode writes the mode marker file, creating the state dir if needed.
func (d *Dispatcher) SetMode(m Mode) error {
	if m != ModeLocal && m != ModeRemote {
		return fmt.Errorf("invalid editor mode %q (use local or remote)", m)
	}
	if err := d.FS.MkdirAll(d.StateDir, 0o755); err != nil {
		return err
	}
	return afero.WriteFile(d.FS, d.ModeFile, []byte(string(m)+"\n"), 0o644)
}

// Open delivers files to the editor. A nil or empty list is a no-op. In
// local mode, launch failures are swallowed (reported via Logf only);
// staging the editor is convenience, not correctness.
func (d *Dispatcher) Open(files []string, newWindow bool) error {
	if len(files) == 0 {
		return nil
	}

	parts := []string{d.Editor}
	if newWindow {
		parts = append(parts, "--new-window")
	}
	parts = append(parts, files...)

	if d.CurrentMode() == ModeLocal {
		if err := d.Launch(parts[0], parts[1:]...); err != nil && d.Logf != nil {
			d.Logf("editor launch failed: %v", err)
		}
		return nil
	}
	return d.stage(strings.Join(parts, " ") + "\n")
}

// stage overwrites the mailbox with the command line. The write goes to a
// temp file renamed into place, so a concurrent reader sees either the old
// command or the new one, never a partial write. Last writer wins; there
// is no queue.
func (d *Dispatcher) stage(command string) error {
	if err := d.FS.MkdirAll(d.StateDir, 0o755); err != nil {
		return err
	}
	tmp := d.CommandFile + ".tmp"
	if err := afero.WriteFile(d.FS, tmp, []byte(command), 0o644); err != nil {
		return err
	}
	return d.FS.Rename(tmp, d.CommandFile)
}
