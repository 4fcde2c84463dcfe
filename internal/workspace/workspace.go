// Package workspace resolves repository aliases against the review
// workspace: a directory map document, an active-task pointer, and the
// task documents it names.
package workspace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrUnknownAlias reports an alias that is neither mapped nor an existing path.
var ErrUnknownAlias = errors.New("unknown repo alias")

// Workspace locates the documents alias resolution reads. All file access
// goes through FS so tests can run against an in-memory filesystem.
type Workspace struct {
	FS afero.Fs

	// DirectoryMap is the markdown document holding the alias table.
	DirectoryMap string
	// ActiveTask is a single-line file naming the active task.
	ActiveTask string
	// TasksDir holds task documents as <name>.md with YAML frontmatter.
	TasksDir string
}

// New returns a Workspace rooted at dir using the conventional layout.
func New(dir string) *Workspace {
	return &Workspace{
		FS:           afero.NewOsFs(),
		DirectoryMap: filepath.Join(dir, "directory-map.md"),
		ActiveTask:   filepath.Join(dir, ".active-task"),
		TasksDir:     filepath.Join(dir, "tasks", "active"),
	}
}

// Resolve maps an alias to a repository path.
//
// Resolution order:
//  1. Alias present in the directory map -> mapped path.
//  2. Alias is an existing filesystem path -> that path, canonicalized.
//  3. Alias given but neither of the above -> ErrUnknownAlias.
//  4. No alias: first repository of the active task, if mapped.
//  5. Fall back to the current directory.
//
// The directory map is re-parsed on every call; nothing is cached.
func (w *Workspace) Resolve(alias string) (string, error) {
	aliases := w.Aliases()

	if alias != "" {
		if path, ok := aliases[alias]; ok {
			return path, nil
		}
		if _, err := w.FS.Stat(alias); err == nil {
			return canonicalize(alias)
		}
		return "", fmt.Errorf("%w: %s", ErrUnknownAlias, alias)
	}

	if repos := w.ActiveTaskRepos(); len(repos) > 0 {
		if path, ok := aliases[repos[0]]; ok {
			return path, nil
		}
	}

	return os.Getwd()
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	// EvalSymlinks only works on the real filesystem; fall back to the
	// absolute path when the target is elsewhere (in-memory fs in tests).
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// Aliases parses the directory map and returns the alias table. A missing
// document yields an empty table.
func (w *Workspace) Aliases() map[string]string {
	f, err := w.FS.Open(w.DirectoryMap)
	if err != nil {
		return map[string]string{}
	}
	defer f.Close()
	return ParseAliasTable(f)
}

// Alias-table parser states.
type tableState int

const (
	beforeTable tableState = iota
	inTable
	tableDone
)

// ParseAliasTable scans a markdown document for the repository alias table.
// Parsing starts at the header row containing "| Alias |", skips separator
// rows, and stops at the first line not starting with a pipe. Each row
// contributes (alias, path) from its first two cells; rows with an empty
// alias or path, or a separator-token alias, are skipped.
func ParseAliasTable(r io.Reader) map[string]string {
	aliases := map[string]string{}
	state := beforeTable

	sc := bufio.NewScanner(r)
	for sc.Scan() && state != tableDone {
		line := sc.Text()
		switch state {
		case beforeTable:
			if strings.Contains(line, "| Alias |") {
				state = inTable
			}
		case inTable:
			if strings.HasPrefix(line, "|---") {
				continue
			}
			if !strings.HasPrefix(line, "|") {
				state = tableDone
				continue
			}
			cells := strings.Split(line, "|")
			if len(cells) < 3 {
				continue
			}
			alias := strings.TrimSpace(cells[1])
			path := strings.TrimSpace(cells[2])
			if alias == "" || path == "" || strings.HasPrefix(alias, "---") {
				continue
			}
			aliases[alias] = path
		}
	}
	return aliases
}

// taskHeader is the slice of task frontmatter resolution cares about.
type taskHeader struct {
	Repositories []string `yaml:"repositories"`
}

// ActiveTaskRepos returns the repository aliases declared by the active
// task's frontmatter, in declared order. Any missing or malformed link in
// the chain yields nil.
func (w *Workspace) ActiveTaskRepos() []string {
	data, err := afero.ReadFile(w.FS, w.ActiveTask)
	if err != nil {
		return nil
	}
	taskName := strings.TrimSpace(string(data))
	if taskName == "" {
		return nil
	}

	content, err := afero.ReadFile(w.FS, filepath.Join(w.TasksDir, taskName+".md"))
	if err != nil {
		return nil
	}
	return ParseTaskRepos(string(content))
}

// ParseTaskRepos extracts the repositories list from a task document's
// leading YAML frontmatter block (delimited by "---" lines).
func ParseTaskRepos(content string) []string {
	if !strings.HasPrefix(content, "---") {
		return nil
	}
	end := strings.Index(content[3:], "---")
	if end == -1 {
		return nil
	}

	var hdr taskHeader
	if err := yaml.Unmarshal([]byte(content[3:3+end]), &hdr); err != nil {
		return nil
	}

	var repos []string
	for _, r := range hdr.Repositories {
		if r = strings.TrimSpace(r); r != "" {
			repos = append(repos, r)
		}
	}
	return repos
}
