package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/rvw/internal/editor"
	"github.com/joescharf/rvw/internal/git"
	"github.com/joescharf/rvw/internal/output"
	"github.com/joescharf/rvw/internal/review"
	"github.com/joescharf/rvw/internal/scan"
	"github.com/joescharf/rvw/internal/workspace"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui *output.UI

	verbose bool

	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rvw",
	Short: "Review staging for git repositories",
	Long: `rvw stages code-review sessions against git repositories.
It computes which files changed over a chosen range, opens them in the
editor (directly or via a watcher mailbox), and collects inline review
annotations left in source files.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go. Any error escaping
// a subcommand is emitted as a single structured object on stderr; no
// partial success output is ever mixed with the error path.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		payload, _ := json.Marshal(map[string]string{"status": "error", "error": err.Error()})
		fmt.Fprintln(os.Stderr, string(payload))
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/rvw/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "rvw")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("RVW")
	viper.AutomaticEnv()

	cwd, _ := os.Getwd()
	viper.SetDefault("workspace", cwd)
	viper.SetDefault("state_dir", "")
	viper.SetDefault("directory_map", "")
	viper.SetDefault("active_task", "")
	viper.SetDefault("tasks_dir", "")
	viper.SetDefault("editor.command", "code")
	viper.SetDefault("editor.new_window", true)
	viper.SetDefault("git.timeout", 30*time.Second)
	viper.SetDefault("scan.include", scan.DefaultIncludes)

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose
}

func workspaceDir() string {
	return viper.GetString("workspace")
}

// stateDir defaults to <workspace>/.state.
func stateDir() string {
	if s := viper.GetString("state_dir"); s != "" {
		return s
	}
	return filepath.Join(workspaceDir(), ".state")
}

// newWorkspace builds the alias resolver from config, overriding the
// conventional document locations where configured.
func newWorkspace() *workspace.Workspace {
	w := workspace.New(workspaceDir())
	if m := viper.GetString("directory_map"); m != "" {
		w.DirectoryMap = m
	}
	if a := viper.GetString("active_task"); a != "" {
		w.ActiveTask = a
	}
	if d := viper.GetString("tasks_dir"); d != "" {
		w.TasksDir = d
	}
	return w
}

func newDispatcher() *editor.Dispatcher {
	d := editor.New(stateDir(), viper.GetString("editor.command"))
	d.Logf = func(format string, a ...any) { ui.VerboseLog(format, a...) }
	return d
}

func newEngine() *review.Engine {
	e := review.NewEngine(git.NewRunner(viper.GetDuration("git.timeout")), newDispatcher())
	e.NewWindow = viper.GetBool("editor.new_window")
	return e
}

func newScanner() *scan.Scanner {
	s := scan.NewScanner(scan.NewGrepSearcher(viper.GetDuration("git.timeout")))
	if inc := viper.GetStringSlice("scan.include"); len(inc) > 0 {
		s.Includes = inc
	}
	return s
}
