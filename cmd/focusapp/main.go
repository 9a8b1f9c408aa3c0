// Package main is the CLI entry point for focusapp.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/focus_app/internal/infra"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "focusapp",
	Short: "Focus watchdog - nudges you back to the apps you chose",
	Long: `focusapp watches the foreground window while a focus session is running.
When the active app is not on your allow-list it shows a notification and
minimizes the window.

Only one copy runs at a time. Launching it again brings the running
window to the front.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runRun,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	configPath    string
	allowListFlag string
	verbose       bool
	systemLog     bool
	jsonOutput    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <data dir>/focusapp.yaml)")
	rootCmd.PersistentFlags().StringVar(&allowListFlag, "allowlist", "", "Allow-list file (overrides the config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also log to the terminal")
	rootCmd.PersistentFlags().BoolVar(&systemLog, "system-log", false, "Also send warnings and errors to the system log")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	addRunFlags(rootCmd)
	addRunFlags(runCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(allowCmd)
	rootCmd.AddCommand(startupCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// appEnv is the resolved data directory and configuration for one command.
type appEnv struct {
	paths  *infra.Paths
	config *infra.Config
}

func loadEnv() (*appEnv, error) {
	paths := infra.DefaultPaths()
	if configPath != "" {
		paths.ConfigPath = configPath
	}

	config, err := infra.LoadConfig(paths.ConfigPath)
	if err != nil {
		return nil, err
	}
	if allowListFlag != "" {
		config.AllowListFile = allowListFlag
	}
	return &appEnv{paths: paths, config: config}, nil
}

// allowListPath is the configured allow-list file. A relative path stays
// relative and resolves against the working directory.
func (e *appEnv) allowListPath() string {
	return e.config.AllowListFile
}

func (e *appEnv) newLogger() *zap.Logger {
	return infra.NewLogger(e.paths, infra.LoggerOptions{
		Level:     e.config.LogLevel,
		Console:   verbose,
		SystemLog: systemLog,
	})
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("focusapp %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
