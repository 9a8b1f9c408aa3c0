package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
	"github.com/eliteGoblin/focusd/focus_app/internal/infra"
)

var startupCmd = &cobra.Command{
	Use:   "startup",
	Short: "Manage launch at login",
	Long: `Manages the login entry that starts focusapp hidden and watching.
Closing the focusapp window also creates it, unless startup_on_close
is false in the config.`,
}

var startupEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Launch focusapp at login",
	Args:  cobra.NoArgs,
	RunE:  runStartupEnable,
}

var startupDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop launching focusapp at login",
	Args:  cobra.NoArgs,
	RunE:  runStartupDisable,
}

var startupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether focusapp launches at login",
	Args:  cobra.NoArgs,
	RunE:  runStartupStatus,
}

func init() {
	startupCmd.AddCommand(startupEnableCmd)
	startupCmd.AddCommand(startupDisableCmd)
	startupCmd.AddCommand(startupStatusCmd)
}

func runStartupEnable(cmd *cobra.Command, args []string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	registrar := infra.NewStartupRegistrar()
	if err := registrar.Register(execPath); err != nil {
		return fmt.Errorf("failed to register startup entry: %w", err)
	}
	fmt.Printf("Launch at login enabled (%s)\n", registrar.EntryPath())
	return nil
}

func runStartupDisable(cmd *cobra.Command, args []string) error {
	registrar := infra.NewStartupRegistrar()
	if err := registrar.Unregister(); err != nil {
		return fmt.Errorf("failed to remove startup entry: %w", err)
	}
	fmt.Println("Launch at login disabled")
	return nil
}

func runStartupStatus(cmd *cobra.Command, args []string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	fmt.Println(startupStatus(infra.NewStartupRegistrar(), execPath))
	return nil
}

// staleChecker is implemented by registrars that can tell whether their
// entry still launches execPath.
type staleChecker interface {
	NeedsUpdate(execPath string) bool
}

func startupStatus(registrar domain.StartupRegistrar, execPath string) string {
	if !registrar.IsRegistered() {
		return "Launch at login: disabled"
	}
	line := fmt.Sprintf("Launch at login: enabled (%s)", registrar.EntryPath())
	if checker, ok := registrar.(staleChecker); ok && checker.NeedsUpdate(execPath) {
		line += "\n  entry launches an old binary, run 'focusapp startup enable' to update it"
	}
	return line
}
