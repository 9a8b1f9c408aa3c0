package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/focus_app/internal/domain"
	"github.com/eliteGoblin/focusd/focus_app/internal/infra"
)

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")

	styleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	styleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	styleRed    = lipgloss.NewStyle().Foreground(colorRed)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show distraction history",
	Long:  `Summarizes the distractions recorded in the encrypted journal.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether focusapp is running",
	Long:  `Shows whether an instance owns the lock, the allow-list in use, launch-at-login state and today's distractions.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var statsSince time.Duration

func init() {
	statsCmd.Flags().DurationVar(&statsSince, "since", 24*time.Hour, "How far back to look")
}

func runStats(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	if !env.config.JournalEnabled() {
		fmt.Println("The distraction journal is disabled in the config.")
		return nil
	}

	journal, err := infra.OpenJournal(env.paths.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer journal.Close()

	summary, err := journal.Summary(time.Now().Add(-statsSince))
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	fmt.Print(formatSummary(summary, time.Now()))
	return nil
}

// formatSummary renders a journal summary for the terminal.
func formatSummary(s *domain.DistractionSummary, now time.Time) string {
	var b strings.Builder

	b.WriteString(styleHeader.Render("DISTRACTIONS"))
	b.WriteString(styleDim.Render(fmt.Sprintf("  since %s", humanize.RelTime(s.Since, now, "ago", "from now"))))
	b.WriteString("\n\n")

	if s.Total == 0 {
		b.WriteString(styleGreen.Render("  None. Nice focus."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  Total     %s\n", countStyle(s.Total).Render(humanize.Comma(int64(s.Total)))))
	b.WriteString(fmt.Sprintf("  Sessions  %s\n", humanize.Comma(int64(s.Sessions))))
	if !s.Last.IsZero() {
		b.WriteString(fmt.Sprintf("  Last      %s\n", humanize.RelTime(s.Last, now, "ago", "from now")))
	}

	if len(s.TopPaths) > 0 {
		b.WriteString("\n")
		b.WriteString(styleHeader.Render("TOP APPS"))
		b.WriteString("\n")
		for _, pc := range s.TopPaths {
			b.WriteString(fmt.Sprintf("  %5s  %s %s\n",
				humanize.Comma(int64(pc.Count)),
				filepath.Base(pc.ExecutablePath),
				styleDim.Render(pc.ExecutablePath)))
		}
	}
	return b.String()
}

func countStyle(n int) lipgloss.Style {
	switch {
	case n >= 20:
		return styleRed
	case n >= 5:
		return styleYellow
	default:
		return styleGreen
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	fmt.Println("\n=== focusapp Status ===")

	running, err := ownerRunning(env)
	if err != nil {
		return err
	}
	pid, _ := infra.ReadPIDFile(env.paths.PIDPath)
	pm := infra.NewProcessManager()

	switch {
	case running && pid > 0 && pm.IsRunning(pid):
		fmt.Printf("Status: %s (pid %d)\n", styleGreen.Render("RUNNING"), pid)
	case running:
		fmt.Printf("Status: %s\n", styleGreen.Render("RUNNING"))
	default:
		fmt.Printf("Status: %s\n", styleDim.Render("NOT RUNNING"))
		fmt.Println("\nRun 'focusapp start' to start watching in the background.")
	}

	store := infra.NewAllowListStore(env.allowListPath())
	entries, err := store.Load()
	if err != nil {
		fmt.Printf("\nAllow-list: %s (%s)\n", store.Path(), styleRed.Render(err.Error()))
	} else {
		fmt.Printf("\nAllow-list: %s (%d entries)\n", store.Path(), len(entries))
	}

	if execPath, err := os.Executable(); err == nil {
		fmt.Println(startupStatus(infra.NewStartupRegistrar(), execPath))
	}

	if env.config.JournalEnabled() {
		if _, err := os.Stat(infra.JournalPath(env.paths.DataDir)); err == nil {
			printTodayTotal(env)
		}
	}

	fmt.Println("=======================")
	return nil
}

func printTodayTotal(env *appEnv) {
	journal, err := infra.OpenJournal(env.paths.DataDir)
	if err != nil {
		fmt.Printf("Journal: %s\n", styleRed.Render(err.Error()))
		return
	}
	defer journal.Close()

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	summary, err := journal.Summary(midnight)
	if err != nil {
		fmt.Printf("Journal: %s\n", styleRed.Render(err.Error()))
		return
	}
	fmt.Printf("Distractions today: %s\n", countStyle(summary.Total).Render(humanize.Comma(int64(summary.Total))))
}
