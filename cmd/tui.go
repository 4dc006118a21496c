package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/config"
	"github.com/theirongolddev/gitlore/internal/pipeline"
	"github.com/theirongolddev/gitlore/internal/source"
	"github.com/theirongolddev/gitlore/internal/tui"
	"github.com/theirongolddev/gitlore/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// The TUI draws its own loading screen.
	flagQuiet = true

	rt, err := openRuntime(false)
	if err != nil {
		return err
	}
	defer rt.Close()

	theme.SetActive(rt.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	groupBy, err := pipeline.ParseGroupBy(rt.cfg.General.GroupBy)
	if err != nil {
		groupBy = pipeline.GroupByDay
	}

	files, _ := source.ScanDir(rt.cfg.General.DataDir)

	app := tui.NewApp(tui.Options{
		Manager:      rt.mgr,
		Repo:         rt.repo(),
		GroupBy:      groupBy,
		PeakHours:    rt.cfg.General.PeakHours,
		Prices:       rt.prices,
		Location:     rt.loc,
		NeedSetup:    !config.Exists(),
		ProjectCount: source.CountProjects(files),
		DataDir:      rt.cfg.General.DataDir,
	})
	rt.provider.Progress = app.ProgressFunc()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
