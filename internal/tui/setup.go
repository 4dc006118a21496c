package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/gitlore/internal/config"
	"github.com/theirongolddev/gitlore/internal/pipeline"
	"github.com/theirongolddev/gitlore/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup form.
type SetupValues struct {
	DataDir   string
	RepoPath  string
	GroupBy   string
	PeakHours int
	Theme     string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		DataDir:   cfg.General.DataDir,
		RepoPath:  cfg.General.RepoPath,
		GroupBy:   cfg.General.GroupBy,
		PeakHours: cfg.General.PeakHours,
		Theme:     cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the first-run form. projects is how many snapshot
// exports were found, shown in the welcome note.
func NewSetupForm(projects int, vals *SetupValues) *huh.Form {
	welcome := "No snapshot exports found yet."
	if projects > 0 {
		welcome = fmt.Sprintf("Found %d project export(s).", projects)
	}

	groupOpts := make([]huh.Option[string], len(pipeline.GroupBys))
	for i, g := range pipeline.GroupBys {
		groupOpts[i] = huh.NewOption(string(g), string(g))
	}
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to gitlore").
				Description(welcome+"\nThese settings are saved to "+config.ConfigPath()+"."),
			huh.NewInput().
				Title("Data directory").
				Description("Holds exports/ and the local cache.").
				Value(&vals.DataDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("data directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Default repository").
				Description("Path or name; leave blank when there is only one.").
				Value(&vals.RepoPath),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Group prompts by").
				Options(groupOpts...).
				Value(&vals.GroupBy),
			huh.NewSelect[int]().
				Title("Peak hours to highlight").
				Options(huh.NewOption("1", 1), huh.NewOption("3", 3), huh.NewOption("5", 5)).
				Value(&vals.PeakHours),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithShowHelp(true)
}

// ApplySetup copies the form answers into cfg.
func ApplySetup(cfg *config.Config, vals SetupValues) {
	cfg.General.DataDir = strings.TrimSpace(vals.DataDir)
	cfg.General.RepoPath = strings.TrimSpace(vals.RepoPath)
	if _, err := pipeline.ParseGroupBy(vals.GroupBy); err == nil {
		cfg.General.GroupBy = vals.GroupBy
	}
	if vals.PeakHours > 0 {
		cfg.General.PeakHours = vals.PeakHours
	}
	if _, ok := theme.ByName(vals.Theme); ok {
		cfg.Appearance.Theme = vals.Theme
	}
}

// saveSetup persists the answers and applies them to the running app.
func (a *App) saveSetup() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	ApplySetup(&cfg, a.setupVals)
	theme.SetActive(cfg.Appearance.Theme)
	if g, err := pipeline.ParseGroupBy(cfg.General.GroupBy); err == nil {
		a.groupBy = g
	}
	a.peakHours = cfg.General.PeakHours
	return config.Save(cfg)
}
