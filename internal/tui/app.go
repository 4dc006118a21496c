// Package tui provides the interactive Bubble Tea dashboard for gitlore.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/config"
	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/pipeline"
	"github.com/theirongolddev/gitlore/internal/snapshot"
	"github.com/theirongolddev/gitlore/internal/source"
	"github.com/theirongolddev/gitlore/internal/tui/components"
	"github.com/theirongolddev/gitlore/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tab indexes, matching components.Tabs.
const (
	tabPatterns = iota
	tabTimeline
	tabPrompts
	tabIntent
	tabFeatures
	tabCosts
)

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	minContentHeight = 5

	collabTimeout = 2 * time.Minute
)

// SnapshotLoadedMsg is sent when the initial scan finishes.
type SnapshotLoadedMsg struct {
	Snap     *model.ProjectData
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports export import progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// sessionsDoneMsg is sent when a refresh or delete of prompt sessions ends.
type sessionsDoneMsg struct {
	op      string
	snap    *model.ProjectData
	deleted int
	err     error
}

// Options configures NewApp.
type Options struct {
	Manager      *snapshot.Manager
	Repo         string
	GroupBy      pipeline.GroupBy
	PeakHours    int
	Prices       *config.PriceTable
	Location     *time.Location
	NeedSetup    bool
	ProjectCount int
	DataDir      string
}

// App is the root Bubble Tea model.
type App struct {
	mgr       *snapshot.Manager
	repo      string
	loc       *time.Location
	prices    *config.PriceTable
	groupBy   pipeline.GroupBy
	peakHours int

	// Data
	snap     *model.ProjectData
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Session refresh/delete
	busy          bool
	confirmDelete bool
	notice        string
	opErr         error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	timeline timelineState
	prompts  promptsState
	features featuresState

	// First-run setup (huh form)
	setupForm    *huh.Form
	setupVals    SetupValues
	needSetup    bool
	projectCount int

	// Loading
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

// NewApp creates the dashboard model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.PeakHours <= 0 {
		opts.PeakHours = pipeline.DefaultPeakHours
	}
	if opts.GroupBy == "" {
		opts.GroupBy = pipeline.GroupByDay
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	vals := SetupValuesFrom(cfg)
	if opts.DataDir != "" {
		vals.DataDir = opts.DataDir
	}

	return App{
		mgr:          opts.Manager,
		repo:         opts.Repo,
		loc:          opts.Location,
		prices:       opts.Prices,
		groupBy:      opts.GroupBy,
		peakHours:    opts.PeakHours,
		needSetup:    opts.NeedSetup,
		projectCount: opts.ProjectCount,
		setupVals:    vals,
		timeline:     newTimelineState(),
		features:     newFeaturesState(),
		spinner:      sp,
		loadSub:      make(chan tea.Msg, 1),
	}
}

// ProgressFunc returns an import progress callback that feeds the loading
// screen. Install it on the provider before the program starts.
func (a App) ProgressFunc() source.ProgressFunc {
	sub := a.loadSub
	return func(current, total int) {
		// Drop updates while the UI is behind; the next one catches up.
		select {
		case sub <- ProgressMsg{Current: current, Total: total}:
		default:
		}
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadSnapshotCmd(a.mgr, a.repo, a.loadSub),
		a.spinner.Tick,
	)
}

// setSnapshot installs a snapshot into the view state.
func (a *App) setSnapshot(snap *model.ProjectData) {
	a.snap = snap
	a.timeline.reset(snap, a.memo())
	a.prompts.clamp(len(snap.PromptSessions))
	a.features.reset(snap)
	a.syncFeatureDetail()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.features.resize(a.contentWidth(), a.height)
		a.syncFeatureDetail()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case SnapshotLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.loadErr = msg.Err
		if msg.Snap != nil {
			a.setSnapshot(msg.Snap)
		}
		if a.needSetup {
			a.setupForm = NewSetupForm(a.projectCount, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case sessionsDoneMsg:
		a.busy = false
		a.opErr = msg.err
		if msg.err != nil {
			a.notice = ""
			return a, nil
		}
		a.setSnapshot(msg.snap)
		switch msg.op {
		case "delete":
			a.notice = fmt.Sprintf("deleted %d prompt sessions", msg.deleted)
		default:
			a.notice = fmt.Sprintf("refreshed %d prompt sessions", len(msg.snap.PromptSessions))
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded || a.busy {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabTimeline && a.timeline.searching {
		var cmd tea.Cmd
		a.timeline.search, cmd = a.timeline.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabTimeline && a.timeline.searching {
		return a.updateTimelineSearch(msg)
	}

	if a.confirmDelete {
		a.confirmDelete = false
		if key == "y" || key == "Y" {
			a.busy = true
			a.notice = "deleting prompt sessions..."
			return a, tea.Batch(deleteSessionsCmd(a.mgr), a.spinner.Tick)
		}
		a.notice = "delete cancelled"
		return a, nil
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if key == "q" {
		return a, tea.Quit
	}

	if a.snap != nil {
		if handled, cmd := a.updateTabKey(key); handled {
			return a, cmd
		}
	}

	switch key {
	case "r":
		if a.snap != nil && !a.busy {
			a.busy = true
			a.notice = "refreshing prompt sessions..."
			return a, tea.Batch(refreshSessionsCmd(a.mgr), a.spinner.Tick)
		}
		return a, nil
	case "D":
		if a.snap != nil && !a.busy {
			a.confirmDelete = true
			a.notice = "delete all stored prompt sessions? (y/N)"
		}
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// updateTabKey handles keys owned by the active tab.
func (a *App) updateTabKey(key string) (bool, tea.Cmd) {
	switch key {
	case "j", "down":
		a.moveCursor(1)
		return true, nil
	case "k", "up":
		a.moveCursor(-1)
		return true, nil
	}

	switch a.activeTab {
	case tabTimeline:
		return a.timeline.handleKey(key, a.snap, a.memo())
	case tabPrompts:
		if key == "g" {
			a.groupBy = a.groupBy.Next()
			a.prompts.cursor, a.prompts.offset = 0, 0
			return true, nil
		}
	case tabFeatures:
		return a.features.handleKey(key)
	}
	return false, nil
}

func (a *App) moveCursor(delta int) {
	if a.snap == nil {
		return
	}
	switch a.activeTab {
	case tabTimeline:
		a.timeline.move(delta)
	case tabPrompts:
		a.prompts.move(delta, len(a.snap.PromptSessions))
	case tabFeatures:
		a.features.move(delta)
		a.syncFeatureDetail()
	}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetup(); err != nil {
			a.opErr = fmt.Errorf("saving config: %w", err)
		} else {
			a.notice = "saved " + config.ConfigPath()
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) updateTimelineSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.timeline.applySearch(a.snap, a.memo())
		return a, nil
	case "esc":
		a.timeline.searching = false
		return a, nil
	}
	var cmd tea.Cmd
	a.timeline.search, cmd = a.timeline.search.Update(msg)
	return a, cmd
}

// memo returns the manager's derivation cache, or nil without a manager.
func (a App) memo() *pipeline.Memo {
	if a.mgr == nil {
		return nil
	}
	return a.mgr.Memo()
}

func (a App) contentWidth() int {
	if a.width > maxContentWidth {
		return maxContentWidth
	}
	return a.width
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	if a.snap == nil {
		return a.viewLoadError()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  gitlore needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ gitlore"))
	b.WriteString(subtitleStyle.Render(" · commit and prompt insight"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())

	if a.progressMax > 0 {
		barW := min(40, max(20, a.width-30))
		b.WriteString(subtitleStyle.Render(" Importing exports\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(subtitleStyle.Render(" Scanning snapshot..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	msg := "no snapshot loaded"
	if a.loadErr != nil {
		msg = a.loadErr.Error()
	}
	hint := "Write an export to <data-dir>/exports and press q to quit."
	if errors.Is(a.loadErr, source.ErrAmbiguous) {
		hint = "Several projects found; pass --repo to pick one."
	}

	body := titleStyle.Render("Could not load a project") + "\n\n" +
		bodyStyle.Render(cli.Truncate(msg, a.contentWidth()-12)) + "\n\n" +
		bodyStyle.Render(hint)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"p t o i f c", "Jump to tab"},
			{"← →", "Previous / next tab"},
			{"j k", "Move selection"},
		}},
		{"Timeline", [][2]string{
			{"/", "Search subjects"},
			{"y", "Cycle change type"},
			{"a", "Cycle author"},
			{"A", "Assistant commits only"},
			{"x", "Clear filters"},
		}},
		{"Prompts & features", [][2]string{
			{"g", "Cycle group-by"},
			{"J K", "Scroll feature detail"},
		}},
		{"Actions", [][2]string{
			{"r", "Refresh prompt sessions"},
			{"D", "Delete prompt sessions"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, kb := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-12s", kb[0])), descStyle.Render(kb[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderProjectLine(w)
	statusBar := a.renderStatusBar(w)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabPatterns:
		content = a.renderPatternsTab(cw)
	case tabTimeline:
		content = a.renderTimelineTab(cw, contentH)
	case tabPrompts:
		content = a.renderPromptsTab(cw, contentH)
	case tabIntent:
		content = a.renderIntentTab(cw)
	case tabFeatures:
		content = a.renderFeaturesTab(cw, contentH)
	case tabCosts:
		content = a.renderCostsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderProjectLine(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	r := a.snap.Repository
	line := dim.Render(" ") + accent.Render(r.Name) + dim.Render(" │ "+r.Path)
	if r.DateRange.Start != "" {
		line += dim.Render(fmt.Sprintf(" │ %s → %s",
			cli.FormatDate(r.DateRange.Start, a.loc), cli.FormatDate(r.DateRange.End, a.loc)))
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(w).MaxWidth(w).Render(line)
}

func (a App) renderStatusBar(w int) string {
	hints := "[?]help  [r]efresh  [D]elete sessions  [q]uit"
	if a.notice != "" {
		hints = a.notice
	}
	if a.busy {
		hints = a.spinner.View() + " " + hints
	}

	errMsg := ""
	if a.opErr != nil {
		errMsg = a.opErr.Error()
	}

	info := fmt.Sprintf("loaded in %.1fs", a.loadTime.Seconds())
	if a.mgr != nil && !a.mgr.LoadedAt().IsZero() {
		info = "updated " + a.mgr.LoadedAt().In(a.loc).Format("15:04:05")
	}
	return components.RenderStatusBar(w, hints, info, errMsg)
}

// ─── Commands ──────────────────────────────────────────────────

// loadSnapshotCmd scans in a background goroutine, streaming ProgressMsg
// updates and a final SnapshotLoadedMsg through sub.
func loadSnapshotCmd(mgr *snapshot.Manager, repo string, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()
			ctx, cancel := context.WithTimeout(context.Background(), collabTimeout)
			defer cancel()
			snap, err := mgr.Scan(ctx, repo)
			sub <- SnapshotLoadedMsg{Snap: snap, Err: err, LoadTime: time.Since(start)}
		}()
		return <-sub
	}
}

func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func refreshSessionsCmd(mgr *snapshot.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), collabTimeout)
		defer cancel()
		snap, err := mgr.RefreshSessions(ctx)
		return sessionsDoneMsg{op: "refresh", snap: snap, err: err}
	}
}

func deleteSessionsCmd(mgr *snapshot.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), collabTimeout)
		defer cancel()
		n, err := mgr.DeleteSessions(ctx)
		return sessionsDoneMsg{op: "delete", snap: mgr.Active(), deleted: n, err: err}
	}
}

// ─── Helpers ───────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to w so gaps between cards keep the
// background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab under column x, or -1. Widths come from the same
// renderer RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}

// listWindow returns the [start, end) slice of a list of n rows that keeps
// cursor visible in a window of size rows, starting from offset.
func listWindow(cursor, offset, size, n int) (start, end int) {
	if size < 1 {
		size = 1
	}
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+size {
		offset = cursor - size + 1
	}
	if offset < 0 {
		offset = 0
	}
	return offset, min(offset+size, n)
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "search subjects..."
	ti.CharLimit = 100
	ti.Width = 40
	return ti
}
