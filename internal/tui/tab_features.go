package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/pipeline"
	"github.com/theirongolddev/gitlore/internal/tui/components"
	"github.com/theirongolddev/gitlore/internal/tui/theme"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// featuresState holds the feature list, newest first, and the scrollable
// detail pane.
type featuresState struct {
	list   []model.Feature
	cursor int
	offset int
	detail viewport.Model
}

func newFeaturesState() featuresState {
	return featuresState{detail: viewport.New(60, 10)}
}

func (s *featuresState) reset(snap *model.ProjectData) {
	s.list = pipeline.SortFeaturesByStart(snap.Features)
	s.cursor = max(0, min(s.cursor, len(s.list)-1))
	s.detail.GotoTop()
}

func (s *featuresState) resize(cw, h int) {
	leftW := max(36, cw/3)
	s.detail.Width = components.CardInnerWidth(cw - leftW)
	s.detail.Height = max(3, h-8)
}

func (s *featuresState) move(delta int) {
	next := max(0, min(s.cursor+delta, len(s.list)-1))
	if next != s.cursor {
		s.cursor = next
		s.detail.GotoTop()
	}
}

func (s *featuresState) handleKey(key string) (bool, tea.Cmd) {
	half := max(1, s.detail.Height/2)
	switch key {
	case "J":
		s.detail.SetYOffset(s.detail.YOffset + 1)
	case "K":
		s.detail.SetYOffset(s.detail.YOffset - 1)
	case "ctrl+d":
		s.detail.SetYOffset(s.detail.YOffset + half)
	case "ctrl+u":
		s.detail.SetYOffset(s.detail.YOffset - half)
	default:
		return false, nil
	}
	return true, nil
}

// syncFeatureDetail renders the selected feature into the detail viewport.
func (a *App) syncFeatureDetail() {
	s := &a.features
	if len(s.list) == 0 {
		s.detail.SetContent("")
		return
	}
	s.detail.SetContent(a.featureDetail(s.list[s.cursor], s.detail.Width))
}

func (a App) renderFeaturesTab(cw, h int) string {
	t := theme.Active
	s := a.features
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(s.list) == 0 {
		return components.ContentCard("Features", muted.Render("No features in this snapshot."), cw)
	}

	leftW := max(36, cw/3)
	rightW := cw - leftW
	listW := components.CardInnerWidth(leftW)

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	visible := max(3, h-3)
	start, end := listWindow(s.cursor, s.offset, visible, len(s.list))
	var list strings.Builder
	for i := start; i < end; i++ {
		f := s.list[i]
		badge := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("·")
		if ct, ok := pipeline.DominantChangeType(f); ok {
			badge = lipgloss.NewStyle().Foreground(lipgloss.Color(ct.Color())).Background(t.Surface).Render("■")
		}
		style := rowStyle
		if i == s.cursor {
			style = selStyle
		}
		list.WriteString(badge + style.Render(" "+cli.Truncate(f.DisplayTitle(), listW-2)))
		if i < end-1 {
			list.WriteString("\n")
		}
	}
	left := components.ContentCard(fmt.Sprintf("Features (%d)", len(s.list)), list.String(), leftW)

	sel := s.list[s.cursor]
	right := components.FocusedCard(sel.DisplayTitle()+"  [J/K] scroll", s.detail.View(), rightW)

	return components.CardRow([]string{left, right})
}

func (a App) featureDetail(f model.Feature, w int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	green := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	red := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	wrap := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(w)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s → %s\n", label.Render("Span"),
		value.Render(cli.FormatTimestamp(f.TimeStart, a.loc)), value.Render(cli.FormatTimestamp(f.TimeEnd, a.loc)))
	fmt.Fprintf(&b, "%s %s  %s %s\n", label.Render("Commits"), value.Render(fmt.Sprintf("%d", len(f.CommitHashes))),
		green.Render(fmt.Sprintf("+%d", f.TotalLinesAdded)), red.Render(fmt.Sprintf("-%d", f.TotalLinesRemoved)))

	if f.Narrative != nil && *f.Narrative != "" {
		b.WriteString("\n" + wrap.Render(*f.Narrative) + "\n")
	}
	if f.Intent != nil && *f.Intent != "" {
		b.WriteString("\n" + header.Render("INTENT") + "\n" + wrap.Render(*f.Intent) + "\n")
	}

	if len(f.ChangeTypeDistribution) > 0 {
		b.WriteString("\n" + header.Render("CHANGE TYPES") + "\n")
		peak := 0
		for _, n := range f.ChangeTypeDistribution {
			peak = max(peak, n)
		}
		for _, r := range pipeline.ChangeTypeTotals(f.ChangeTypeDistribution) {
			b.WriteString(components.HBar(r.Type.Label(), 12, r.Count, peak, max(10, w-20), lipgloss.Color(r.Type.Color())) + "\n")
		}
	}

	if len(f.KeyDecisions) > 0 {
		b.WriteString("\n" + header.Render("KEY DECISIONS") + "\n")
		for _, d := range f.KeyDecisions {
			b.WriteString(wrap.Render("• "+d) + "\n")
		}
	}
	if len(f.PrimaryFiles) > 0 {
		b.WriteString("\n" + header.Render("PRIMARY FILES") + "\n")
		for _, p := range f.PrimaryFiles {
			b.WriteString(value.Render(cli.Truncate(p, w)) + "\n")
		}
	}
	if len(f.SubFeatures) > 0 {
		b.WriteString("\n" + header.Render("PROMPTS") + "\n")
		for _, sf := range f.SubFeatures {
			b.WriteString(label.Render(cli.FormatTimestamp(sf.Timestamp, a.loc)+" ") +
				value.Render(cli.Truncate(sf.PromptText, w-14)) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
