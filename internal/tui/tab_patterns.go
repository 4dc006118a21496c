package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/pipeline"
	"github.com/theirongolddev/gitlore/internal/tui/components"
	"github.com/theirongolddev/gitlore/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) patterns() pipeline.Patterns {
	if m := a.memo(); m != nil {
		return m.Patterns(a.snap, a.peakHours, a.loc)
	}
	return pipeline.BuildPatterns(a.snap, a.peakHours, a.loc)
}

func (a App) renderPatternsTab(cw int) string {
	t := theme.Active
	p := a.patterns()

	peaks := make([]string, len(p.PeakHours))
	for i, h := range p.PeakHours {
		peaks[i] = cli.FormatHour(h)
	}
	peakStr := "none"
	if len(peaks) > 0 {
		peakStr = strings.Join(peaks, ", ")
	}

	cards := []components.Metric{
		{Label: "Commits", Value: cli.FormatNumber(int64(p.Profile.TotalCommits)), Note: fmt.Sprintf("%d features", len(a.snap.Features))},
		{Label: "Prompts", Value: cli.FormatNumber(int64(p.Profile.TotalSessions))},
		{Label: "Assistant", Value: fmt.Sprintf("%.1f%%", p.Profile.AssistantPercentage), Note: "of commits"},
		{Label: "Files / commit", Value: fmt.Sprintf("%.1f", p.AvgGranularity)},
		{Label: "Patterns", Value: cli.FormatNumber(int64(pipeline.PatternCount(a.snap))), Note: "recurring"},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Hour of day
	innerW := components.CardInnerWidth(cw)
	hourLabels := make([]string, 24)
	for h := range hourLabels {
		hourLabels[h] = fmt.Sprintf("%d", h)
	}
	hourChart := components.ColumnChart(p.Hours[:], hourLabels, t.Accent, innerW, 6, 3)
	b.WriteString(components.ContentCard("Commits by hour · peak "+peakStr, hourChart, cw))
	b.WriteString("\n")

	// Weekday and couplings side by side
	widths := components.LayoutRow(cw, 2)
	dayPeak := pipeline.MaxCount(p.Days[:])
	barW := max(10, components.CardInnerWidth(widths[0])-12)
	var days strings.Builder
	for i, n := range p.Days {
		days.WriteString(components.HBar(pipeline.DayLabels[i], 4, n, dayPeak, barW, t.Blue))
		if i < len(p.Days)-1 {
			days.WriteString("\n")
		}
	}

	couplingW := components.CardInnerWidth(widths[1])
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	count := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	var couples strings.Builder
	if len(p.Couplings) == 0 {
		couples.WriteString(muted.Render(fmt.Sprintf("No file pairs changed together %d+ times.", pipeline.MinCouplingCount)))
	}
	for i, c := range p.Couplings {
		if i == 7 {
			couples.WriteString(muted.Render(fmt.Sprintf("… %d more", len(p.Couplings)-i)))
			break
		}
		nameW := (couplingW - 8) / 2
		couples.WriteString(count.Render(fmt.Sprintf("%4d× ", c.Count)))
		couples.WriteString(value.Render(cli.Truncate(c.FileA, nameW)))
		couples.WriteString(muted.Render(" + "))
		couples.WriteString(value.Render(cli.Truncate(c.FileB, nameW)))
		if i < len(p.Couplings)-1 {
			couples.WriteString("\n")
		}
	}

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Commits by weekday", days.String(), widths[0]),
		components.ContentCard("Files that change together", couples.String(), widths[1]),
	}))

	if weeks, peak := pipeline.VelocityWindow(a.snap.Analytics); len(weeks) > 0 {
		commits := make([]int, len(weeks))
		for i, w := range weeks {
			commits[i] = w.Commits
		}
		line := components.Sparkline(commits, t.Green) +
			muted.Render(fmt.Sprintf("  %s → %s · peak %d commits/week", weeks[0].Week, weeks[len(weeks)-1].Week, peak))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Weekly velocity", line, cw))
	}

	if langs := p.Profile.Languages; len(langs) > 0 {
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Languages", value.Render(strings.Join(langs, " · ")), cw))
	}
	return b.String()
}
