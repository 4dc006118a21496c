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

func (a App) renderCostsTab(cw int) string {
	t := theme.Active
	totals, models := pipeline.AggregateTokenCosts(a.snap.PromptSessions, a.prices)

	var inTok, outTok, cacheTok int64
	for _, m := range models {
		inTok += m.InputTokens
		outTok += m.OutputTokens
		cacheTok += m.CacheReadTokens
	}
	perPrompt := 0.0
	if n := len(a.snap.PromptSessions); n > 0 {
		perPrompt = totals.TotalCost / float64(n)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Estimated cost", Value: cli.FormatCost(totals.TotalCost), Note: cli.FormatCost(perPrompt) + "/prompt"},
		{Label: "Input", Value: cli.FormatTokens(inTok), Note: cli.FormatCost(totals.InputCost)},
		{Label: "Output", Value: cli.FormatTokens(outTok), Note: cli.FormatCost(totals.OutputCost)},
		{Label: "Cache read", Value: cli.FormatTokens(cacheTok), Note: cli.FormatCost(totals.CacheReadCost)},
	}, cw))
	b.WriteString("\n")

	innerW := components.CardInnerWidth(cw)
	nameW := max(14, innerW-8-10-10-10-10-5)
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	name := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	cost := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	var table strings.Builder
	table.WriteString(header.Render(fmt.Sprintf("%-*s %8s %10s %10s %10s %10s", nameW, "Model", "Prompts", "Input", "Output", "Cached", "Cost")))
	table.WriteString("\n")
	table.WriteString(muted.Render(strings.Repeat("─", nameW+8+10*4+5)))
	for _, m := range models {
		c := cost.Render(fmt.Sprintf(" %10s", cli.FormatCost(m.TotalCost)))
		if !m.Priced {
			c = muted.Render(fmt.Sprintf(" %10s", "n/a"))
		}
		table.WriteString("\n")
		table.WriteString(name.Render(fmt.Sprintf("%-*s", nameW, cli.Truncate(m.Model, nameW))))
		table.WriteString(value.Render(fmt.Sprintf(" %8d %10s %10s %10s", m.Prompts,
			cli.FormatTokens(m.InputTokens), cli.FormatTokens(m.OutputTokens), cli.FormatTokens(m.CacheReadTokens))))
		table.WriteString(c)
	}
	if len(models) == 0 {
		table.WriteString("\n")
		table.WriteString(muted.Render("No prompt sessions with token usage."))
	}
	b.WriteString(components.ContentCard("Cost by model", table.String(), cw))
	return b.String()
}
