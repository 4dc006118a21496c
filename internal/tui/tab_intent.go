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

func (a App) intent() pipeline.IntentStats {
	if m := a.memo(); m != nil {
		return m.Intent(a.snap)
	}
	return pipeline.SummarizeIntent(a.snap.PromptSessions)
}

func (a App) renderIntentTab(cw int) string {
	t := theme.Active
	in := a.intent()

	cards := []components.Metric{
		{Label: "Prompts", Value: cli.FormatNumber(int64(in.TotalPrompts)), Note: fmt.Sprintf("%d sessions", in.Sessions)},
		{Label: "Completion", Value: cli.FormatPercent(pipeline.IntentCompletion(a.snap))},
		{Label: "Re-prompts", Value: cli.FormatNumber(int64(in.Reprompts)), Note: cli.FormatPercent(in.RepromptRate)},
		{Label: "Tool calls", Value: fmt.Sprintf("%.1f", in.AvgToolCalls), Note: "per prompt"},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	widths := components.LayoutRow(cw, 2)

	outcomePeak := 0
	for _, n := range in.Outcomes {
		outcomePeak = max(outcomePeak, n)
	}
	barW := max(10, components.CardInnerWidth(widths[0])-16)
	var outcomes strings.Builder
	for i, o := range pipeline.Outcomes {
		outcomes.WriteString(components.HBar(o.Label(), 10, in.Outcomes[o], outcomePeak, barW, lipgloss.Color(o.Color())))
		if i < len(pipeline.Outcomes)-1 {
			outcomes.WriteString("\n")
		}
	}

	rateW := max(10, components.CardInnerWidth(widths[1])-20)
	rates := strings.Join([]string{
		components.RateBar("Completed", 12, in.CompletionRate, rateW, t.Green),
		components.RateBar("Re-prompted", 12, in.RepromptRate, rateW, t.Orange),
		components.RateBar("Embeddings", 12, pipeline.EmbeddingCoverage(a.snap), rateW, t.Blue),
	}, "\n")

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Outcomes", outcomes.String(), widths[0]),
		components.ContentCard("Rates", rates, widths[1]),
	}))
	b.WriteString("\n")

	// Change mix of the commits the prompts led to.
	rows := pipeline.ChangeTypeTotals(pipeline.CountChangeTypes(a.snap.Commits))
	peak := 0
	for _, r := range rows {
		peak = max(peak, r.Count)
	}
	mixW := max(10, components.CardInnerWidth(cw)-20)
	var mix strings.Builder
	for i, r := range rows {
		mix.WriteString(components.HBar(r.Type.Label(), 12, r.Count, peak, mixW, lipgloss.Color(r.Type.Color())))
		if i < len(rows)-1 {
			mix.WriteString("\n")
		}
	}
	if len(rows) == 0 {
		mix.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No commits."))
	}
	b.WriteString(components.ContentCard("Change types", mix.String(), cw))
	return b.String()
}
