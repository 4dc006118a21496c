package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/pipeline"
	"github.com/theirongolddev/gitlore/internal/tui/components"
	"github.com/theirongolddev/gitlore/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// promptsState holds the prompt list selection. cursor indexes sessions in
// grouped order.
type promptsState struct {
	cursor int
	offset int
}

func (s *promptsState) clamp(n int) {
	s.cursor = max(0, min(s.cursor, n-1))
}

func (s *promptsState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

// promptRow is one line of the grouped list: a group header or a session.
type promptRow struct {
	header   string
	session  model.PromptSession
	index    int // position among sessions, -1 for headers
	reprompt bool
}

func (a App) groups() []pipeline.SessionGroup {
	if m := a.memo(); m != nil {
		return m.Groups(a.snap, a.groupBy, a.loc)
	}
	return pipeline.GroupSessionsIn(a.snap.PromptSessions, a.groupBy, a.loc)
}

// promptRows flattens the groups. A session is flagged as a re-prompt of the
// session listed directly before it.
func promptRows(groups []pipeline.SessionGroup) []promptRow {
	var rows []promptRow
	idx := 0
	var prev *model.PromptSession
	for _, g := range groups {
		rows = append(rows, promptRow{header: fmt.Sprintf("%s (%d)", g.Label, len(g.Sessions)), index: -1})
		for i := range g.Sessions {
			s := g.Sessions[i]
			rows = append(rows, promptRow{
				session:  s,
				index:    idx,
				reprompt: prev != nil && pipeline.IsReprompt(*prev, s),
			})
			prev = &g.Sessions[i]
			idx++
		}
	}
	return rows
}

func (a App) renderPromptsTab(cw, h int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(a.snap.PromptSessions) == 0 {
		return components.ContentCard("Prompts",
			muted.Render("No prompt sessions. [r] re-reads them from the data directory."), cw)
	}

	rows := promptRows(a.groups())
	cursorRow := 0
	for i, r := range rows {
		if r.index == a.prompts.cursor {
			cursorRow = i
			break
		}
	}

	leftW := max(40, cw*2/5)
	rightW := cw - leftW
	listW := components.CardInnerWidth(leftW)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	visible := max(3, h-3)
	start, end := listWindow(cursorRow, a.prompts.offset, visible, len(rows))

	var list strings.Builder
	for i := start; i < end; i++ {
		r := rows[i]
		if r.index < 0 {
			list.WriteString(headerStyle.Render(cli.Truncate(r.header, listW)))
		} else {
			o := pipeline.ClassifyOutcome(r.session)
			mark := lipgloss.NewStyle().Foreground(lipgloss.Color(o.Color())).Background(t.Surface).Render("●")
			re := " "
			if r.reprompt {
				re = warnStyle.Render("↻")
			}
			text := fmt.Sprintf(" %s %s", cli.FormatTimestamp(r.session.Timestamp, a.loc),
				cli.Truncate(r.session.PromptText, listW-18))
			style := rowStyle
			if r.index == a.prompts.cursor {
				style = selStyle
			}
			list.WriteString(mark + re + style.Render(text))
		}
		if i < end-1 {
			list.WriteString("\n")
		}
	}

	title := fmt.Sprintf("Prompts by %s  [g]roup", a.groupBy)
	left := components.ContentCard(title, list.String(), leftW)

	sel := a.snap.PromptSessions[0]
	for _, r := range rows {
		if r.index == a.prompts.cursor {
			sel = r.session
			break
		}
	}
	right := components.ContentCard("Prompt "+shortID(sel.SessionID), a.renderPromptDetail(sel, rightW), rightW)
	return components.CardRow([]string{left, right})
}

func (a App) renderPromptDetail(s model.PromptSession, w int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	o := pipeline.ClassifyOutcome(s)
	outcome := lipgloss.NewStyle().Foreground(lipgloss.Color(o.Color())).Background(t.Surface).Bold(true).Render(o.Label())

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(innerW).
		Render(strings.TrimSpace(s.PromptText)))
	b.WriteString("\n\n")

	field := func(name, v string) {
		fmt.Fprintf(&b, "%s %s\n", label.Render(fmt.Sprintf("%-10s", name)), value.Render(v))
	}
	b.WriteString(label.Render(fmt.Sprintf("%-10s", "Outcome")) + " " + outcome + "\n")
	when := cli.FormatTimestamp(s.Timestamp, a.loc)
	if s.TimeEnd != nil {
		when += " → " + cli.FormatTimestamp(*s.TimeEnd, a.loc)
	}
	field("When", when)
	if m := s.ModelName(); m != "" {
		field("Model", m)
	}
	field("Tools", fmt.Sprintf("%d calls", s.ToolCallCount))

	u := s.TokenUsage
	if u.InputTokens+u.OutputTokens+u.CacheReadTokens > 0 {
		at, _ := model.ParseTimestamp(s.Timestamp, a.loc)
		cost := a.prices.CalculateCost(s.ModelName(), at, u.InputTokens, u.OutputTokens, u.CacheReadTokens)
		field("Tokens", fmt.Sprintf("%s in · %s out · %s cached · %s",
			cli.FormatTokens(u.InputTokens), cli.FormatTokens(u.OutputTokens),
			cli.FormatTokens(u.CacheReadTokens), cli.FormatCost(cost)))
	}

	if len(s.FilesWritten) > 0 {
		b.WriteString("\n" + header.Render("FILES WRITTEN") + "\n")
		for _, f := range s.FilesWritten {
			b.WriteString(value.Render(cli.Truncate(f, innerW)) + "\n")
		}
	}
	if len(s.AssociatedCommitHashes) > 0 {
		short := make([]string, len(s.AssociatedCommitHashes))
		for i, h := range s.AssociatedCommitHashes {
			short[i] = model.Commit{Hash: h}.ShortHash()
		}
		b.WriteString("\n" + header.Render("COMMITS") + "\n")
		b.WriteString(value.Render(cli.Truncate(strings.Join(short, " "), innerW)) + "\n")
	}
	for _, id := range s.AssociatedFeatureIDs {
		if title, ok := a.snap.FeatureTitle(id); ok {
			b.WriteString(label.Render("feature ") + value.Render(cli.Truncate(title, innerW-8)) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
