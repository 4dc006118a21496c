package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/pipeline"
	"github.com/theirongolddev/gitlore/internal/tui/components"
	"github.com/theirongolddev/gitlore/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// timelineState holds the commit timeline filters and selection.
type timelineState struct {
	filter    pipeline.TimelineFilter
	typeIdx   int // -1 for all, else index into model.ChangeTypes
	authors   []string
	authorIdx int // -1 for all
	query     string
	search    textinput.Model
	searching bool

	rows   []model.Commit
	cursor int
	offset int
}

func newTimelineState() timelineState {
	return timelineState{typeIdx: -1, authorIdx: -1, search: newSearchInput()}
}

// reset reapplies the current filters to a new snapshot.
func (s *timelineState) reset(snap *model.ProjectData, memo *pipeline.Memo) {
	s.authors = pipeline.Authors(snap.Commits)
	if s.authorIdx >= len(s.authors) {
		s.authorIdx = -1
	}
	s.recompute(snap, memo)
}

func (s *timelineState) recompute(snap *model.ProjectData, memo *pipeline.Memo) {
	s.filter.ChangeTypes = nil
	if s.typeIdx >= 0 {
		s.filter.ChangeTypes = []model.ChangeType{model.ChangeTypes[s.typeIdx]}
	}
	s.filter.Author = ""
	if s.authorIdx >= 0 {
		s.filter.Author = s.authors[s.authorIdx]
	}

	var matched []model.Commit
	if memo != nil {
		matched = memo.Timeline(snap, s.filter)
	} else {
		matched = s.filter.Apply(snap.Commits)
	}

	// Newest first, into a fresh slice; memoized results are shared.
	q := strings.ToLower(s.query)
	rows := make([]model.Commit, 0, len(matched))
	for i := len(matched) - 1; i >= 0; i-- {
		if q != "" && !strings.Contains(strings.ToLower(matched[i].Subject), q) {
			continue
		}
		rows = append(rows, matched[i])
	}
	s.rows = rows
	s.cursor = min(s.cursor, max(0, len(s.rows)-1))
}

func (s *timelineState) move(delta int) {
	s.cursor = max(0, min(s.cursor+delta, len(s.rows)-1))
}

func (s *timelineState) handleKey(key string, snap *model.ProjectData, memo *pipeline.Memo) (bool, tea.Cmd) {
	switch key {
	case "/":
		s.searching = true
		s.search.SetValue(s.query)
		s.search.Focus()
		return true, textinput.Blink
	case "y":
		s.typeIdx++
		if s.typeIdx >= len(model.ChangeTypes) {
			s.typeIdx = -1
		}
	case "a":
		s.authorIdx++
		if s.authorIdx >= len(s.authors) {
			s.authorIdx = -1
		}
	case "A":
		s.filter.AssistantOnly = !s.filter.AssistantOnly
	case "x", "esc":
		s.filter = pipeline.TimelineFilter{}
		s.typeIdx, s.authorIdx, s.query = -1, -1, ""
	default:
		return false, nil
	}
	s.cursor, s.offset = 0, 0
	s.recompute(snap, memo)
	return true, nil
}

// applySearch commits the search input as a subject filter.
func (s *timelineState) applySearch(snap *model.ProjectData, memo *pipeline.Memo) {
	s.query = strings.TrimSpace(s.search.Value())
	s.searching = false
	s.search.Blur()
	s.cursor, s.offset = 0, 0
	s.recompute(snap, memo)
}

func (a App) renderTimelineTab(cw, h int) string {
	t := theme.Active
	s := a.timeline

	rows := s.rows

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)

	pills := []string{"type: all", "author: all"}
	if s.typeIdx >= 0 {
		pills[0] = "type: " + model.ChangeTypes[s.typeIdx].Label()
	}
	if s.authorIdx >= 0 {
		pills[1] = "author: " + s.authors[s.authorIdx]
	}
	if s.filter.AssistantOnly {
		pills = append(pills, "assistant only")
	}
	if s.query != "" {
		pills = append(pills, fmt.Sprintf("%q", s.query))
	}

	var b strings.Builder
	b.WriteString(accent.Render(fmt.Sprintf("%d commits", len(rows))))
	b.WriteString(muted.Render("  " + strings.Join(pills, " · ")))
	b.WriteString("\n")
	if s.searching {
		b.WriteString(s.search.View())
		b.WriteString("\n")
	}

	innerW := components.CardInnerWidth(cw)
	subjectW := max(10, innerW-7-1-13-1-10-1-20-1)
	visible := max(3, h-6)
	start, end := listWindow(s.cursor, s.offset, visible, len(rows))

	if len(rows) == 0 {
		b.WriteString(muted.Render("No commits match. [x] clears filters."))
	}
	for i := start; i < end; i++ {
		c := rows[i]
		marker := " "
		if c.IsClaudeCode {
			marker = "◆"
		}
		line := fmt.Sprintf("%-7s %-12s %s %-10s %-*s %s",
			c.ShortHash(),
			cli.FormatTimestamp(c.Timestamp, a.loc),
			marker,
			cli.Truncate(c.ChangeType.Label(), 10),
			subjectW, cli.Truncate(c.Subject, subjectW),
			cli.Truncate(c.AuthorName, 20))
		if i == s.cursor {
			b.WriteString(selected.Render(line))
		} else {
			b.WriteString(row.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return components.ContentCard("Timeline  [/]search [y]type [a]author [A]assistant [x]clear", b.String(), cw)
}
