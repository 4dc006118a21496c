package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/gitlore/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders counts as a single row of block characters scaled to
// the largest value.
func Sparkline(values []int, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := 1
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		idx := v * 8 / peak
		if v > 0 && idx == 0 {
			idx = 1
		}
		b.WriteRune(eighths[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(b.String())
}

// ColumnChart renders counts as vertical bars height rows tall with one
// label row underneath. Labels are shown every labelEvery columns.
func ColumnChart(values []int, labels []string, color lipgloss.Color, width, height, labelEvery int) string {
	n := len(values)
	if n == 0 {
		return ""
	}
	if height < 2 || width < n {
		return Sparkline(values, color)
	}

	t := theme.Active
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	colW := width / n
	if colW > 4 {
		colW = 4
	}
	barW := colW - 1
	if barW < 1 {
		barW = 1
	}

	peak := 1
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		for _, v := range values {
			// Height in eighths of a row, rounded down.
			fill := v * height * 8 / peak
			cell := fill - (row-1)*8
			switch {
			case cell >= 8:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case cell > 0:
				b.WriteString(barStyle.Render(strings.Repeat(string(eighths[cell]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
			b.WriteString(blank.Render(strings.Repeat(" ", colW-barW)))
		}
		b.WriteString("\n")
	}

	if labelEvery < 1 {
		labelEvery = 1
	}
	axis := make([]rune, n*colW)
	for i := range axis {
		axis[i] = ' '
	}
	for i := 0; i < n && i < len(labels); i += labelEvery {
		for j, r := range []rune(labels[i]) {
			pos := i*colW + j
			if pos >= len(axis) {
				break
			}
			axis[pos] = r
		}
	}
	b.WriteString(axisStyle.Render(strings.TrimRight(string(axis), " ")))
	return b.String()
}

// HBar renders "label ████░░ count" with the bar scaled to peak.
func HBar(label string, labelW, value, peak, barW int, color lipgloss.Color) string {
	t := theme.Active
	if peak < 1 {
		peak = 1
	}
	filled := value * barW / peak
	if value > 0 && filled == 0 {
		filled = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	fillStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s ", labelW, label)) +
		fillStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", barW-filled)) +
		countStyle.Render(fmt.Sprintf(" %d", value))
}
