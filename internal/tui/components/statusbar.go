package components

import (
	"github.com/theirongolddev/gitlore/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom bar: key hints on the left, info on the
// right. A non-empty errMsg replaces the hints in the warning color.
func RenderStatusBar(width int, hints, info, errMsg string) string {
	t := theme.Active

	leftStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	left := leftStyle.Render(" " + hints)
	if errMsg != "" {
		left = lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Render(" ! " + errMsg)
	}
	right := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(info + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Too narrow for both; the error or hints win.
		return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).Render(left)
	}
	fill := lipgloss.NewStyle().Background(t.Surface).Width(gap).Render("")
	return left + fill + right
}
