package components

import (
	"strings"

	"github.com/theirongolddev/gitlore/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab is one dashboard tab with its shortcut key.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // index of Key within Name
}

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{
	{Name: "Patterns", Key: 'p', KeyPos: 0},
	{Name: "Timeline", Key: 't', KeyPos: 0},
	{Name: "Prompts", Key: 'o', KeyPos: 2},
	{Name: "Intent", Key: 'i', KeyPos: 0},
	{Name: "Features", Key: 'f', KeyPos: 0},
	{Name: "Costs", Key: 'c', KeyPos: 0},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active
	pad := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	if active {
		name := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true).
			Padding(0, 1).Render(tab.Name)
		return name
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	before := tab.Name[:tab.KeyPos]
	key := tab.Name[tab.KeyPos : tab.KeyPos+1]
	after := tab.Name[tab.KeyPos+1:]
	return pad + nameStyle.Render(before) +
		dimStyle.Render("[") + keyStyle.Render(key) + dimStyle.Render("]") +
		nameStyle.Render(after) + pad
}

// TabVisualWidth is the rendered width of a tab, used for mouse hit tests.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders one row of tabs separated by a single column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(width).
		Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab index for a shortcut key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
