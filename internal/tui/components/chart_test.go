package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSparklineScalesToPeak(t *testing.T) {
	got := stripANSI(Sparkline([]int{0, 4, 8}, lipgloss.Color("#fff")))
	if got != " ▄█" {
		t.Errorf("Sparkline = %q, want %q", got, " ▄█")
	}
}

func TestColumnChartDimensions(t *testing.T) {
	values := make([]int, 24)
	values[9], values[14] = 3, 6
	labels := make([]string, 24)
	for i := range labels {
		labels[i] = "x"
	}
	out := ColumnChart(values, labels, lipgloss.Color("#fff"), 72, 4, 6)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 4 bar rows + axis", len(lines))
	}
	for i, line := range lines[:4] {
		if w := lipgloss.Width(line); w != 72 {
			t.Errorf("row %d width = %d, want 72", i, w)
		}
	}
	if !strings.Contains(lines[0], "█") {
		t.Error("top row should contain the peak column")
	}
}

func TestHBar(t *testing.T) {
	got := stripANSI(HBar("Mon", 4, 5, 10, 10, lipgloss.Color("#fff")))
	want := "Mon  █████░░░░░ 5"
	if got != want {
		t.Errorf("HBar = %q, want %q", got, want)
	}
}

func TestTabBarHitWidths(t *testing.T) {
	for i, tab := range Tabs {
		active := TabVisualWidth(tab, true)
		inactive := TabVisualWidth(tab, false)
		if active != len(tab.Name)+2 {
			t.Errorf("tab %d active width = %d, want %d", i, active, len(tab.Name)+2)
		}
		if inactive != len(tab.Name)+4 {
			t.Errorf("tab %d inactive width = %d, want %d", i, inactive, len(tab.Name)+4)
		}
		if TabIdxByKey(tab.Key) != i {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tab.Key, TabIdxByKey(tab.Key), i)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
