package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/gitlore/internal/model"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatTokens(1234), "1.2K"},
		{FormatTokens(1_234_567), "1.2M"},
		{FormatTokens(12), "12"},
		{FormatCost(1234.4), "$1,234"},
		{FormatCost(12.34), "$12.3"},
		{FormatCost(0.5), "$0.50"},
		{FormatNumber(-1234567), "-1,234,567"},
		{FormatPercent(0.256), "25.6%"},
		{FormatHour(0), "12 AM"},
		{FormatHour(12), "12 PM"},
		{FormatHour(15), "3 PM"},
		{FormatTimestamp("2025-06-02T09:05:00Z", time.UTC), "Jun 2 09:05"},
		{FormatTimestamp("garbage", time.UTC), "garbage"},
		{FormatDate("2025-06-02T23:05:00Z", time.UTC), "2025-06-02"},
		{Truncate("hello   world", 20), "hello world"},
		{Truncate("héllo wörld", 5), "héll…"},
	}
	for i, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("case %d: got %q, want %q", i, tt.got, tt.want)
		}
	}
}

func TestRenderTable_StyledCellsAlign(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Type", "Count"},
		Rows: [][]string{
			{ChangeTypeBadge(model.BugFix), "3"},
			SeparatorRow,
			{"plain", "12"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d width = %d, want %d", i, w, width)
		}
	}
}

func TestRenderBar(t *testing.T) {
	if got := lipgloss.Width(RenderBar(5, 10, 20, "#fff")); got != 10 {
		t.Errorf("half bar width = %d, want 10", got)
	}
	if got := lipgloss.Width(RenderBar(1, 1000, 20, "#fff")); got != 1 {
		t.Errorf("tiny nonzero bar width = %d, want 1", got)
	}
	if got := lipgloss.Width(RenderBar(0, 0, 20, "#fff")); got != 0 {
		t.Errorf("zero bar width = %d, want 0", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 1, 2}); got != "▁▄█" {
		t.Errorf("RenderSparkline = %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty sparkline should be empty")
	}
}
