package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline metrics for the repository",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	if len(snap.Commits) == 0 {
		fmt.Println("\n  No commits in this snapshot.")
		return nil
	}

	r := report.Build(snap, report.Options{PeakHours: rt.cfg.General.PeakHours, Location: rt.loc})
	m := r.Metrics

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(snap.Repository.Name)))
	fmt.Println()

	rows := [][]string{
		{"Commits", cli.FormatNumber(int64(m.Commits))},
		{"Features", cli.FormatNumber(int64(m.Features))},
		{"Prompts", cli.FormatNumber(int64(m.Prompts))},
		{"Assistant commits", fmt.Sprintf("%.1f%%", m.AssistantPct)},
		cli.SeparatorRow,
		{"Intent completion", cli.FormatPercent(m.IntentCompletion)},
		{"Re-prompt rate", cli.FormatPercent(m.RepromptRate)},
		{"Recurring patterns", cli.FormatNumber(int64(m.PatternCount))},
		{"Embedding coverage", cli.FormatPercent(m.EmbeddingCoverage)},
		cli.SeparatorRow,
	}

	peaks := make([]string, 0, len(r.Patterns.PeakHours))
	for _, h := range r.Patterns.PeakHours {
		peaks = append(peaks, cli.FormatHour(h))
	}
	rows = append(rows,
		[]string{"Peak hours", strings.Join(peaks, ", ")},
		[]string{"Files per commit", fmt.Sprintf("%.1f", r.Patterns.AvgGranularity)},
	)
	if len(r.ChangeTypes) > 0 {
		top := r.ChangeTypes[0]
		rows = append(rows, []string{"Top change type",
			fmt.Sprintf("%s (%s)", top.Type.Label(), cli.FormatPercent(top.Share))})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if d := snap.Repository.DateRange; d.Start != "" {
		fmt.Printf("\n  %s\n", cli.Muted(fmt.Sprintf("%s → %s",
			cli.FormatDate(d.Start, rt.loc), cli.FormatDate(d.End, rt.loc))))
	}
	return nil
}
