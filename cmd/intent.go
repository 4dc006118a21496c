package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

var intentCmd = &cobra.Command{
	Use:   "intent",
	Short: "Prompt outcomes, completion and re-prompt rates, change-type mix",
	RunE:  runIntent,
}

func init() {
	rootCmd.AddCommand(intentCmd)
}

func runIntent(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	stats := rt.mgr.Memo().Intent(snap)

	fmt.Println()
	fmt.Println(cli.RenderTitle("INTENT"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Prompts", cli.FormatNumber(int64(stats.TotalPrompts))},
			{"Sessions", cli.FormatNumber(int64(stats.Sessions))},
			{"Intent completion", cli.FormatPercent(pipeline.IntentCompletion(snap))},
			{"Re-prompts", fmt.Sprintf("%d (%s)", stats.Reprompts, cli.FormatPercent(stats.RepromptRate))},
			{"Avg tool calls", fmt.Sprintf("%.1f", stats.AvgToolCalls)},
			{"Embedding coverage", cli.FormatPercent(pipeline.EmbeddingCoverage(snap))},
		},
	}))

	if stats.TotalPrompts > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(pipeline.Outcomes))
		for _, o := range pipeline.Outcomes {
			n := stats.Outcomes[o]
			rows = append(rows, []string{
				cli.OutcomeBadge(o),
				cli.FormatNumber(int64(n)),
				cli.FormatPercent(float64(n) / float64(stats.TotalPrompts)),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Outcomes",
			Headers: []string{"Outcome", "Prompts", "Share"},
			Rows:    rows,
		}))
	}

	shares := pipeline.ChangeTypeTotals(pipeline.CountChangeTypes(snap.Commits))
	if len(shares) > 0 {
		fmt.Println()
		rows := make([][]string, 0, len(shares))
		for _, s := range shares {
			rows = append(rows, []string{
				cli.ChangeTypeBadge(s.Type),
				cli.FormatNumber(int64(s.Count)),
				cli.FormatPercent(s.Share),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Change types",
			Headers: []string{"Type", "Commits", "Share"},
			Rows:    rows,
		}))
	}
	return nil
}
