package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/config"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Estimated prompt token costs by model",
	RunE:  runCosts,
}

func init() {
	rootCmd.AddCommand(costsCmd)
}

func runCosts(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	totals, models := pipeline.AggregateTokenCosts(snap.PromptSessions, rt.prices)
	if len(models) == 0 {
		fmt.Println("\n  No prompt sessions with token usage.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROMPT COSTS (est)"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Token type", "Cost"},
		Rows: [][]string{
			{"Input", cli.FormatCost(totals.InputCost)},
			{"Output", cli.FormatCost(totals.OutputCost)},
			{"Cache read", cli.FormatCost(totals.CacheReadCost)},
			cli.SeparatorRow,
			{"Total", cli.FormatCost(totals.TotalCost)},
		},
	}))
	fmt.Println()

	unpriced := 0
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		cost := cli.FormatCost(m.TotalCost)
		if !m.Priced {
			cost = cli.Muted("n/a")
			unpriced++
		}
		rows = append(rows, []string{
			m.Model,
			cli.FormatNumber(int64(m.Prompts)),
			cli.FormatTokens(m.InputTokens),
			cli.FormatTokens(m.OutputTokens),
			cli.FormatTokens(m.CacheReadTokens),
			cost,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By model",
		Headers: []string{"Model", "Prompts", "Input", "Output", "Cache read", "Cost"},
		Rows:    rows,
	}))

	if unpriced > 0 {
		fmt.Printf("\n  %s\n", cli.Warn(fmt.Sprintf("%d models have no pricing; add [pricing.overrides] in %s", unpriced, config.ConfigPath())))
	}
	return nil
}
