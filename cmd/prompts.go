package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

var (
	flagGroupBy     string
	flagPromptLimit int
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Prompt sessions grouped by hour, day, week or month",
	RunE:  runPrompts,
}

func init() {
	promptsCmd.Flags().StringVarP(&flagGroupBy, "group-by", "g", "", "hour, day, week or month (default from config)")
	promptsCmd.Flags().IntVarP(&flagPromptLimit, "limit", "l", 100, "Number of prompts to show (0 for all)")
	rootCmd.AddCommand(promptsCmd)
}

func runPrompts(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	by := flagGroupBy
	if by == "" {
		by = rt.cfg.General.GroupBy
	}
	groupBy, err := pipeline.ParseGroupBy(by)
	if err != nil {
		return err
	}

	if len(snap.PromptSessions) == 0 {
		fmt.Println("\n  No prompt sessions stored. Run `gitlore sessions refresh` to import them.")
		return nil
	}

	groups := rt.mgr.Memo().Groups(snap, groupBy, rt.loc)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROMPTS  by %s", groupBy)))

	shown := 0
	var prev *model.PromptSession
	for _, g := range groups {
		if flagPromptLimit > 0 && shown >= flagPromptLimit {
			break
		}
		fmt.Printf("\n  %s %s\n", cli.Header(g.Label), cli.Muted(fmt.Sprintf("(%d)", len(g.Sessions))))

		for i := range g.Sessions {
			if flagPromptLimit > 0 && shown >= flagPromptLimit {
				break
			}
			s := g.Sessions[i]
			mark := " "
			if prev != nil && pipeline.IsReprompt(*prev, s) {
				mark = cli.Warn("↻")
			}
			fmt.Printf("    %s %s %-10s %s\n",
				cli.Muted(cli.FormatTimestamp(s.Timestamp, rt.loc)),
				mark,
				cli.OutcomeBadge(pipeline.ClassifyOutcome(s)),
				cli.Truncate(s.PromptText, 70),
			)
			prev = &g.Sessions[i]
			shown++
		}
	}

	if shown < len(snap.PromptSessions) {
		fmt.Printf("\n  %s\n", cli.Muted(fmt.Sprintf("showing %d of %d prompts", shown, len(snap.PromptSessions))))
	}
	fmt.Printf("\n  %s\n", cli.Muted("↻ re-prompt of the previous prompt"))
	return nil
}
