package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search commits, features and prompts",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	res := pipeline.Search(snap, query)
	if res.Total() == 0 {
		fmt.Printf("\n  No matches for %q.\n", query)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SEARCH  %q  (%d)", query, res.Total())))

	if len(res.Commits) > 0 {
		fmt.Printf("\n  %s\n", cli.Header(fmt.Sprintf("Commits (%d)", len(res.Commits))))
		for _, c := range res.Commits {
			fmt.Printf("    %s %s %s\n", cli.Muted(c.ShortHash()), cli.ChangeTypeBadge(c.ChangeType), cli.Truncate(c.Subject, 70))
		}
	}
	if len(res.Features) > 0 {
		fmt.Printf("\n  %s\n", cli.Header(fmt.Sprintf("Features (%d)", len(res.Features))))
		for _, f := range res.Features {
			fmt.Printf("    %s %s\n", cli.Muted(fmt.Sprintf("#%d", f.ClusterID)), f.DisplayTitle())
		}
	}
	if len(res.Prompts) > 0 {
		fmt.Printf("\n  %s\n", cli.Header(fmt.Sprintf("Prompts (%d)", len(res.Prompts))))
		for _, s := range res.Prompts {
			fmt.Printf("    %s %s\n", cli.Muted(cli.FormatTimestamp(s.Timestamp, rt.loc)), cli.Truncate(s.PromptText, 70))
		}
	}
	return nil
}
