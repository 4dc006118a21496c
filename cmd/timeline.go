package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

var (
	flagTimelineAuthor    string
	flagTimelineTypes     []string
	flagTimelineAssistant bool
	flagTimelineSince     string
	flagTimelineUntil     string
	flagTimelineLimit     int
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Commit timeline with author, change type and date filters",
	RunE:  runTimeline,
}

func init() {
	timelineCmd.Flags().StringVar(&flagTimelineAuthor, "author", "", "Only commits by this author (exact name)")
	timelineCmd.Flags().StringSliceVarP(&flagTimelineTypes, "type", "t", nil, "Only these change types (repeatable)")
	timelineCmd.Flags().BoolVar(&flagTimelineAssistant, "assistant", false, "Only assistant-authored commits")
	timelineCmd.Flags().StringVar(&flagTimelineSince, "since", "", "Earliest timestamp, e.g. 2025-06-01")
	timelineCmd.Flags().StringVar(&flagTimelineUntil, "until", "", "Latest timestamp; a bare date covers the whole day")
	timelineCmd.Flags().IntVarP(&flagTimelineLimit, "limit", "l", 50, "Number of commits to show (0 for all)")
	rootCmd.AddCommand(timelineCmd)
}

// timelineFilter builds the filter from flags.
func timelineFilter() (pipeline.TimelineFilter, error) {
	f := pipeline.TimelineFilter{
		Author:        flagTimelineAuthor,
		AssistantOnly: flagTimelineAssistant,
		Start:         flagTimelineSince,
		End:           flagTimelineUntil,
	}
	if len(f.End) == len("2006-01-02") {
		f.End += "T~"
	}
	for _, t := range flagTimelineTypes {
		ct := model.ChangeType(t)
		if !ct.Known() {
			return f, fmt.Errorf("unknown change type %q", t)
		}
		f.ChangeTypes = append(f.ChangeTypes, ct)
	}
	return f, nil
}

func runTimeline(_ *cobra.Command, _ []string) error {
	filter, err := timelineFilter()
	if err != nil {
		return err
	}

	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	commits := slices.Clone(rt.mgr.Memo().Timeline(snap, filter))
	if len(commits) == 0 {
		fmt.Println("\n  No commits match the filter.")
		return nil
	}
	slices.Reverse(commits)

	total := len(commits)
	if flagTimelineLimit > 0 && total > flagTimelineLimit {
		commits = commits[:flagTimelineLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TIMELINE  (showing %d of %d)", len(commits), total)))
	fmt.Println()

	rows := make([][]string, 0, len(commits))
	for _, c := range commits {
		who := c.AuthorName
		if c.IsClaudeCode {
			who += " *"
		}
		rows = append(rows, []string{
			cli.FormatTimestamp(c.Timestamp, rt.loc),
			c.ShortHash(),
			cli.ChangeTypeBadge(c.ChangeType),
			cli.Truncate(who, 18),
			cli.Truncate(c.Subject, 48),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"When", "Commit", "Type", "Author", "Subject"},
		Rows:     rows,
		LeftCols: 5,
	}))
	fmt.Printf("\n  %s\n", cli.Muted("* assistant-authored"))
	return nil
}
