package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

var flagFeatureLimit int

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Feature clusters, newest first",
	RunE:  runFeatures,
}

func init() {
	featuresCmd.Flags().IntVarP(&flagFeatureLimit, "limit", "l", 25, "Number of features to show (0 for all)")
	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	features := pipeline.SortFeaturesByStart(snap.Features)
	if len(features) == 0 {
		fmt.Println("\n  No features in this snapshot.")
		return nil
	}
	if flagFeatureLimit > 0 && len(features) > flagFeatureLimit {
		features = features[:flagFeatureLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FEATURES  (showing %d of %d)", len(features), len(snap.Features))))
	fmt.Println()

	rows := make([][]string, 0, len(features))
	for _, f := range features {
		kind := cli.Muted("-")
		if ct, ok := pipeline.DominantChangeType(f); ok {
			kind = cli.ChangeTypeBadge(ct)
		}
		if err := f.Validate(); err != nil {
			rt.log.WithField("feature", f.ClusterID).Debug(err)
		}
		rows = append(rows, []string{
			cli.FormatDate(f.TimeStart, rt.loc),
			cli.Truncate(f.DisplayTitle(), 40),
			kind,
			cli.FormatNumber(int64(len(f.CommitHashes))),
			fmt.Sprintf("+%d/-%d", f.TotalLinesAdded, f.TotalLinesRemoved),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Started", "Feature", "Type", "Commits", "Lines"},
		Rows:     rows,
		LeftCols: 3,
	}))
	return nil
}
