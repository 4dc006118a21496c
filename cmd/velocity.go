package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Commits and features per week over the last 12 weeks",
	RunE:  runVelocity,
}

func init() {
	rootCmd.AddCommand(velocityCmd)
}

func runVelocity(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	weeks, peak := pipeline.VelocityWindow(snap.Analytics)
	if len(weeks) == 0 {
		fmt.Println("\n  No weekly velocity in this snapshot.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("WEEKLY VELOCITY"))
	fmt.Println()

	series := make([]float64, 0, len(weeks))
	rows := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		series = append(series, float64(w.Commits))
		rows = append(rows, []string{
			w.Week,
			cli.FormatNumber(int64(w.Commits)),
			cli.FormatNumber(int64(w.Features)),
			cli.RenderBar(w.Commits, peak, 24, string(cli.ColorGreen)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Week", "Commits", "Features", ""},
		Rows:    rows,
	}))
	fmt.Printf("\n  Trend  %s\n", cli.RenderSparkline(series))
	return nil
}
