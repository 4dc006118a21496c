package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

var flagPeakHours int

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Working patterns: commits by hour and weekday, peak hours",
	RunE:  runPatterns,
}

func init() {
	patternsCmd.Flags().IntVar(&flagPeakHours, "peak", 0, "Number of peak hours to report (default from config)")
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	peakN := flagPeakHours
	if peakN <= 0 {
		peakN = rt.cfg.General.PeakHours
	}
	p := rt.mgr.Memo().Patterns(snap, peakN, rt.loc)

	if p.Profile.TotalCommits == 0 {
		fmt.Println("\n  No commits in this snapshot.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("WORKING PATTERNS"))
	fmt.Println()

	peaks := make([]string, 0, len(p.PeakHours))
	for _, h := range p.PeakHours {
		peaks = append(peaks, cli.FormatHour(h))
	}
	fmt.Printf("  %s  %s\n", cli.Header("Peak hours:"), strings.Join(peaks, ", "))
	fmt.Printf("  %s  %.1f\n", cli.Header("Files per commit:"), p.AvgGranularity)
	fmt.Printf("  %s  %.1f%% of commits\n", cli.Header("Assistant share:"), p.Profile.AssistantPercentage)
	if len(p.Profile.Languages) > 0 {
		fmt.Printf("  %s  %s\n", cli.Header("Languages:"), strings.Join(p.Profile.Languages, ", "))
	}
	fmt.Println()

	hourPeak := pipeline.MaxCount(p.Hours[:])
	fmt.Println(cli.Header("  Commits by hour"))
	for h, n := range p.Hours {
		fmt.Printf("  %5s  %s %s\n",
			cli.FormatHour(h),
			cli.RenderBar(n, hourPeak, 40, string(cli.ColorBlue)),
			cli.Muted(cli.FormatNumber(int64(n))),
		)
	}
	fmt.Println()

	dayPeak := pipeline.MaxCount(p.Days[:])
	fmt.Println(cli.Header("  Commits by weekday"))
	for d, n := range p.Days {
		fmt.Printf("  %5s  %s %s\n",
			pipeline.DayLabels[d],
			cli.RenderBar(n, dayPeak, 40, string(cli.ColorAccent)),
			cli.Muted(cli.FormatNumber(int64(n))),
		)
	}
	return nil
}
