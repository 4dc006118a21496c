package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/theirongolddev/gitlore/internal/report"
)

var (
	flagReportFormat string
	flagReportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a full insight report (terminal, markdown, json or yaml)",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportFormat, "format", "f", "terminal", "terminal, markdown, json or yaml")
	reportCmd.Flags().StringVarP(&flagReportOutput, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	format, err := report.ParseFormat(flagReportFormat)
	if err != nil {
		return err
	}
	// Styled output only makes sense on a terminal.
	if format == report.FormatTerminal && flagReportOutput != "" {
		format = report.FormatMarkdown
	}

	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	r := report.Build(snap, report.Options{
		PeakHours: rt.cfg.General.PeakHours,
		Location:  rt.loc,
		Now:       time.Now(),
	})

	var w io.Writer = os.Stdout
	if flagReportOutput != "" {
		f, err := os.Create(flagReportOutput)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer f.Close()
		w = f
	}

	width := 100
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 {
		width = tw
	}
	if err := report.Write(w, r, format, width); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if flagReportOutput != "" && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s report to %s\n", format, flagReportOutput)
	}
	return nil
}
