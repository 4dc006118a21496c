package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
)

var flagCouplingLimit int

var couplingsCmd = &cobra.Command{
	Use:   "couplings",
	Short: "Files that repeatedly change together",
	RunE:  runCouplings,
}

func init() {
	couplingsCmd.Flags().IntVarP(&flagCouplingLimit, "limit", "l", 20, "Number of pairs to show (0 for all)")
	rootCmd.AddCommand(couplingsCmd)
}

func runCouplings(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	couplings := rt.mgr.Memo().Couplings(snap)
	if len(couplings) == 0 {
		fmt.Println("\n  No file pairs changed together in three or more commits.")
		return nil
	}

	total := len(couplings)
	if flagCouplingLimit > 0 && total > flagCouplingLimit {
		couplings = couplings[:flagCouplingLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FILE COUPLINGS  (%d of %d)", len(couplings), total)))
	fmt.Println()

	rows := make([][]string, 0, len(couplings))
	for _, c := range couplings {
		rows = append(rows, []string{
			cli.Truncate(c.FileA, 36),
			cli.Truncate(c.FileB, 36),
			cli.FormatNumber(int64(c.Count)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"File", "Changes with", "Commits"},
		Rows:     rows,
		LeftCols: 2,
	}))
	return nil
}
