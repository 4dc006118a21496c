package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

var (
	flagFunctionFile string
	flagShowDiff     bool
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "Functions touched per file",
	RunE:  runFunctions,
}

var functionHistoryCmd = &cobra.Command{
	Use:   "history <function>",
	Short: "Commits that modified a function",
	Args:  cobra.ExactArgs(1),
	RunE:  runFunctionHistory,
}

func init() {
	functionsCmd.PersistentFlags().StringVar(&flagFunctionFile, "file", "", "Restrict to one file path")
	functionHistoryCmd.Flags().BoolVar(&flagShowDiff, "diff", false, "Print the recorded diff of each change")
	functionsCmd.AddCommand(functionHistoryCmd)
	rootCmd.AddCommand(functionsCmd)
}

func runFunctions(_ *cobra.Command, _ []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	tree := pipeline.FunctionTree(snap.Commits)
	if len(tree) == 0 {
		fmt.Println("\n  No function-level changes in this snapshot.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("FUNCTIONS"))
	for _, file := range tree {
		if flagFunctionFile != "" && file.Path != flagFunctionFile {
			continue
		}
		fmt.Printf("\n  %s %s\n", cli.Header(file.Path), cli.Muted(fmt.Sprintf("(%d)", len(file.Functions))))
		for _, fn := range file.Functions {
			fmt.Printf("    %s\n", fn)
		}
	}
	return nil
}

func runFunctionHistory(_ *cobra.Command, args []string) error {
	rt, snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	defer rt.Close()

	mods := pipeline.FunctionHistory(snap.Commits, args[0], flagFunctionFile)
	if len(mods) == 0 {
		fmt.Printf("\n  No commits modified %s.\n", args[0])
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("HISTORY  %s", args[0])))
	fmt.Println()

	if !flagShowDiff {
		rows := make([][]string, 0, len(mods))
		for _, m := range mods {
			rows = append(rows, []string{
				cli.FormatTimestamp(m.Commit.Timestamp, rt.loc),
				m.Commit.ShortHash(),
				cli.Truncate(m.Commit.Subject, 48),
				fmt.Sprintf("+%d/-%d", m.LinesAdded, m.LinesRemoved),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Headers:  []string{"When", "Commit", "Subject", "Lines"},
			Rows:     rows,
			LeftCols: 3,
		}))
		return nil
	}

	for _, m := range mods {
		fmt.Printf("  %s %s %s\n",
			cli.Header(m.Commit.ShortHash()),
			cli.Muted(cli.FormatTimestamp(m.Commit.Timestamp, rt.loc)),
			m.Commit.Subject,
		)
		for _, line := range strings.Split(strings.TrimRight(m.DiffText, "\n"), "\n") {
			fmt.Printf("    %s\n", line)
		}
		fmt.Println()
	}
	return nil
}
