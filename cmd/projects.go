package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/source"
)

var flagExports bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Imported projects",
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().BoolVar(&flagExports, "exports", false, "List export files on disk without importing them")
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(_ *cobra.Command, _ []string) error {
	if flagExports {
		return listExports()
	}

	rt, err := openRuntime(false)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.provider.Sync(context.Background())
	if err != nil {
		return err
	}
	if res.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d exports could not be parsed\n", res.FileErrors)
	}

	projects, err := rt.provider.Projects()
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Printf("\n  No projects. Write snapshot exports to %s.\n", filepath.Join(rt.cfg.General.DataDir, source.ExportsDir))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PROJECTS  (%d)", len(projects))))
	fmt.Println()

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			cli.Truncate(p.Name, 20),
			cli.Truncate(p.Path, 40),
			cli.FormatTimestamp(p.LastScanned, rt.loc),
			cli.FormatNumber(int64(p.TotalCommits)),
			cli.FormatNumber(int64(p.TotalFeatures)),
			fmt.Sprintf("%.1f%%", p.AssistantPercentage),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Project", "Path", "Last scanned", "Commits", "Features", "Assistant"},
		Rows:     rows,
		LeftCols: 3,
	}))
	return nil
}

// listExports reads only the repository header of each export.
func listExports() error {
	cfg := loadConfig()
	files, err := source.ScanDir(cfg.General.DataDir)
	if err != nil {
		return fmt.Errorf("scanning exports: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("\n  No export files found.")
		return nil
	}

	fmt.Println()
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		repo, err := source.PeekRepository(f.Path)
		if err != nil {
			rows = append(rows, []string{f.Project, cli.Warn(err.Error()), "", ""})
			continue
		}
		rows = append(rows, []string{
			cli.Truncate(repo.Name, 20),
			cli.Truncate(repo.Path, 40),
			cli.FormatNumber(int64(repo.TotalCommits)),
			cli.FormatNumber(f.SizeBytes),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Exports in %s", cfg.General.DataDir),
		Headers:  []string{"Project", "Path", "Commits", "Bytes"},
		Rows:     rows,
		LeftCols: 2,
	}))
	return nil
}
