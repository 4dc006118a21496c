package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", cfg.General.DataDir)
	fmt.Printf("    Cache:          %s\n", cachePath(cfg.General.DataDir))
	if cfg.General.RepoPath != "" {
		fmt.Printf("    Repository:     %s\n", cfg.General.RepoPath)
	}
	fmt.Printf("    Group by:       %s\n", cfg.General.GroupBy)
	fmt.Printf("    Peak hours:     %d\n", cfg.General.PeakHours)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %ds\n", cfg.Daemon.IntervalSec)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s  JSON: %v\n", cfg.Log.Level, cfg.Log.JSON)

	if len(cfg.Pricing.Overrides) > 0 {
		fmt.Println()
		fmt.Println("  [Pricing overrides]")
		models := make([]string, 0, len(cfg.Pricing.Overrides))
		for m := range cfg.Pricing.Overrides {
			models = append(models, m)
		}
		sort.Strings(models)
		for _, m := range models {
			fmt.Printf("    %s\n", m)
		}
	}
	fmt.Println()

	fmt.Println("  Run `gitlore setup` to reconfigure.")
	return nil
}
