// Package cmd implements the gitlore CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/gitlore/internal/cli"
	"github.com/theirongolddev/gitlore/internal/config"
	"github.com/theirongolddev/gitlore/internal/logging"
	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/snapshot"
	"github.com/theirongolddev/gitlore/internal/source"
	"github.com/theirongolddev/gitlore/internal/store"
)

var (
	flagRepo     string
	flagDataDir  string
	flagNoCache  bool
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:          "gitlore",
	Short:        "Behavioral insight from commit history and assistant prompts",
	Long:         "Analyze a repository snapshot: when you work, which files change together,\nwhat kind of changes you make and how your assistant prompts turn out.",
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagRepo, "repo", "r", "", "Repository path or name (default: the only imported project)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory with snapshot exports (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Reimport every export, ignoring the cache")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// appEnv bundles what commands need to reach the active snapshot.
type appEnv struct {
	cfg      config.Config
	log      *logrus.Logger
	cache    *store.Cache
	provider *source.Provider
	mgr      *snapshot.Manager
	prices   *config.PriceTable
	loc      *time.Location
}

func (rt *appEnv) Close() {
	if rt.cache != nil {
		_ = rt.cache.Close()
	}
}

// repo returns the requested repository, from the flag or the config.
func (rt *appEnv) repo() string {
	if flagRepo != "" {
		return flagRepo
	}
	return rt.cfg.General.RepoPath
}

// loadConfig reads the config file and applies the global flags on top.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  %s\n", cli.Warn("config: "+err.Error()+" (using defaults)"))
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if cfg.General.DataDir == "" {
		cfg.General.DataDir = config.DefaultDataDir()
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

// cachePath returns the sqlite cache location inside dataDir.
func cachePath(dataDir string) string {
	return filepath.Join(dataDir, "gitlore.db")
}

// openRuntime wires config, logger, cache, provider and snapshot manager.
// Long-running commands pass verbose to keep info-level logs.
func openRuntime(verbose bool) (*appEnv, error) {
	cfg := loadConfig()

	log := logging.Quiet(cfg.Log)
	if verbose {
		log = logging.New(cfg.Log)
	}
	if flagQuiet {
		log.SetLevel(logrus.ErrorLevel)
	}

	if err := os.MkdirAll(cfg.General.DataDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	cache, err := store.Open(cachePath(cfg.General.DataDir))
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	provider := source.NewProvider(cfg.General.DataDir, cache, log)
	provider.Force = flagNoCache
	if !flagQuiet {
		provider.Progress = func(current, total int) {
			if current%10 == 0 || current == total {
				fmt.Fprintf(os.Stderr, "\r  Importing [%d/%d]", current, total)
			}
			if current == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	return &appEnv{
		cfg:      cfg,
		log:      log,
		cache:    cache,
		provider: provider,
		mgr:      snapshot.NewManager(provider, log),
		prices:   config.NewPriceTable(cfg.Pricing.Overrides),
		loc:      time.Local,
	}, nil
}

// loadSnapshot is the shared data loading path used by the report commands.
// The caller must Close the returned runtime.
func loadSnapshot() (*appEnv, *model.ProjectData, error) {
	rt, err := openRuntime(false)
	if err != nil {
		return nil, nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", filepath.Join(rt.cfg.General.DataDir, source.ExportsDir))
	}

	snap, err := rt.mgr.Scan(context.Background(), rt.repo())
	if err != nil {
		rt.Close()
		return nil, nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loaded %s: %s commits, %d features, %s prompts\n",
			snap.Repository.Name,
			cli.FormatNumber(int64(len(snap.Commits))),
			len(snap.Features),
			cli.FormatNumber(int64(len(snap.PromptSessions))),
		)
	}
	return rt, snap, nil
}
