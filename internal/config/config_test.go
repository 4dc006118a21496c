package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvRepo, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.GroupBy != "day" || cfg.General.PeakHours != 3 {
		t.Errorf("general defaults = %+v", cfg.General)
	}
	if cfg.Daemon.Addr == "" || cfg.Daemon.IntervalSec <= 0 {
		t.Errorf("daemon defaults = %+v", cfg.Daemon)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvRepo, "")
	t.Setenv(EnvLogLevel, "")

	cfg := DefaultConfig()
	cfg.General.RepoPath = "/src/app"
	cfg.General.GroupBy = "week"
	cfg.Log.JSON = true
	price := 4.5
	cfg.Pricing.Overrides = map[string]ModelPricingOverride{"m": {OutputPerMTok: &price}}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.RepoPath != "/src/app" || got.General.GroupBy != "week" || !got.Log.JSON {
		t.Errorf("loaded config = %+v", got)
	}
	o := got.Pricing.Overrides["m"]
	if o.OutputPerMTok == nil || *o.OutputPerMTok != 4.5 {
		t.Errorf("pricing override not round-tripped: %+v", o)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvRepo, "")
	t.Setenv(EnvDataDir, "/tmp/lore-data")
	t.Setenv(EnvLogLevel, "debug")

	if err := os.MkdirAll(filepath.Join(dir, "gitlore"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[general]\ndata_dir = \"/from/file\"\nrepo_path = \"/repo\"\n"
	if err := os.WriteFile(ConfigPath(), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.DataDir != "/tmp/lore-data" {
		t.Errorf("DataDir = %q, want env override", cfg.General.DataDir)
	}
	if cfg.General.RepoPath != "/repo" {
		t.Errorf("RepoPath = %q, want file value", cfg.General.RepoPath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_DotEnvInConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")
	// t.Setenv registers cleanup; unset so godotenv can fill it.
	t.Setenv(EnvRepo, "")
	os.Unsetenv(EnvRepo)

	if err := os.MkdirAll(filepath.Join(dir, "gitlore"), 0o755); err != nil {
		t.Fatal(err)
	}
	env := filepath.Join(dir, "gitlore", ".env")
	if err := os.WriteFile(env, []byte(EnvRepo+"=/from/dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.RepoPath != "/from/dotenv" {
		t.Errorf("RepoPath = %q, want value from .env", cfg.General.RepoPath)
	}
}
