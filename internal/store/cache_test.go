package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/gitlore/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "gitlore.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleProject(path string) *model.ProjectData {
	m := "claude-sonnet-4-6"
	return &model.ProjectData{
		Repository: model.Repository{Path: path, Name: filepath.Base(path), TotalCommits: 2},
		Commits: []model.Commit{
			{Hash: "abc", ChangeType: model.BugFix, FilesChanged: []model.FileChange{{Path: "a.go"}}},
			{Hash: "def", ChangeType: model.NewFeature},
		},
		Features: []model.Feature{{ClusterID: 1, Title: "Login", CommitHashes: []string{"abc"}}},
		PromptSessions: []model.PromptSession{
			{SessionID: "s1", PromptText: "first", Model: &m, TokenUsage: model.TokenUsage{InputTokens: 10}},
			{SessionID: "s1", PromptText: "second"},
			{SessionID: "s2", PromptText: "third"},
		},
		Analytics: model.Analytics{ClaudeCodeCommitPercentage: 50},
	}
}

func TestSaveAndLoadProject(t *testing.T) {
	c := openTestCache(t)
	p := sampleProject("/src/app")

	if err := c.SaveProject(p, "/data/app.json", 123, 456); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	got, err := c.LoadProject("/src/app")
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if len(got.Commits) != 2 || got.Commits[0].ChangeType != model.BugFix {
		t.Errorf("commits = %+v", got.Commits)
	}
	if len(got.PromptSessions) != 3 || got.PromptSessions[1].PromptText != "second" {
		t.Errorf("sessions = %+v, want import order kept", got.PromptSessions)
	}
	if got.PromptSessions[0].ModelName() != "claude-sonnet-4-6" {
		t.Errorf("model = %q", got.PromptSessions[0].ModelName())
	}

	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatalf("GetTrackedFiles: %v", err)
	}
	if fi := tracked["/data/app.json"]; fi.MtimeNs != 123 || fi.SizeBytes != 456 {
		t.Errorf("tracked = %+v", fi)
	}

	file, err := c.ProjectFile("/src/app")
	if err != nil || file != "/data/app.json" {
		t.Errorf("ProjectFile = %q, %v", file, err)
	}
}

func TestLoadProject_NotFound(t *testing.T) {
	c := openTestCache(t)
	if _, err := c.LoadProject("/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadProject err = %v, want ErrNotFound", err)
	}
	if err := c.SaveSessions("/missing", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveSessions err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSessions(t *testing.T) {
	c := openTestCache(t)
	if err := c.SaveProject(sampleProject("/src/app"), "/data/app.json", 1, 1); err != nil {
		t.Fatal(err)
	}

	n, err := c.DeleteSessions("/src/app")
	if err != nil {
		t.Fatalf("DeleteSessions: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted %d sessions, want 3", n)
	}

	sessions, err := c.LoadSessions("/src/app")
	if err != nil {
		t.Fatal(err)
	}
	if sessions == nil || len(sessions) != 0 {
		t.Errorf("sessions after delete = %#v, want empty", sessions)
	}

	// The project itself survives.
	if _, err := c.LoadProject("/src/app"); err != nil {
		t.Errorf("LoadProject after delete: %v", err)
	}
	if n, _ := c.DeleteSessions("/src/app"); n != 0 {
		t.Errorf("second delete removed %d, want 0", n)
	}
}

func TestDeletedSessionsSurviveReimport(t *testing.T) {
	c := openTestCache(t)
	if err := c.SaveProject(sampleProject("/src/app"), "/data/app.json", 1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := c.DeleteSessions("/src/app"); err != nil {
		t.Fatal(err)
	}

	if err := c.SaveProject(sampleProject("/src/app"), "/data/app.json", 2, 2); err != nil {
		t.Fatalf("SaveProject after delete: %v", err)
	}
	sessions, _ := c.LoadSessions("/src/app")
	if len(sessions) != 0 {
		t.Errorf("sessions after re-import = %d, want 0", len(sessions))
	}
	if fi := mustTracked(t, c)["/data/app.json"]; fi.MtimeNs != 2 {
		t.Errorf("tracked mtime = %d, want 2", fi.MtimeNs)
	}

	if err := c.SaveSessions("/src/app", []model.PromptSession{{SessionID: "back"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveProject(sampleProject("/src/app"), "/data/app.json", 3, 3); err != nil {
		t.Fatal(err)
	}
	sessions, _ = c.LoadSessions("/src/app")
	if len(sessions) != 3 {
		t.Errorf("sessions after refresh and re-import = %d, want 3", len(sessions))
	}
}

func TestOpen_MigratesOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.db.Exec("ALTER TABLE projects DROP COLUMN sessions_deleted_at"); err != nil {
		t.Fatalf("dropping column: %v", err)
	}
	_ = c.Close()

	c, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = c.Close() }()
	if err := c.SaveProject(sampleProject("/src/app"), "/data/app.json", 1, 1); err != nil {
		t.Errorf("SaveProject on migrated db: %v", err)
	}
	if _, err := c.DeleteSessions("/src/app"); err != nil {
		t.Errorf("DeleteSessions on migrated db: %v", err)
	}
}

func mustTracked(t *testing.T, c *Cache) map[string]FileInfo {
	t.Helper()
	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatal(err)
	}
	return tracked
}

func TestSaveSessionsReplaces(t *testing.T) {
	c := openTestCache(t)
	if err := c.SaveProject(sampleProject("/src/app"), "/data/app.json", 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveSessions("/src/app", []model.PromptSession{{SessionID: "new"}}); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}
	sessions, _ := c.LoadSessions("/src/app")
	if len(sessions) != 1 || sessions[0].SessionID != "new" {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestListProjects(t *testing.T) {
	c := openTestCache(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	if err := c.SaveProject(sampleProject("/src/old"), "/d/old.json", 1, 1); err != nil {
		t.Fatal(err)
	}
	c.now = func() time.Time { return base.Add(time.Hour) }
	if err := c.SaveProject(sampleProject("/src/new"), "/d/new.json", 1, 1); err != nil {
		t.Fatal(err)
	}

	projects, err := c.ListProjects()
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 2 || projects[0].Path != "/src/new" {
		t.Fatalf("projects = %+v, want newest first", projects)
	}
	p := projects[1]
	if p.Name != "old" || p.TotalCommits != 2 || p.TotalFeatures != 1 || p.AssistantPercentage != 50 {
		t.Errorf("summary = %+v", p)
	}

	if n, _ := c.ProjectCount(); n != 2 {
		t.Errorf("ProjectCount = %d, want 2", n)
	}
}

func TestSaveProject_RequiresPath(t *testing.T) {
	c := openTestCache(t)
	if err := c.SaveProject(&model.ProjectData{}, "/d/x.json", 1, 1); err == nil {
		t.Error("SaveProject without repository path should fail")
	}
}
