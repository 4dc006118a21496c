package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/gitlore/internal/store"
)

func newTestProvider(t *testing.T) (*Provider, string) {
	t.Helper()
	dataDir := t.TempDir()
	cache, err := store.Open(filepath.Join(dataDir, "gitlore.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewProvider(dataDir, cache, log), dataDir
}

func TestProvider_ScanImportsOnce(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeExport(t, dataDir, "-src-app", sampleExport)
	ctx := context.Background()

	snap, err := p.Scan(ctx, "")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if snap.Repository.Path != "/src/app" || len(snap.PromptSessions) != 1 {
		t.Errorf("snapshot = %+v", snap.Repository)
	}

	res, err := p.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.Imported != 0 || res.CacheHits != 1 {
		t.Errorf("second sync imported %d, cached %d; want 0 and 1", res.Imported, res.CacheHits)
	}

	p.Force = true
	if res, _ := p.Sync(ctx); res.Imported != 1 {
		t.Errorf("forced sync imported %d, want 1", res.Imported)
	}
}

func TestProvider_Resolve(t *testing.T) {
	p, dataDir := newTestProvider(t)
	ctx := context.Background()

	if _, err := p.Scan(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Scan with no exports err = %v, want ErrNotFound", err)
	}

	writeExport(t, dataDir, "-src-app", sampleExport)
	writeExport(t, dataDir, "-src-other", `{"repository": {"path": "/src/other", "name": "other"}}`)

	if _, err := p.Scan(ctx, ""); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("Scan(\"\") err = %v, want ErrAmbiguous", err)
	}
	snap, err := p.Scan(ctx, "other")
	if err != nil || snap.Repository.Path != "/src/other" {
		t.Errorf("Scan(other) = %v, %v", snap, err)
	}
	if _, err := p.Scan(ctx, "/src/app"); err != nil {
		t.Errorf("Scan(/src/app): %v", err)
	}
	if _, err := p.Scan(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Scan(nope) err = %v, want ErrNotFound", err)
	}

	projects, err := p.Projects()
	if err != nil || len(projects) != 2 {
		t.Errorf("Projects = %v, %v", projects, err)
	}
}

func TestProvider_DeleteAndRefreshSessions(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeExport(t, dataDir, "-src-app", sampleExport)
	ctx := context.Background()

	if _, err := p.Scan(ctx, "/src/app"); err != nil {
		t.Fatal(err)
	}

	n, err := p.DeleteSessions(ctx, "/src/app")
	if err != nil || n != 1 {
		t.Fatalf("DeleteSessions = %d, %v; want 1", n, err)
	}

	// Deletion survives a rescan of the unchanged export.
	snap, err := p.Scan(ctx, "/src/app")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.PromptSessions) != 0 {
		t.Errorf("sessions after delete+scan = %d, want 0", len(snap.PromptSessions))
	}

	sessions, err := p.FetchSessions(ctx, "/src/app")
	if err != nil || len(sessions) != 1 {
		t.Fatalf("FetchSessions from export = %d, %v", len(sessions), err)
	}

	sidecar := filepath.Join(dataDir, ExportsDir, "-src-app"+sessionsSuffix)
	body := `[{"sessionId": "x", "promptText": "one"}, {"sessionId": "x", "promptText": "two"}]`
	if err := os.WriteFile(sidecar, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	sessions, err = p.FetchSessions(ctx, "/src/app")
	if err != nil || len(sessions) != 2 {
		t.Fatalf("FetchSessions from sidecar = %d, %v", len(sessions), err)
	}
}

func TestProvider_DeletedSessionsSurviveForcedScan(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeExport(t, dataDir, "-src-app", sampleExport)
	ctx := context.Background()

	if _, err := p.Scan(ctx, "/src/app"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.DeleteSessions(ctx, "/src/app"); err != nil {
		t.Fatal(err)
	}

	p.Force = true
	snap, err := p.Scan(ctx, "/src/app")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.PromptSessions) != 0 {
		t.Errorf("sessions after forced scan = %d, want 0", len(snap.PromptSessions))
	}

	// A touched export is re-imported without Force; sessions stay deleted.
	p.Force = false
	future := time.Now().Add(time.Hour)
	file := filepath.Join(dataDir, ExportsDir, "-src-app.json")
	if err := os.Chtimes(file, future, future); err != nil {
		t.Fatal(err)
	}
	snap, err = p.Scan(ctx, "/src/app")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.PromptSessions) != 0 {
		t.Errorf("sessions after changed-export scan = %d, want 0", len(snap.PromptSessions))
	}

	// Only an explicit fetch brings them back, and later imports keep them.
	if _, err := p.FetchSessions(ctx, "/src/app"); err != nil {
		t.Fatal(err)
	}
	p.Force = true
	snap, err = p.Scan(ctx, "/src/app")
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.PromptSessions) != 1 {
		t.Errorf("sessions after fetch and forced scan = %d, want 1", len(snap.PromptSessions))
	}
}

func TestProvider_CanceledContext(t *testing.T) {
	p, dataDir := newTestProvider(t)
	writeExport(t, dataDir, "-src-app", sampleExport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Scan(ctx, ""); !errors.Is(err, context.Canceled) {
		t.Errorf("Scan err = %v, want context.Canceled", err)
	}
	if _, err := p.DeleteSessions(ctx, "/src/app"); !errors.Is(err, context.Canceled) {
		t.Errorf("DeleteSessions err = %v, want context.Canceled", err)
	}
}
