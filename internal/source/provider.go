package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/store"
)

var (
	// ErrNotFound is returned when no imported project matches a path.
	ErrNotFound = store.ErrNotFound
	// ErrAmbiguous is returned when no path is given and several projects exist.
	ErrAmbiguous = errors.New("several projects imported; choose one with --repo")
)

// Provider imports snapshot exports from a data directory into the sqlite
// cache and serves projects and prompt sessions from it.
type Provider struct {
	dataDir string
	cache   *store.Cache
	log     logrus.FieldLogger

	// Force and Progress are passed to every Import.
	Force    bool
	Progress ProgressFunc

	mu sync.Mutex // serializes imports and session writes
}

// NewProvider returns a provider reading exports below dataDir.
func NewProvider(dataDir string, cache *store.Cache, log logrus.FieldLogger) *Provider {
	if log == nil {
		l := logrus.New()
		l.SetOutput(os.Stderr)
		log = l
	}
	return &Provider{dataDir: dataDir, cache: cache, log: log}
}

// DataDir returns the directory exports are read from.
func (p *Provider) DataDir() string { return p.dataDir }

// Sync imports new or changed exports.
func (p *Provider) Sync(ctx context.Context) (*ImportResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sync(ctx)
}

func (p *Provider) sync(ctx context.Context) (*ImportResult, error) {
	res, err := Import(ctx, p.dataDir, p.cache, ImportOptions{Force: p.Force, Progress: p.Progress})
	if err != nil {
		return nil, err
	}
	for _, issue := range res.Issues {
		p.log.WithField("component", "source").Warn(issue)
	}
	p.log.WithFields(logrus.Fields{
		"files":    res.TotalFiles,
		"imported": res.Imported,
		"cached":   res.CacheHits,
		"errors":   res.FileErrors,
	}).Debug("import finished")
	return res, nil
}

// Scan imports changed exports and returns the snapshot for path.
func (p *Provider) Scan(ctx context.Context, path string) (*model.ProjectData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.sync(ctx); err != nil {
		return nil, err
	}
	key, err := p.resolve(path)
	if err != nil {
		return nil, err
	}
	return p.cache.LoadProject(key)
}

// FetchSessions re-reads the prompt sessions of a project from upstream and
// stores them. A sidecar "<stem>.sessions.json" wins over the sessions
// embedded in the export.
func (p *Provider) FetchSessions(ctx context.Context, path string) ([]model.PromptSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key, err := p.resolve(path)
	if err != nil {
		return nil, err
	}
	file, err := p.cache.ProjectFile(key)
	if err != nil {
		return nil, fmt.Errorf("locating export for %s: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(file), ".json")
	sidecar := filepath.Join(filepath.Dir(file), stem+sessionsSuffix)

	var sessions []model.PromptSession
	if _, statErr := os.Stat(sidecar); statErr == nil {
		sessions, err = ParseSessionsFile(sidecar)
		if err != nil {
			return nil, err
		}
	} else {
		res := ParseFile(DiscoveredFile{Path: file, Stem: stem, Project: decodeProjectName(stem)})
		if res.Err != nil {
			return nil, res.Err
		}
		sessions = res.Data.PromptSessions
	}

	if err := p.cache.SaveSessions(key, sessions); err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{"project": key, "sessions": len(sessions)}).Info("sessions refreshed")
	return sessions, nil
}

// DeleteSessions removes the stored prompt sessions of a project and returns
// how many were removed. Export files are never touched.
func (p *Provider) DeleteSessions(ctx context.Context, path string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	key, err := p.resolve(path)
	if err != nil {
		return 0, err
	}
	n, err := p.cache.DeleteSessions(key)
	if err != nil {
		return 0, err
	}
	p.log.WithFields(logrus.Fields{"project": key, "deleted": n}).Info("sessions deleted")
	return n, nil
}

// Projects lists the imported projects.
func (p *Provider) Projects() ([]model.ProjectSummary, error) {
	return p.cache.ListProjects()
}

// resolve maps a user-supplied path or name to a stored project key.
// An empty path selects the only project when exactly one exists.
func (p *Provider) resolve(path string) (string, error) {
	projects, err := p.cache.ListProjects()
	if err != nil {
		return "", fmt.Errorf("listing projects: %w", err)
	}

	if path == "" {
		switch len(projects) {
		case 0:
			return "", fmt.Errorf("no exports in %s: %w", filepath.Join(p.dataDir, ExportsDir), ErrNotFound)
		case 1:
			return projects[0].Path, nil
		default:
			return "", ErrAmbiguous
		}
	}

	want := path
	if abs, err := filepath.Abs(path); err == nil {
		want = abs
	}
	for _, proj := range projects {
		if proj.Path == path || proj.Path == want {
			return proj.Path, nil
		}
	}
	for _, proj := range projects {
		if proj.Name == path || filepath.Base(proj.Path) == path {
			return proj.Path, nil
		}
	}
	return "", fmt.Errorf("project %q: %w", path, ErrNotFound)
}
