// Package snapshot owns the active project snapshot and swaps it atomically
// when the upstream collaborator produces a new one.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

// ErrNoProject is returned by operations that need an active snapshot
// before one has been installed.
var ErrNoProject = errors.New("no project loaded")

// ErrProjectChanged is returned when a different repository was installed
// while a session operation was in flight.
var ErrProjectChanged = errors.New("active project changed")

// Collaborator is the upstream extraction stage.
type Collaborator interface {
	// Scan produces a full snapshot for the repository at path.
	Scan(ctx context.Context, path string) (*model.ProjectData, error)
	// FetchSessions re-reads prompt sessions for the repository at path.
	FetchSessions(ctx context.Context, path string) ([]model.PromptSession, error)
	// DeleteSessions discards stored prompt sessions and returns how many.
	DeleteSessions(ctx context.Context, path string) (int, error)
}

// RefreshError reports a failed collaborator call. The active snapshot is
// unchanged when one is returned.
type RefreshError struct {
	Op   string
	Path string
	Err  error
}

func (e *RefreshError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Recoverable reports whether the caller can keep using the previous
// snapshot. Collaborator failures always leave it intact.
func (e *RefreshError) Recoverable() bool { return true }

// Manager holds the active snapshot. Readers get a consistent *ProjectData
// that is never mutated; writers replace the pointer in one step.
type Manager struct {
	collab Collaborator
	log    logrus.FieldLogger
	memo   *pipeline.Memo

	mu        sync.RWMutex
	active    *model.ProjectData
	path      string
	loadedAt  time.Time
	lastErr   error
	listeners []func(*model.ProjectData)
}

// NewManager returns a manager with no active snapshot.
func NewManager(collab Collaborator, log logrus.FieldLogger) *Manager {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Manager{
		collab: collab,
		log:    log.WithField("component", "snapshot"),
		memo:   pipeline.NewMemo(),
	}
}

// Active returns the current snapshot, or nil before the first install.
func (m *Manager) Active() *model.ProjectData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Path returns the repository path of the active snapshot.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// LoadedAt returns when the active snapshot was installed.
func (m *Manager) LoadedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadedAt
}

// LastError returns the most recent collaborator failure, cleared by the
// next successful call.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// Memo returns the derivation cache shared by readers of this manager.
func (m *Manager) Memo() *pipeline.Memo { return m.memo }

// OnInstall registers fn to be called after every successful install.
func (m *Manager) OnInstall(fn func(*model.ProjectData)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Install makes p the active snapshot.
func (m *Manager) Install(p *model.ProjectData) {
	m.mu.Lock()
	listeners := m.setActive(p)
	m.mu.Unlock()
	m.notify(listeners, p)
}

// installSessions swaps sessions into whatever snapshot is active now, so a
// scan that finished meanwhile keeps its commits. It fails if the active
// repository is no longer path.
func (m *Manager) installSessions(op, path string, sessions []model.PromptSession) (*model.ProjectData, error) {
	m.mu.Lock()
	cur := m.active
	if cur == nil || cur.Repository.Path != path {
		m.mu.Unlock()
		return nil, m.fail(op, path, ErrProjectChanged)
	}
	next := cur.WithSessions(sessions)
	listeners := m.setActive(next)
	m.mu.Unlock()
	m.notify(listeners, next)
	return next, nil
}

// setActive requires m.mu held and returns the listeners to notify.
func (m *Manager) setActive(p *model.ProjectData) []func(*model.ProjectData) {
	m.active = p
	m.path = p.Repository.Path
	m.loadedAt = time.Now()
	m.lastErr = nil
	return append([]func(*model.ProjectData){}, m.listeners...)
}

func (m *Manager) notify(listeners []func(*model.ProjectData), p *model.ProjectData) {
	for _, fn := range listeners {
		fn(p)
	}
}

func (m *Manager) fail(op, path string, err error) error {
	rerr := &RefreshError{Op: op, Path: path, Err: err}
	m.mu.Lock()
	m.lastErr = rerr
	m.mu.Unlock()
	m.log.WithFields(logrus.Fields{"op": op, "path": path}).WithError(err).Warn("collaborator call failed")
	return rerr
}

// Scan asks the collaborator for a fresh snapshot of path and installs it.
func (m *Manager) Scan(ctx context.Context, path string) (*model.ProjectData, error) {
	p, err := m.collab.Scan(ctx, path)
	if err == nil && p == nil {
		err = errors.New("collaborator returned no snapshot")
	}
	if err != nil {
		return nil, m.fail("scan", path, err)
	}
	m.Install(p)
	m.log.WithFields(logrus.Fields{
		"path":     p.Repository.Path,
		"commits":  len(p.Commits),
		"features": len(p.Features),
		"prompts":  len(p.PromptSessions),
	}).Info("snapshot installed")
	return p, nil
}

// RefreshSessions replaces the prompt sessions of the active snapshot with a
// fresh read. Everything else is carried over unchanged.
func (m *Manager) RefreshSessions(ctx context.Context) (*model.ProjectData, error) {
	cur := m.Active()
	if cur == nil {
		return nil, m.fail("refresh sessions", "", ErrNoProject)
	}
	path := cur.Repository.Path

	sessions, err := m.collab.FetchSessions(ctx, path)
	if err != nil {
		return nil, m.fail("refresh sessions", path, err)
	}
	return m.installSessions("refresh sessions", path, sessions)
}

// DeleteSessions discards the prompt sessions of the active snapshot and
// installs a snapshot with none. It returns the collaborator's count.
func (m *Manager) DeleteSessions(ctx context.Context) (int, error) {
	cur := m.Active()
	if cur == nil {
		return 0, m.fail("delete sessions", "", ErrNoProject)
	}
	path := cur.Repository.Path

	n, err := m.collab.DeleteSessions(ctx, path)
	if err != nil {
		return 0, m.fail("delete sessions", path, err)
	}
	if _, err := m.installSessions("delete sessions", path, []model.PromptSession{}); err != nil {
		return 0, err
	}
	return n, nil
}
