// Package store provides a SQLite-backed cache for imported project snapshots.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/gitlore/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a project has never been imported.
var ErrNotFound = errors.New("project not found")

// Cache provides SQLite-backed snapshot storage.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	for _, m := range columnMigrations {
		var n int
		err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", m.table, m.column).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.table, m.column, m.decl)); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveProject replaces a project snapshot, its prompt sessions and the
// tracking info of the export file it came from, in one transaction.
// Sessions are left alone once deleted, until SaveSessions stores new ones.
func (c *Cache) SaveProject(p *model.ProjectData, filePath string, mtimeNs, sizeBytes int64) error {
	if p.Repository.Path == "" {
		return errors.New("project has no repository path")
	}

	// Sessions live in their own table so they can be deleted independently.
	body := *p
	body.PromptSessions = nil
	data, err := json.Marshal(&body)
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := c.now().UTC().Format(time.RFC3339)
	repo := p.Repository
	_, err = tx.Exec(`INSERT INTO projects
		(path, name, file_path, total_commits, total_features, assistant_pct,
		 range_start, range_end, data_json, last_scanned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
		 name = excluded.name, file_path = excluded.file_path,
		 total_commits = excluded.total_commits, total_features = excluded.total_features,
		 assistant_pct = excluded.assistant_pct, range_start = excluded.range_start,
		 range_end = excluded.range_end, data_json = excluded.data_json,
		 last_scanned = excluded.last_scanned`,
		repo.Path, repo.Name, filePath, len(p.Commits), len(p.Features),
		p.Analytics.ClaudeCodeCommitPercentage, repo.DateRange.Start, repo.DateRange.End,
		string(data), now,
	)
	if err != nil {
		return fmt.Errorf("saving project: %w", err)
	}

	var deletedAt sql.NullString
	err = tx.QueryRow("SELECT sessions_deleted_at FROM projects WHERE path = ?", repo.Path).Scan(&deletedAt)
	if err != nil {
		return fmt.Errorf("reading session state: %w", err)
	}
	if !deletedAt.Valid {
		if err := replaceSessions(tx, repo.Path, p.PromptSessions); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, filePath, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// SaveSessions replaces the prompt sessions of an existing project and
// clears any deletion mark.
func (c *Cache) SaveSessions(projectPath string, sessions []model.PromptSession) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRow("SELECT COUNT(*) FROM projects WHERE path = ?", projectPath).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("saving sessions for %s: %w", projectPath, ErrNotFound)
	}

	if err := replaceSessions(tx, projectPath, sessions); err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE projects SET sessions_deleted_at = NULL WHERE path = ?", projectPath); err != nil {
		return fmt.Errorf("clearing deletion mark: %w", err)
	}
	return tx.Commit()
}

func replaceSessions(tx *sql.Tx, projectPath string, sessions []model.PromptSession) error {
	if _, err := tx.Exec("DELETE FROM prompt_sessions WHERE project_path = ?", projectPath); err != nil {
		return fmt.Errorf("clearing sessions: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO prompt_sessions
		(project_path, seq, session_id, timestamp, model,
		 input_tokens, output_tokens, cache_read_tokens, data_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, s := range sessions {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encoding session %s: %w", s.SessionID, err)
		}
		u := s.TokenUsage
		_, err = stmt.Exec(projectPath, i, s.SessionID, s.Timestamp, s.ModelName(),
			u.InputTokens, u.OutputTokens, u.CacheReadTokens, string(data))
		if err != nil {
			return fmt.Errorf("saving session %s: %w", s.SessionID, err)
		}
	}
	return nil
}

// LoadProject reads a project snapshot with its prompt sessions.
func (c *Cache) LoadProject(projectPath string) (*model.ProjectData, error) {
	var data string
	err := c.db.QueryRow("SELECT data_json FROM projects WHERE path = ?", projectPath).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading %s: %w", projectPath, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", projectPath, err)
	}

	var p model.ProjectData
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", projectPath, err)
	}

	p.PromptSessions, err = c.LoadSessions(projectPath)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadSessions reads a project's prompt sessions in import order.
func (c *Cache) LoadSessions(projectPath string) ([]model.PromptSession, error) {
	rows, err := c.db.Query(`SELECT data_json FROM prompt_sessions
		WHERE project_path = ? ORDER BY seq`, projectPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]model.PromptSession, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var s model.PromptSession
		if err := json.Unmarshal([]byte(data), &s); err != nil {
			return nil, fmt.Errorf("decoding session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteSessions removes every prompt session of a project and returns how
// many were removed. The project is marked so re-imports of its export do
// not bring the sessions back.
func (c *Cache) DeleteSessions(projectPath string) (int, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec("DELETE FROM prompt_sessions WHERE project_path = ?", projectPath)
	if err != nil {
		return 0, fmt.Errorf("deleting sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	now := c.now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec("UPDATE projects SET sessions_deleted_at = ? WHERE path = ?", now, projectPath); err != nil {
		return 0, fmt.Errorf("marking sessions deleted: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(n), nil
}

// ListProjects returns every stored project, most recently scanned first.
func (c *Cache) ListProjects() ([]model.ProjectSummary, error) {
	rows, err := c.db.Query(`SELECT path, name, last_scanned, total_commits,
		total_features, assistant_pct
		FROM projects ORDER BY last_scanned DESC, path`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var projects []model.ProjectSummary
	for rows.Next() {
		var p model.ProjectSummary
		err := rows.Scan(&p.Path, &p.Name, &p.LastScanned, &p.TotalCommits,
			&p.TotalFeatures, &p.AssistantPercentage)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ProjectFile returns the export file a project was last imported from.
func (c *Cache) ProjectFile(projectPath string) (string, error) {
	var file string
	err := c.db.QueryRow("SELECT file_path FROM projects WHERE path = ?", projectPath).Scan(&file)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return file, err
}

// DeleteFileTracker removes a file tracking entry.
func (c *Cache) DeleteFileTracker(filePath string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}

// ProjectCount returns the number of stored projects.
func (c *Cache) ProjectCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}
