package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
    path                 TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    file_path            TEXT NOT NULL,
    total_commits        INTEGER NOT NULL DEFAULT 0,
    total_features       INTEGER NOT NULL DEFAULT 0,
    assistant_pct        REAL NOT NULL DEFAULT 0,
    range_start          TEXT,
    range_end            TEXT,
    data_json            TEXT NOT NULL,
    last_scanned         TEXT NOT NULL,
    sessions_deleted_at  TEXT
);

CREATE TABLE IF NOT EXISTS prompt_sessions (
    project_path         TEXT NOT NULL REFERENCES projects(path) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    session_id           TEXT NOT NULL,
    timestamp            TEXT,
    model                TEXT,
    input_tokens         INTEGER,
    output_tokens        INTEGER,
    cache_read_tokens    INTEGER,
    data_json            TEXT NOT NULL,
    PRIMARY KEY (project_path, seq)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_prompt_sessions_session ON prompt_sessions(project_path, session_id);
CREATE INDEX IF NOT EXISTS idx_projects_scanned ON projects(last_scanned);
`

// columnMigrations adds columns introduced after a table was first created.
var columnMigrations = []struct {
	table, column, decl string
}{
	{"projects", "sessions_deleted_at", "TEXT"},
}
