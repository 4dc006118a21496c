// Package source discovers and imports repository snapshot exports.
package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/gitlore/internal/model"
)

// ParseResult holds the output of parsing a single export file.
type ParseResult struct {
	Data *model.ProjectData
	// Issues are non-fatal problems such as features that fail validation.
	Issues []string
	Err    error
}

// ParseFile decodes a snapshot export. Features that violate their
// invariants are kept but reported as issues. A missing repository path
// falls back to the export file path so every project has a stable key.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	var data model.ProjectData
	dec := json.NewDecoder(bufio.NewReaderSize(f, 256*1024))
	if err := dec.Decode(&data); err != nil {
		return ParseResult{Err: fmt.Errorf("decoding %s: %w", df.Path, err)}
	}

	var issues []string
	for _, feat := range data.Features {
		if err := feat.Validate(); err != nil {
			issues = append(issues, err.Error())
		}
	}

	if data.Repository.Path == "" {
		data.Repository.Path = df.Path
		issues = append(issues, "export has no repository path")
	}
	if data.Repository.Name == "" {
		data.Repository.Name = df.Project
	}
	if data.PromptSessions == nil {
		data.PromptSessions = []model.PromptSession{}
	}

	return ParseResult{Data: &data, Issues: issues}
}

// ParseSessionsFile decodes a sidecar file holding a JSON array of prompt
// sessions.
func ParseSessionsFile(path string) ([]model.PromptSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sessions := make([]model.PromptSession, 0)
	if err := json.NewDecoder(f).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return sessions, nil
}

// PeekRepository reads only the top-level "repository" object of an export.
// Exports put it first, so this avoids decoding the full commit history.
func PeekRepository(path string) (model.Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Repository{}, err
	}
	defer func() { _ = f.Close() }()
	return peekRepository(f)
}

func peekRepository(r io.Reader) (model.Repository, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return model.Repository{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return model.Repository{}, fmt.Errorf("export is not a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return model.Repository{}, err
		}
		key, _ := tok.(string)
		if key == "repository" {
			var repo model.Repository
			if err := dec.Decode(&repo); err != nil {
				return model.Repository{}, fmt.Errorf("decoding repository: %w", err)
			}
			return repo, nil
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return model.Repository{}, err
		}
	}
	return model.Repository{}, fmt.Errorf("export has no repository object")
}
