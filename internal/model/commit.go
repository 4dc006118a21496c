package model

// Commit is one extracted and classified git commit.
type Commit struct {
	Hash                 string       `json:"hash" yaml:"hash"`
	AuthorName           string       `json:"authorName" yaml:"authorName"`
	AuthorEmail          string       `json:"authorEmail" yaml:"authorEmail"`
	Timestamp            string       `json:"timestamp" yaml:"timestamp"`
	Subject              string       `json:"subject" yaml:"subject"`
	Body                 string       `json:"body" yaml:"body"`
	IsClaudeCode         bool         `json:"isClaudeCode" yaml:"isClaudeCode"`
	SessionID            *string      `json:"sessionId" yaml:"sessionId"`
	ChangeType           ChangeType   `json:"changeType" yaml:"changeType"`
	ChangeTypeConfidence float64      `json:"changeTypeConfidence" yaml:"changeTypeConfidence"`
	ClusterID            int          `json:"clusterId" yaml:"clusterId"`
	FilesChanged         []FileChange `json:"filesChanged" yaml:"filesChanged"`
}

// FileChange is one file touched by a commit.
type FileChange struct {
	Path         string           `json:"path" yaml:"path"`
	LinesAdded   int              `json:"linesAdded" yaml:"linesAdded"`
	LinesRemoved int              `json:"linesRemoved" yaml:"linesRemoved"`
	Functions    []FunctionChange `json:"functions" yaml:"functions"`
}

// FunctionChange is one function touched within a file change.
type FunctionChange struct {
	Name         string `json:"name" yaml:"name"`
	LinesAdded   int    `json:"linesAdded" yaml:"linesAdded"`
	LinesRemoved int    `json:"linesRemoved" yaml:"linesRemoved"`
	DiffText     string `json:"diffText" yaml:"diffText"`
}

// ShortHash returns the first 7 characters of the hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= 7 {
		return c.Hash
	}
	return c.Hash[:7]
}
