package model

// PromptSession is one user prompt to the coding assistant together with the
// work it produced.
type PromptSession struct {
	SessionID              string     `json:"sessionId" yaml:"sessionId"`
	PromptText             string     `json:"promptText" yaml:"promptText"`
	Timestamp              string     `json:"timestamp" yaml:"timestamp"`
	TimeEnd                *string    `json:"timeEnd" yaml:"timeEnd"`
	AssociatedCommitHashes []string   `json:"associatedCommitHashes" yaml:"associatedCommitHashes"`
	AssociatedFeatureIDs   []int      `json:"associatedFeatureIds" yaml:"associatedFeatureIds"`
	SimilarityScore        float64    `json:"similarityScore" yaml:"similarityScore"`
	ScopeMatch             float64    `json:"scopeMatch" yaml:"scopeMatch"`
	Intent                 *string    `json:"intent" yaml:"intent"`
	FilesTouched           []string   `json:"filesTouched" yaml:"filesTouched"`
	FilesWritten           []string   `json:"filesWritten" yaml:"filesWritten"`
	ToolCallCount          int        `json:"toolCallCount" yaml:"toolCallCount"`
	Model                  *string    `json:"model" yaml:"model"`
	TokenUsage             TokenUsage `json:"tokenUsage" yaml:"tokenUsage"`
}

// TokenUsage holds the token counts for one prompt.
type TokenUsage struct {
	InputTokens     int64 `json:"inputTokens" yaml:"inputTokens"`
	OutputTokens    int64 `json:"outputTokens" yaml:"outputTokens"`
	CacheReadTokens int64 `json:"cacheReadTokens" yaml:"cacheReadTokens"`
}

// ModelName returns the model or "" when unknown.
func (s PromptSession) ModelName() string {
	if s.Model == nil {
		return ""
	}
	return *s.Model
}
