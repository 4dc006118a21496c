package pipeline

import (
	"math"

	"github.com/theirongolddev/gitlore/internal/model"
)

// IntentStats summarizes how prompts turned into work.
type IntentStats struct {
	TotalPrompts   int             `json:"totalPrompts" yaml:"totalPrompts"`
	Outcomes       map[Outcome]int `json:"outcomes" yaml:"outcomes"`
	CompletionRate float64         `json:"completionRate" yaml:"completionRate"`
	Reprompts      int             `json:"reprompts" yaml:"reprompts"`
	RepromptRate   float64         `json:"repromptRate" yaml:"repromptRate"`
	AvgToolCalls   float64         `json:"avgToolCalls" yaml:"avgToolCalls"`
	Sessions       int             `json:"sessions" yaml:"sessions"` // distinct session ids
}

// SummarizeIntent computes outcome, completion and re-prompt figures from the
// raw sessions.
func SummarizeIntent(sessions []model.PromptSession) IntentStats {
	stats := IntentStats{
		TotalPrompts: len(sessions),
		Outcomes:     CountOutcomes(sessions),
		Reprompts:    CountReprompts(sessions),
	}

	ids := make(map[string]struct{})
	toolCalls := 0
	for _, s := range sessions {
		toolCalls += s.ToolCallCount
		ids[s.SessionID] = struct{}{}
	}
	stats.Sessions = len(ids)

	if stats.TotalPrompts > 0 {
		n := float64(stats.TotalPrompts)
		stats.CompletionRate = float64(stats.Outcomes[OutcomeCompleted]) / n
		stats.RepromptRate = float64(stats.Reprompts) / n
		stats.AvgToolCalls = math.Round(float64(toolCalls)/n*10) / 10
	}
	return stats
}

// RepromptRate is the canonical re-prompt rate: the raw-session heuristic.
// Any upstream Analytics.RepromptRate is ignored.
func RepromptRate(sessions []model.PromptSession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	return float64(CountReprompts(sessions)) / float64(len(sessions))
}

// IntentCompletion returns the upstream intent completion when supplied,
// otherwise the completion rate of the raw sessions.
func IntentCompletion(p *model.ProjectData) float64 {
	if p.Analytics.IntentCompletion != nil {
		return p.Analytics.IntentCompletionOrZero()
	}
	return CompletionRate(p.PromptSessions)
}

// PatternCount returns the upstream pattern count when supplied, otherwise
// the number of recurring file couplings.
func PatternCount(p *model.ProjectData) int {
	if p.Analytics.PatternCount != nil {
		return p.Analytics.PatternCountOrZero()
	}
	return len(FileCouplings(p.Commits))
}

// EmbeddingCoverage has no raw-data fallback and defaults to 0.
func EmbeddingCoverage(p *model.ProjectData) float64 {
	return p.Analytics.EmbeddingCoverageOrZero()
}
