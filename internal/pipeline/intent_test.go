package pipeline

import (
	"testing"

	"github.com/theirongolddev/gitlore/internal/model"
)

func TestSummarizeIntent(t *testing.T) {
	text := "migrate the settings page to the new form library"
	sessions := []model.PromptSession{
		{SessionID: "a", PromptText: text, FilesWritten: []string{"x"}, ToolCallCount: 3},
		{SessionID: "a", PromptText: text + " again", ToolCallCount: 2},
		{SessionID: "b", PromptText: "hello"},
		{SessionID: "b", PromptText: "write a changelog entry", ToolCallCount: 1},
	}

	stats := SummarizeIntent(sessions)
	if stats.TotalPrompts != 4 || stats.Sessions != 2 {
		t.Errorf("totals = %d prompts / %d sessions, want 4 / 2", stats.TotalPrompts, stats.Sessions)
	}
	if stats.Outcomes[OutcomeCompleted] != 1 || stats.Outcomes[OutcomePartial] != 2 || stats.Outcomes[OutcomeAbandoned] != 1 {
		t.Errorf("outcomes = %v", stats.Outcomes)
	}
	if stats.CompletionRate != 0.25 {
		t.Errorf("CompletionRate = %v, want 0.25", stats.CompletionRate)
	}
	if stats.Reprompts != 1 || stats.RepromptRate != 0.25 {
		t.Errorf("reprompts = %d (%v), want 1 (0.25)", stats.Reprompts, stats.RepromptRate)
	}
	if stats.AvgToolCalls != 1.5 {
		t.Errorf("AvgToolCalls = %v, want 1.5", stats.AvgToolCalls)
	}

	empty := SummarizeIntent(nil)
	if empty.CompletionRate != 0 || empty.RepromptRate != 0 || empty.AvgToolCalls != 0 {
		t.Errorf("empty stats = %+v, want zero rates", empty)
	}
}

func TestAnalyticsFallbacks(t *testing.T) {
	upstream := 0.9
	count := 7
	coverage := 0.42

	var commits []model.Commit
	for i := 0; i < 3; i++ {
		commits = append(commits, commitAt("t", "a.go", "b.go"))
	}
	p := &model.ProjectData{
		Commits: commits,
		PromptSessions: []model.PromptSession{
			{FilesWritten: []string{"a.go"}},
			{},
		},
		Analytics: model.Analytics{RepromptRate: &upstream},
	}

	if got := IntentCompletion(p); got != 0.5 {
		t.Errorf("IntentCompletion fallback = %v, want 0.5", got)
	}
	if got := PatternCount(p); got != 1 {
		t.Errorf("PatternCount fallback = %d, want 1", got)
	}
	if got := EmbeddingCoverage(p); got != 0 {
		t.Errorf("EmbeddingCoverage default = %v, want 0", got)
	}
	if got := RepromptRate(p.PromptSessions); got != 0 {
		t.Errorf("RepromptRate = %v, upstream value must be ignored", got)
	}

	p.Analytics.IntentCompletion = &upstream
	p.Analytics.PatternCount = &count
	p.Analytics.EmbeddingCoverage = &coverage
	if IntentCompletion(p) != 0.9 || PatternCount(p) != 7 || EmbeddingCoverage(p) != 0.42 {
		t.Errorf("upstream values not used: %v %v %v", IntentCompletion(p), PatternCount(p), EmbeddingCoverage(p))
	}
}
