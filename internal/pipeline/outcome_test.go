package pipeline

import (
	"testing"

	"github.com/theirongolddev/gitlore/internal/model"
)

func TestClassifyOutcome(t *testing.T) {
	tests := []struct {
		name string
		s    model.PromptSession
		want Outcome
	}{
		{"files written wins", model.PromptSession{FilesWritten: []string{"a.go"}, ToolCallCount: 4}, OutcomeCompleted},
		{"files written without tools", model.PromptSession{FilesWritten: []string{"a.go"}}, OutcomeCompleted},
		{"tools only", model.PromptSession{ToolCallCount: 2, FilesTouched: []string{"a.go"}}, OutcomePartial},
		{"nothing", model.PromptSession{}, OutcomeAbandoned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyOutcome(tt.s); got != tt.want {
				t.Errorf("ClassifyOutcome = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCountOutcomesAndCompletionRate(t *testing.T) {
	sessions := []model.PromptSession{
		{FilesWritten: []string{"a"}},
		{FilesWritten: []string{"b"}},
		{ToolCallCount: 1},
		{},
	}
	counts := CountOutcomes(sessions)
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != len(sessions) {
		t.Errorf("sum of outcomes = %d, want %d", total, len(sessions))
	}
	if counts[OutcomeReworked] != 0 {
		t.Errorf("reworked = %d, never produced by the classifier", counts[OutcomeReworked])
	}

	if got := CompletionRate(sessions); got != 0.5 {
		t.Errorf("CompletionRate = %v, want 0.5", got)
	}
	if got := CompletionRate(nil); got != 0 {
		t.Errorf("CompletionRate(nil) = %v, want 0", got)
	}
}

func TestOutcomeColors(t *testing.T) {
	want := map[Outcome]string{
		OutcomeCompleted: "#34d399",
		OutcomePartial:   "#fbbf24",
		OutcomeAbandoned: "#f87171",
		OutcomeReworked:  "#60a5fa",
	}
	for o, c := range want {
		if o.Color() != c {
			t.Errorf("%s.Color() = %q, want %q", o, o.Color(), c)
		}
	}
}
