package pipeline

import "github.com/theirongolddev/gitlore/internal/model"

// Outcome is the heuristic result label of a prompt session.
type Outcome string

// Outcome labels. OutcomeReworked is reserved for upstream enrichment and is
// never produced by ClassifyOutcome.
const (
	OutcomeCompleted Outcome = "completed"
	OutcomePartial   Outcome = "partial"
	OutcomeAbandoned Outcome = "abandoned"
	OutcomeReworked  Outcome = "reworked"
)

// Outcomes lists the labels in display order.
var Outcomes = []Outcome{OutcomeCompleted, OutcomePartial, OutcomeAbandoned, OutcomeReworked}

// Label returns the display label.
func (o Outcome) Label() string {
	switch o {
	case OutcomeCompleted:
		return "Completed"
	case OutcomePartial:
		return "Partial"
	case OutcomeAbandoned:
		return "Abandoned"
	case OutcomeReworked:
		return "Reworked"
	}
	return string(o)
}

// Color returns the hex display color.
func (o Outcome) Color() string {
	switch o {
	case OutcomeCompleted:
		return "#34d399"
	case OutcomePartial:
		return "#fbbf24"
	case OutcomeAbandoned:
		return "#f87171"
	case OutcomeReworked:
		return "#60a5fa"
	}
	return model.NeutralColor
}

// ClassifyOutcome labels a session. First match wins:
// files written -> completed, tool calls -> partial, otherwise abandoned.
func ClassifyOutcome(s model.PromptSession) Outcome {
	if len(s.FilesWritten) > 0 {
		return OutcomeCompleted
	}
	if s.ToolCallCount > 0 {
		return OutcomePartial
	}
	return OutcomeAbandoned
}

// CountOutcomes classifies every session and tallies the labels.
func CountOutcomes(sessions []model.PromptSession) map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, s := range sessions {
		counts[ClassifyOutcome(s)]++
	}
	return counts
}

// CompletionRate is the completed fraction of sessions, 0 for none.
func CompletionRate(sessions []model.PromptSession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	return float64(CountOutcomes(sessions)[OutcomeCompleted]) / float64(len(sessions))
}
