package model

// Analytics is the project-wide summary computed by the upstream pipeline.
//
// The trailing pointer fields are optional in the export. Read them through
// the accessor methods, which default to 0 when the field is absent.
type Analytics struct {
	TotalFeatures              int                `json:"totalFeatures" yaml:"totalFeatures"`
	TotalFunctionsModified     int                `json:"totalFunctionsModified" yaml:"totalFunctionsModified"`
	TotalPromptsDetected       int                `json:"totalPromptsDetected" yaml:"totalPromptsDetected"`
	ClaudeCodeCommitPercentage float64            `json:"claudeCodeCommitPercentage" yaml:"claudeCodeCommitPercentage"`
	AvgPromptSimilarity        float64            `json:"avgPromptSimilarity" yaml:"avgPromptSimilarity"`
	MostModifiedFiles          []string           `json:"mostModifiedFiles" yaml:"mostModifiedFiles"`
	MostModifiedFunctions      []string           `json:"mostModifiedFunctions" yaml:"mostModifiedFunctions"`
	ChangeTypeTotals           map[ChangeType]int `json:"changeTypeTotals" yaml:"changeTypeTotals"`
	VelocityByWeek             []WeekVelocity     `json:"velocityByWeek" yaml:"velocityByWeek"`

	IntentCompletion  *float64 `json:"intentCompletion,omitempty" yaml:"intentCompletion,omitempty"`
	RepromptRate      *float64 `json:"repromptRate,omitempty" yaml:"repromptRate,omitempty"`
	PatternCount      *int     `json:"patternCount,omitempty" yaml:"patternCount,omitempty"`
	EmbeddingCoverage *float64 `json:"embeddingCoverage,omitempty" yaml:"embeddingCoverage,omitempty"`
}

// WeekVelocity is one point of the weekly throughput series.
type WeekVelocity struct {
	Week     string `json:"week" yaml:"week"`
	Features int    `json:"features" yaml:"features"`
	Commits  int    `json:"commits" yaml:"commits"`
}

// IntentCompletionOrZero returns the upstream intent completion, or 0.
func (a Analytics) IntentCompletionOrZero() float64 { return derefFloat(a.IntentCompletion) }

// RepromptRateOrZero returns the upstream re-prompt rate, or 0.
func (a Analytics) RepromptRateOrZero() float64 { return derefFloat(a.RepromptRate) }

// EmbeddingCoverageOrZero returns the upstream embedding coverage, or 0.
func (a Analytics) EmbeddingCoverageOrZero() float64 { return derefFloat(a.EmbeddingCoverage) }

// PatternCountOrZero returns the upstream pattern count, or 0.
func (a Analytics) PatternCountOrZero() int {
	if a.PatternCount == nil {
		return 0
	}
	return *a.PatternCount
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
