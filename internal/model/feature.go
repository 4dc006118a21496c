package model

import "fmt"

// Feature is a cluster of commits forming one logical unit of work.
type Feature struct {
	ClusterID              int                `json:"clusterId" yaml:"clusterId"`
	Title                  string             `json:"title" yaml:"title"`
	AutoLabel              string             `json:"autoLabel" yaml:"autoLabel"`
	Narrative              *string            `json:"narrative" yaml:"narrative"`
	Intent                 *string            `json:"intent" yaml:"intent"`
	KeyDecisions           []string           `json:"keyDecisions" yaml:"keyDecisions"`
	CommitHashes           []string           `json:"commitHashes" yaml:"commitHashes"`
	TimeStart              string             `json:"timeStart" yaml:"timeStart"`
	TimeEnd                string             `json:"timeEnd" yaml:"timeEnd"`
	FunctionsTouched       []string           `json:"functionsTouched" yaml:"functionsTouched"`
	TotalLinesAdded        int                `json:"totalLinesAdded" yaml:"totalLinesAdded"`
	TotalLinesRemoved      int                `json:"totalLinesRemoved" yaml:"totalLinesRemoved"`
	PrimaryFiles           []string           `json:"primaryFiles" yaml:"primaryFiles"`
	ChangeTypeDistribution map[ChangeType]int `json:"changeTypeDistribution" yaml:"changeTypeDistribution"`
	Dependencies           []int              `json:"dependencies" yaml:"dependencies"`
	SubFeatures            []SubFeature       `json:"subFeatures" yaml:"subFeatures"`
}

// SubFeature is one prompt's contribution to a feature.
type SubFeature struct {
	PromptText   string     `json:"promptText" yaml:"promptText"`
	SessionID    string     `json:"sessionId" yaml:"sessionId"`
	PromptIndex  int        `json:"promptIndex" yaml:"promptIndex"`
	Timestamp    string     `json:"timestamp" yaml:"timestamp"`
	TimeEnd      *string    `json:"timeEnd" yaml:"timeEnd"`
	CommitHashes []string   `json:"commitHashes" yaml:"commitHashes"`
	FilesWritten []string   `json:"filesWritten" yaml:"filesWritten"`
	LinesAdded   int        `json:"linesAdded" yaml:"linesAdded"`
	LinesRemoved int        `json:"linesRemoved" yaml:"linesRemoved"`
	ChangeType   ChangeType `json:"changeType" yaml:"changeType"`
	Model        *string    `json:"model" yaml:"model"`
}

// DisplayTitle returns the title, falling back to the auto label.
func (f Feature) DisplayTitle() string {
	if f.Title != "" {
		return f.Title
	}
	return f.AutoLabel
}

// Validate checks the materialized-feature invariants: at least one commit,
// and a change type distribution summing to the commit count.
func (f Feature) Validate() error {
	if len(f.CommitHashes) == 0 {
		return fmt.Errorf("feature %d has no commits", f.ClusterID)
	}
	sum := 0
	for _, n := range f.ChangeTypeDistribution {
		sum += n
	}
	if sum != len(f.CommitHashes) {
		return fmt.Errorf("feature %d change type distribution sums to %d, want %d",
			f.ClusterID, sum, len(f.CommitHashes))
	}
	return nil
}
