package pipeline

import (
	"slices"

	"github.com/theirongolddev/gitlore/internal/model"
)

// TimelineFilter is a composable commit predicate. Every set constraint
// must pass; the zero value matches everything.
type TimelineFilter struct {
	Author        string
	ChangeTypes   []model.ChangeType
	AssistantOnly bool
	// Start and End bound the timestamp inclusively. They compare as strings,
	// which is only meaningful when all timestamps share one format and zone.
	Start string
	End   string
}

// IsZero reports whether no constraint is set.
func (f TimelineFilter) IsZero() bool {
	return f.Author == "" && len(f.ChangeTypes) == 0 && !f.AssistantOnly &&
		f.Start == "" && f.End == ""
}

// Match reports whether c passes every active constraint.
func (f TimelineFilter) Match(c model.Commit) bool {
	if f.Author != "" && c.AuthorName != f.Author {
		return false
	}
	if len(f.ChangeTypes) > 0 && !slices.Contains(f.ChangeTypes, c.ChangeType) {
		return false
	}
	if f.AssistantOnly && !c.IsClaudeCode {
		return false
	}
	if f.Start != "" && c.Timestamp < f.Start {
		return false
	}
	if f.End != "" && c.Timestamp > f.End {
		return false
	}
	return true
}

// Apply returns the matching commits in their original order.
func (f TimelineFilter) Apply(commits []model.Commit) []model.Commit {
	result := make([]model.Commit, 0, len(commits))
	for _, c := range commits {
		if f.Match(c) {
			result = append(result, c)
		}
	}
	return result
}

// Authors returns the distinct author names in first-seen order.
func Authors(commits []model.Commit) []string {
	seen := make(map[string]struct{})
	var authors []string
	for _, c := range commits {
		if _, ok := seen[c.AuthorName]; ok {
			continue
		}
		seen[c.AuthorName] = struct{}{}
		authors = append(authors, c.AuthorName)
	}
	return authors
}
