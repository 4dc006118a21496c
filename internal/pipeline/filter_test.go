package pipeline

import (
	"testing"

	"github.com/theirongolddev/gitlore/internal/model"
)

func timelineCommits() []model.Commit {
	return []model.Commit{
		{Hash: "a", AuthorName: "ana", Timestamp: "2025-01-01T10:00:00Z", ChangeType: model.NewFeature, IsClaudeCode: true},
		{Hash: "b", AuthorName: "bo", Timestamp: "2025-01-02T10:00:00Z", ChangeType: model.BugFix},
		{Hash: "c", AuthorName: "ana", Timestamp: "2025-01-03T10:00:00Z", ChangeType: model.BugFix, IsClaudeCode: true},
		{Hash: "d", AuthorName: "bo", Timestamp: "2025-01-04T10:00:00Z", ChangeType: "chore"},
	}
}

func hashes(commits []model.Commit) string {
	s := ""
	for _, c := range commits {
		s += c.Hash
	}
	return s
}

func TestTimelineFilter_Apply(t *testing.T) {
	commits := timelineCommits()

	tests := []struct {
		name   string
		filter TimelineFilter
		want   string
	}{
		{"zero filter", TimelineFilter{}, "abcd"},
		{"author", TimelineFilter{Author: "ana"}, "ac"},
		{"change types", TimelineFilter{ChangeTypes: []model.ChangeType{model.BugFix, "chore"}}, "bcd"},
		{"assistant only", TimelineFilter{AssistantOnly: true}, "ac"},
		{"inclusive range", TimelineFilter{Start: "2025-01-02T10:00:00Z", End: "2025-01-03T10:00:00Z"}, "bc"},
		{"combined", TimelineFilter{Author: "ana", ChangeTypes: []model.ChangeType{model.BugFix}, AssistantOnly: true}, "c"},
		{"no match", TimelineFilter{Author: "zed"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(commits)
			if hashes(got) != tt.want {
				t.Errorf("Apply = %q, want %q", hashes(got), tt.want)
			}
			for _, c := range got {
				if !tt.filter.Match(c) {
					t.Errorf("Apply kept %s which does not match", c.Hash)
				}
			}
		})
	}

	if !(TimelineFilter{}).IsZero() || (TimelineFilter{End: "x"}).IsZero() {
		t.Error("IsZero misreports")
	}
}

func TestAuthors(t *testing.T) {
	got := Authors(timelineCommits())
	if len(got) != 2 || got[0] != "ana" || got[1] != "bo" {
		t.Errorf("Authors = %v, want [ana bo]", got)
	}
}
