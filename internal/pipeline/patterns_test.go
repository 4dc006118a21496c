package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/gitlore/internal/model"
)

func TestBuildPatterns(t *testing.T) {
	p := &model.ProjectData{
		Repository: model.Repository{LanguagesDetected: []string{"Go", "TypeScript"}},
		Commits: []model.Commit{
			commitAt("2025-06-02T09:00:00Z", "a.go", "b.go"),
			commitAt("2025-06-02T09:30:00Z", "a.go", "b.go"),
			commitAt("2025-06-03T21:00:00Z", "a.go", "b.go", "c.go"),
		},
		PromptSessions: []model.PromptSession{{}, {}},
		Analytics:      model.Analytics{ClaudeCodeCommitPercentage: 66.7},
	}

	got := BuildPatterns(p, DefaultPeakHours, time.UTC)
	if got.Hours[9] != 2 || got.Hours[21] != 1 {
		t.Errorf("Hours = %v", got.Hours)
	}
	if len(got.PeakHours) != 2 || got.PeakHours[0] != 9 || got.PeakHours[1] != 21 {
		t.Errorf("PeakHours = %v, want [9 21]", got.PeakHours)
	}
	if got.AvgGranularity != 2.3 {
		t.Errorf("AvgGranularity = %v, want 2.3", got.AvgGranularity)
	}
	if len(got.Couplings) != 1 || got.Couplings[0].Count != 3 {
		t.Errorf("Couplings = %+v", got.Couplings)
	}
	if got.Profile.TotalCommits != 3 || got.Profile.TotalSessions != 2 || got.Profile.AssistantPercentage != 66.7 {
		t.Errorf("Profile = %+v", got.Profile)
	}
}

func TestMaxCount(t *testing.T) {
	if got := MaxCount(nil); got != 1 {
		t.Errorf("MaxCount(nil) = %d, want 1", got)
	}
	if got := MaxCount([]int{0, 4, 2}); got != 4 {
		t.Errorf("MaxCount = %d, want 4", got)
	}
}
