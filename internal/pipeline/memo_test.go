package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/gitlore/internal/model"
)

func TestMemo_ReusesPerSnapshot(t *testing.T) {
	snap := &model.ProjectData{Commits: []model.Commit{
		commitAt("1", "a", "b"), commitAt("2", "a", "b"), commitAt("3", "a", "b"),
	}}
	m := NewMemo()

	first := m.Couplings(snap)
	second := m.Couplings(snap)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("couplings = %v / %v", first, second)
	}
	if hits, misses := m.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1 / 1", hits, misses)
	}

	// Different parameters are separate entries.
	m.Groups(snap, GroupByDay, time.UTC)
	m.Groups(snap, GroupByMonth, time.UTC)
	if _, misses := m.Stats(); misses != 3 {
		t.Errorf("misses = %d, want 3", misses)
	}
}

func TestMemo_DropsOnNewSnapshot(t *testing.T) {
	old := &model.ProjectData{PromptSessions: []model.PromptSession{{FilesWritten: []string{"x"}}}}
	m := NewMemo()
	if got := m.Intent(old).CompletionRate; got != 1 {
		t.Fatalf("CompletionRate = %v, want 1", got)
	}

	next := old.WithSessions([]model.PromptSession{{}, {}})
	if got := m.Intent(next).CompletionRate; got != 0 {
		t.Errorf("CompletionRate after swap = %v, want 0 (stale entry served)", got)
	}
	if got := len(m.Timeline(next, TimelineFilter{})); got != 0 {
		t.Errorf("Timeline = %d commits, want 0", got)
	}
	if len(old.PromptSessions) != 1 {
		t.Error("WithSessions mutated the previous snapshot")
	}
}
