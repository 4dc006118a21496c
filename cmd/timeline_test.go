package cmd

import (
	"testing"

	"github.com/theirongolddev/gitlore/internal/model"
)

func TestTimelineFilterFromFlags(t *testing.T) {
	t.Cleanup(func() {
		flagTimelineAuthor, flagTimelineTypes, flagTimelineUntil = "", nil, ""
	})

	flagTimelineAuthor = "ana"
	flagTimelineTypes = []string{"bug_fix", "refactor"}
	flagTimelineUntil = "2025-06-30"

	f, err := timelineFilter()
	if err != nil {
		t.Fatal(err)
	}
	if len(f.ChangeTypes) != 2 || f.ChangeTypes[0] != model.BugFix {
		t.Errorf("ChangeTypes = %v", f.ChangeTypes)
	}

	late := model.Commit{AuthorName: "ana", ChangeType: model.BugFix, Timestamp: "2025-06-30T23:10:00Z"}
	if !f.Match(late) {
		t.Error("a bare --until date should include the whole day")
	}
	next := late
	next.Timestamp = "2025-07-01T00:00:00Z"
	if f.Match(next) {
		t.Error("commit after --until matched")
	}

	flagTimelineTypes = []string{"chore"}
	if _, err := timelineFilter(); err == nil {
		t.Error("unknown change type should be rejected")
	}
}
