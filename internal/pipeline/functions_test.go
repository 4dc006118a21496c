package pipeline

import (
	"testing"

	"github.com/theirongolddev/gitlore/internal/model"
)

func functionCommits() []model.Commit {
	return []model.Commit{
		{
			Hash: "bbb2222", Timestamp: "2025-02-02T00:00:00Z", Subject: "Tune parser",
			FilesChanged: []model.FileChange{
				{Path: "parse.go", Functions: []model.FunctionChange{{Name: "Parse", LinesAdded: 4}}},
			},
		},
		{
			Hash: "aaa1111", Timestamp: "2025-01-01T00:00:00Z", Subject: "Add parser",
			FilesChanged: []model.FileChange{
				{Path: "parse.go", Functions: []model.FunctionChange{{Name: "Parse", LinesAdded: 20}, {Name: "lex"}}},
				{Path: "main.go", Functions: []model.FunctionChange{{Name: "main"}}},
			},
		},
	}
}

func TestFunctionTree(t *testing.T) {
	tree := FunctionTree(functionCommits())
	if len(tree) != 2 {
		t.Fatalf("len(tree) = %d, want 2", len(tree))
	}
	if tree[0].Path != "parse.go" || len(tree[0].Functions) != 2 {
		t.Errorf("tree[0] = %+v, want parse.go with Parse and lex", tree[0])
	}
	if tree[1].Path != "main.go" || tree[1].Functions[0] != "main" {
		t.Errorf("tree[1] = %+v", tree[1])
	}
}

func TestFunctionHistory(t *testing.T) {
	mods := FunctionHistory(functionCommits(), "Parse", "parse.go")
	if len(mods) != 2 {
		t.Fatalf("len(mods) = %d, want 2", len(mods))
	}
	if mods[0].Commit.Hash != "aaa1111" || mods[0].LinesAdded != 20 {
		t.Errorf("oldest modification = %+v", mods[0])
	}
	if got := FunctionHistory(functionCommits(), "Parse", "main.go"); len(got) != 0 {
		t.Errorf("history in wrong file = %d entries, want 0", len(got))
	}
	if got := FunctionHistory(functionCommits(), "main", ""); len(got) != 1 {
		t.Errorf("history in any file = %d entries, want 1", len(got))
	}
}

func TestSearch(t *testing.T) {
	narrative := "Introduces a hand-written PARSER"
	p := &model.ProjectData{
		Commits: functionCommits(),
		Features: []model.Feature{
			{Title: "Config loader"},
			{Title: "Grammar", Narrative: &narrative},
		},
		PromptSessions: []model.PromptSession{
			{PromptText: "Speed up the Parser please"},
			{PromptText: "update readme"},
		},
	}

	res := Search(p, "  parser ")
	if len(res.Commits) != 2 || len(res.Features) != 1 || len(res.Prompts) != 1 {
		t.Errorf("Search = %d commits, %d features, %d prompts", len(res.Commits), len(res.Features), len(res.Prompts))
	}
	if res.Total() != 4 {
		t.Errorf("Total = %d, want 4", res.Total())
	}

	if got := Search(p, "aaa1"); len(got.Commits) != 1 {
		t.Errorf("hash prefix search found %d commits, want 1", len(got.Commits))
	}
	if got := Search(p, "main.go"); len(got.Commits) != 1 {
		t.Errorf("path search found %d commits, want 1", len(got.Commits))
	}
	if got := Search(p, "   "); got.Total() != 0 {
		t.Errorf("blank query matched %d items", got.Total())
	}
}

func TestSortFeaturesByStart(t *testing.T) {
	features := []model.Feature{
		{ClusterID: 1, TimeStart: "2025-01-01T00:00:00Z"},
		{ClusterID: 2, TimeStart: "bogus"},
		{ClusterID: 3, TimeStart: "2025-03-01T00:00:00Z"},
	}
	got := SortFeaturesByStart(features)
	if got[0].ClusterID != 3 || got[1].ClusterID != 1 || got[2].ClusterID != 2 {
		t.Errorf("order = %d,%d,%d, want 3,1,2", got[0].ClusterID, got[1].ClusterID, got[2].ClusterID)
	}
	if features[0].ClusterID != 1 {
		t.Error("SortFeaturesByStart mutated its input")
	}
}
