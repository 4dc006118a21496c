package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/gitlore/internal/model"
)

func sampleProject() *model.ProjectData {
	narrative := "Adds OAuth | SSO login."
	upstream := 0.75
	commits := []model.Commit{}
	for i := 0; i < 3; i++ {
		commits = append(commits, model.Commit{
			Timestamp:    "2025-06-02T14:00:00Z",
			ChangeType:   model.NewFeature,
			FilesChanged: []model.FileChange{{Path: "auth.go"}, {Path: "login.go"}},
		})
	}
	return &model.ProjectData{
		Repository: model.Repository{Path: "/src/app", Name: "app", LanguagesDetected: []string{"Go"}},
		Commits:    commits,
		Features: []model.Feature{
			{ClusterID: 1, Title: "Old", TimeStart: "2025-01-01T00:00:00Z", CommitHashes: []string{"a"},
				ChangeTypeDistribution: map[model.ChangeType]int{model.BugFix: 1}},
			{ClusterID: 2, Title: "Login", TimeStart: "2025-06-01T00:00:00Z", CommitHashes: []string{"b", "c"},
				Narrative: &narrative, ChangeTypeDistribution: map[model.ChangeType]int{model.NewFeature: 2}},
		},
		PromptSessions: []model.PromptSession{
			{SessionID: "s", FilesWritten: []string{"auth.go"}, ToolCallCount: 2},
			{SessionID: "s", ToolCallCount: 1},
		},
		Analytics: model.Analytics{
			ClaudeCodeCommitPercentage: 40,
			IntentCompletion:           &upstream,
			VelocityByWeek:             []model.WeekVelocity{{Week: "2025-W23", Features: 1, Commits: 3}},
		},
	}
}

func buildSample() Report {
	return Build(sampleProject(), Options{Location: time.UTC, Now: time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)})
}

func TestBuild(t *testing.T) {
	r := buildSample()
	if r.Metrics.IntentCompletion != 0.75 {
		t.Errorf("IntentCompletion = %v, want upstream 0.75", r.Metrics.IntentCompletion)
	}
	if r.Metrics.PatternCount != 1 {
		t.Errorf("PatternCount = %d, want coupling fallback 1", r.Metrics.PatternCount)
	}
	if len(r.Features) != 2 || r.Features[0].Title != "Login" || r.Features[0].Dominant != model.NewFeature {
		t.Errorf("features = %+v, want Login first", r.Features)
	}
	if r.Intent.CompletionRate != 0.5 {
		t.Errorf("Intent.CompletionRate = %v, want 0.5", r.Intent.CompletionRate)
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(buildSample())
	for _, want := range []string{
		"# app",
		"| Intent completion | 75.0% |",
		"- Peak hours: 2 PM",
		"- Busiest day: Mon (3 commits)",
		"| `auth.go` | `login.go` | 3 |",
		"| Feature | 3 | 100.0% |",
		"| Completed | 1 |",
		"### Login",
		`Adds OAuth | SSO login.`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
	if strings.Index(md, "### Login") > strings.Index(md, "### Old") {
		t.Error("features not ordered newest first")
	}
}

func TestWrite_Formats(t *testing.T) {
	r := buildSample()

	var js bytes.Buffer
	if err := Write(&js, r, FormatJSON, 0); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("json output invalid: %v", err)
	}
	if _, ok := decoded["patterns"]; !ok {
		t.Error("json output missing patterns")
	}

	var ym bytes.Buffer
	if err := Write(&ym, r, FormatYAML, 0); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var back struct {
		Metrics Metrics `yaml:"metrics"`
	}
	if err := yaml.Unmarshal(ym.Bytes(), &back); err != nil {
		t.Fatalf("yaml output invalid: %v", err)
	}
	if back.Metrics.Commits != 3 {
		t.Errorf("yaml metrics.commits = %d, want 3", back.Metrics.Commits)
	}

	var term bytes.Buffer
	if err := Write(&term, r, FormatTerminal, 80); err != nil {
		t.Fatalf("terminal: %v", err)
	}
	if !strings.Contains(term.String(), "Login") {
		t.Error("terminal output missing feature title")
	}

	if err := Write(&term, r, Format("pdf"), 80); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"md": FormatMarkdown, "JSON": FormatJSON, "yml": FormatYAML, "": FormatTerminal} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("html"); err == nil {
		t.Error("ParseFormat(html) should fail")
	}
}
