package pipeline

import (
	"sort"
	"strings"

	"github.com/theirongolddev/gitlore/internal/model"
)

// FileFunctions lists the functions touched in one file.
type FileFunctions struct {
	Path      string   `json:"path" yaml:"path"`
	Functions []string `json:"functions" yaml:"functions"`
}

// FunctionTree maps each changed file to the distinct functions modified in
// it, both in first-seen order.
func FunctionTree(commits []model.Commit) []FileFunctions {
	var tree []FileFunctions
	fileIdx := make(map[string]int)
	seen := make(map[string]map[string]struct{})

	for _, c := range commits {
		for _, fc := range c.FilesChanged {
			i, ok := fileIdx[fc.Path]
			if !ok {
				i = len(tree)
				fileIdx[fc.Path] = i
				tree = append(tree, FileFunctions{Path: fc.Path})
				seen[fc.Path] = make(map[string]struct{})
			}
			for _, fn := range fc.Functions {
				if _, dup := seen[fc.Path][fn.Name]; dup {
					continue
				}
				seen[fc.Path][fn.Name] = struct{}{}
				tree[i].Functions = append(tree[i].Functions, fn.Name)
			}
		}
	}
	return tree
}

// FunctionModification is one commit's change to a function.
type FunctionModification struct {
	Commit       model.Commit
	LinesAdded   int
	LinesRemoved int
	DiffText     string
}

// FunctionHistory returns the commits that modified fn in path, oldest
// first by timestamp string. An empty path matches any file.
func FunctionHistory(commits []model.Commit, fn, path string) []FunctionModification {
	var mods []FunctionModification
	for _, c := range commits {
		for _, fc := range c.FilesChanged {
			if path != "" && fc.Path != path {
				continue
			}
			for _, f := range fc.Functions {
				if f.Name != fn {
					continue
				}
				mods = append(mods, FunctionModification{
					Commit:       c,
					LinesAdded:   f.LinesAdded,
					LinesRemoved: f.LinesRemoved,
					DiffText:     f.DiffText,
				})
			}
		}
	}
	sort.SliceStable(mods, func(i, j int) bool {
		return mods[i].Commit.Timestamp < mods[j].Commit.Timestamp
	})
	return mods
}

// SortFeaturesByStart returns a copy of features ordered newest first.
func SortFeaturesByStart(features []model.Feature) []model.Feature {
	sorted := make([]model.Feature, len(features))
	copy(sorted, features)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, okI := model.ParseTimestamp(sorted[i].TimeStart, nil)
		tj, okJ := model.ParseTimestamp(sorted[j].TimeStart, nil)
		if okI && okJ {
			return ti.After(tj)
		}
		return okI && !okJ
	})
	return sorted
}

// SearchResults holds matches from a Search.
type SearchResults struct {
	Commits  []model.Commit        `json:"commits" yaml:"commits"`
	Features []model.Feature       `json:"features" yaml:"features"`
	Prompts  []model.PromptSession `json:"prompts" yaml:"prompts"`
}

// Total returns the number of matches.
func (r SearchResults) Total() int {
	return len(r.Commits) + len(r.Features) + len(r.Prompts)
}

// Search matches query case-insensitively against commit hashes, subjects,
// bodies and file paths, feature titles and narratives, and prompt text.
func Search(p *model.ProjectData, query string) SearchResults {
	var res SearchResults
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return res
	}

	for _, c := range p.Commits {
		if strings.HasPrefix(strings.ToLower(c.Hash), q) ||
			containsFold(c.Subject, q) || containsFold(c.Body, q) || commitTouches(c, q) {
			res.Commits = append(res.Commits, c)
		}
	}
	for _, f := range p.Features {
		if containsFold(f.Title, q) || containsFold(f.AutoLabel, q) ||
			(f.Narrative != nil && containsFold(*f.Narrative, q)) ||
			(f.Intent != nil && containsFold(*f.Intent, q)) {
			res.Features = append(res.Features, f)
		}
	}
	for _, s := range p.PromptSessions {
		if containsFold(s.PromptText, q) {
			res.Prompts = append(res.Prompts, s)
		}
	}
	return res
}

func commitTouches(c model.Commit, q string) bool {
	for _, fc := range c.FilesChanged {
		if containsFold(fc.Path, q) {
			return true
		}
	}
	return false
}

// containsFold expects q already lower-cased.
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}
