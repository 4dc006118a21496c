// Package model defines the snapshot types gitlore derives insight from.
package model

// ProjectData is one immutable snapshot of a scanned repository as produced
// by the upstream extraction stage.
type ProjectData struct {
	Repository     Repository      `json:"repository" yaml:"repository"`
	Commits        []Commit        `json:"commits" yaml:"commits"`
	Features       []Feature       `json:"features" yaml:"features"`
	PromptSessions []PromptSession `json:"promptSessions" yaml:"promptSessions"`
	Analytics      Analytics       `json:"analytics" yaml:"analytics"`
}

// Repository holds repository-level metadata.
type Repository struct {
	Path              string    `json:"path" yaml:"path"`
	Name              string    `json:"name" yaml:"name"`
	TotalCommits      int       `json:"totalCommits" yaml:"totalCommits"`
	DateRange         DateRange `json:"dateRange" yaml:"dateRange"`
	LanguagesDetected []string  `json:"languagesDetected" yaml:"languagesDetected"`
}

// DateRange is an inclusive span of ISO-8601 timestamps.
type DateRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// ProjectSummary is the list-view row for a stored project.
type ProjectSummary struct {
	Path                string
	Name                string
	LastScanned         string
	TotalCommits        int
	TotalFeatures       int
	AssistantPercentage float64
}

// WithSessions returns a shallow copy of p whose prompt sessions are replaced.
// The receiver is left untouched so readers of the old snapshot stay consistent.
func (p *ProjectData) WithSessions(sessions []PromptSession) *ProjectData {
	next := *p
	next.PromptSessions = sessions
	return &next
}

// FeatureTitle resolves a cluster id to a display title.
func (p *ProjectData) FeatureTitle(clusterID int) (string, bool) {
	for i := range p.Features {
		f := &p.Features[i]
		if f.ClusterID != clusterID {
			continue
		}
		if f.Title != "" {
			return f.Title, true
		}
		return f.AutoLabel, true
	}
	return "", false
}
