package pipeline

import (
	"time"

	"github.com/theirongolddev/gitlore/internal/model"
)

// DefaultPeakHours is how many peak hours the profile reports.
const DefaultPeakHours = 3

// DayLabels names DayDistribution indexes.
var DayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Patterns is the behavioral profile of a snapshot.
type Patterns struct {
	Hours          [24]int        `json:"hours" yaml:"hours"`
	Days           [7]int         `json:"days" yaml:"days"`
	PeakHours      []int          `json:"peakHours" yaml:"peakHours"`
	AvgGranularity float64        `json:"avgGranularity" yaml:"avgGranularity"`
	Couplings      []FileCoupling `json:"couplings" yaml:"couplings"`
	Profile        Profile        `json:"profile" yaml:"profile"`
}

// Profile is the headline card of the patterns view.
type Profile struct {
	Languages           []string `json:"languages" yaml:"languages"`
	TotalCommits        int      `json:"totalCommits" yaml:"totalCommits"`
	TotalSessions       int      `json:"totalSessions" yaml:"totalSessions"`
	AssistantPercentage float64  `json:"assistantPercentage" yaml:"assistantPercentage"`
}

// BuildPatterns derives the full patterns view in loc.
func BuildPatterns(p *model.ProjectData, peakN int, loc *time.Location) Patterns {
	hours := HourDistributionIn(p.Commits, loc)
	return Patterns{
		Hours:          hours,
		Days:           DayDistributionIn(p.Commits, loc),
		PeakHours:      PeakHours(hours, peakN),
		AvgGranularity: AverageGranularity(p.Commits),
		Couplings:      FileCouplings(p.Commits),
		Profile: Profile{
			Languages:           p.Repository.LanguagesDetected,
			TotalCommits:        len(p.Commits),
			TotalSessions:       len(p.PromptSessions),
			AssistantPercentage: p.Analytics.ClaudeCodeCommitPercentage,
		},
	}
}

// MaxCount returns the largest value, floored at 1 for normalization.
func MaxCount(counts []int) int {
	peak := 1
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}
	return peak
}
