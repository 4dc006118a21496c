// Package pipeline derives insight from an immutable project snapshot.
//
// Every function here is pure: inputs are never mutated and no I/O happens.
package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/theirongolddev/gitlore/internal/model"
)

// VelocityWeeks is the number of trailing weeks charted.
const VelocityWeeks = 12

// HourDistribution counts commits by local hour of day.
func HourDistribution(commits []model.Commit) [24]int {
	return HourDistributionIn(commits, time.Local)
}

// HourDistributionIn counts commits by hour of day in loc.
// Commits with unparsable timestamps are skipped.
func HourDistributionIn(commits []model.Commit, loc *time.Location) [24]int {
	var counts [24]int
	for _, c := range commits {
		t, ok := model.ParseTimestamp(c.Timestamp, loc)
		if !ok {
			continue
		}
		counts[t.Hour()]++
	}
	return counts
}

// DayDistribution counts commits by local weekday, Monday at index 0.
func DayDistribution(commits []model.Commit) [7]int {
	return DayDistributionIn(commits, time.Local)
}

// DayDistributionIn counts commits by weekday in loc, Monday at index 0.
func DayDistributionIn(commits []model.Commit, loc *time.Location) [7]int {
	var counts [7]int
	for _, c := range commits {
		t, ok := model.ParseTimestamp(c.Timestamp, loc)
		if !ok {
			continue
		}
		// time.Weekday is Sunday=0
		counts[(int(t.Weekday())+6)%7]++
	}
	return counts
}

// PeakHours returns up to n of the busiest hours in ascending hour order.
// Ties keep the earlier hour; hours with zero commits are dropped.
func PeakHours(hourCounts [24]int, n int) []int {
	if n <= 0 {
		return []int{}
	}

	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return hourCounts[hours[i]] > hourCounts[hours[j]]
	})
	if n < len(hours) {
		hours = hours[:n]
	}

	peaks := make([]int, 0, len(hours))
	for _, h := range hours {
		if hourCounts[h] > 0 {
			peaks = append(peaks, h)
		}
	}
	sort.Ints(peaks)
	return peaks
}

// AverageGranularity returns files changed per commit rounded to one decimal.
func AverageGranularity(commits []model.Commit) float64 {
	if len(commits) == 0 {
		return 0
	}
	total := 0
	for _, c := range commits {
		total += len(c.FilesChanged)
	}
	return math.Round(float64(total)/float64(len(commits))*10) / 10
}

// VelocityWindow returns the trailing VelocityWeeks of the weekly series and
// the largest commit count in that window, floored at 1 for normalization.
func VelocityWindow(a model.Analytics) ([]model.WeekVelocity, int) {
	series := a.VelocityByWeek
	if len(series) > VelocityWeeks {
		series = series[len(series)-VelocityWeeks:]
	}
	maxCommits := 1
	for _, w := range series {
		if w.Commits > maxCommits {
			maxCommits = w.Commits
		}
	}
	return series, maxCommits
}
