package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/gitlore/internal/model"
)

func sum(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

func TestHourAndDayDistribution(t *testing.T) {
	commits := []model.Commit{
		commitAt("2025-06-02T09:15:00Z"), // Monday
		commitAt("2025-06-02T09:45:00Z"),
		commitAt("2025-06-03T14:00:00Z"), // Tuesday
		commitAt("2025-06-01T23:59:59Z"), // Sunday
		commitAt("not a date"),
	}

	hours := HourDistributionIn(commits, time.UTC)
	if hours[9] != 2 || hours[14] != 1 || hours[23] != 1 {
		t.Errorf("hours = %v", hours)
	}
	if got := sum(hours[:]); got != 4 {
		t.Errorf("sum(hours) = %d, want 4 (unparsable skipped)", got)
	}

	days := DayDistributionIn(commits, time.UTC)
	want := [7]int{2, 1, 0, 0, 0, 0, 1}
	if days != want {
		t.Errorf("days = %v, want %v", days, want)
	}
	if got := sum(days[:]); got > len(commits) {
		t.Errorf("sum(days) = %d exceeds %d commits", got, len(commits))
	}
}

func TestHourDistributionIn_ConvertsZone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	hours := HourDistributionIn([]model.Commit{commitAt("2025-06-02T23:30:00Z")}, loc)
	if hours[1] != 1 {
		t.Errorf("hours[1] = %d, want 1 after zone conversion", hours[1])
	}
	days := DayDistributionIn([]model.Commit{commitAt("2025-06-02T23:30:00Z")}, loc)
	if days[1] != 1 {
		t.Errorf("days = %v, want Tuesday after zone conversion", days)
	}
}

func TestPeakHours(t *testing.T) {
	tests := []struct {
		name   string
		counts map[int]int
		n      int
		want   []int
	}{
		{"top three ascending", map[int]int{9: 5, 14: 5, 10: 3, 3: 1}, 3, []int{9, 10, 14}},
		{"ties keep earlier hour", map[int]int{9: 2, 14: 2, 15: 2}, 2, []int{9, 14}},
		{"zero hours dropped", map[int]int{4: 1, 20: 7}, 5, []int{4, 20}},
		{"no activity", nil, 3, []int{}},
		{"n zero", map[int]int{1: 1}, 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var counts [24]int
			for h, c := range tt.counts {
				counts[h] = c
			}
			got := PeakHours(counts, tt.n)
			if len(got) > tt.n {
				t.Fatalf("PeakHours returned %d hours, n = %d", len(got), tt.n)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("PeakHours = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("PeakHours = %v, want %v", got, tt.want)
				}
				if counts[got[i]] <= 0 {
					t.Errorf("hour %d has no commits", got[i])
				}
				if i > 0 && got[i-1] >= got[i] {
					t.Errorf("PeakHours = %v not strictly ascending", got)
				}
			}
		})
	}
}

func TestAverageGranularity(t *testing.T) {
	if got := AverageGranularity(nil); got != 0 {
		t.Errorf("AverageGranularity(nil) = %v, want 0", got)
	}

	two := []model.Commit{
		commitAt("2025-01-01T00:00:00Z", "a.go"),
		commitAt("2025-01-02T00:00:00Z", "a.go", "b.go", "c.go"),
	}
	if got := AverageGranularity(two); got != 2.0 {
		t.Errorf("AverageGranularity = %v, want 2.0", got)
	}

	thirds := []model.Commit{
		commitAt("x", "a"), commitAt("y", "a"), commitAt("z", "a", "b"),
	}
	if got := AverageGranularity(thirds); got != 1.3 {
		t.Errorf("AverageGranularity = %v, want 1.3", got)
	}

	// Repeated paths count per entry, unlike coupling mining.
	repeated := []model.Commit{commitAt("2025-01-01T00:00:00Z", "a.go", "a.go")}
	if got := AverageGranularity(repeated); got != 2.0 {
		t.Errorf("AverageGranularity(repeated) = %v, want 2.0", got)
	}
}

func TestVelocityWindow(t *testing.T) {
	var a model.Analytics
	for i := 0; i < 15; i++ {
		a.VelocityByWeek = append(a.VelocityByWeek, model.WeekVelocity{Week: string(rune('a' + i)), Commits: i})
	}

	window, peak := VelocityWindow(a)
	if len(window) != VelocityWeeks {
		t.Fatalf("len(window) = %d, want %d", len(window), VelocityWeeks)
	}
	if window[0].Commits != 3 || window[len(window)-1].Commits != 14 {
		t.Errorf("window spans %d..%d, want 3..14", window[0].Commits, window[len(window)-1].Commits)
	}
	if peak != 14 {
		t.Errorf("peak = %d, want 14", peak)
	}

	empty, peak := VelocityWindow(model.Analytics{})
	if len(empty) != 0 || peak != 1 {
		t.Errorf("empty window = %v peak %d, want [] and 1", empty, peak)
	}

	idle, peak := VelocityWindow(model.Analytics{VelocityByWeek: []model.WeekVelocity{{Week: "w1"}}})
	if len(idle) != 1 || peak != 1 {
		t.Errorf("idle window peak = %d, want floor of 1", peak)
	}
}
