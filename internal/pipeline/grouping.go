package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/gitlore/internal/model"
)

// GroupBy is the time bucket granularity for prompt sessions.
type GroupBy string

// Supported granularities.
const (
	GroupByHour  GroupBy = "hour"
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

// GroupBys lists the granularities in cycling order.
var GroupBys = []GroupBy{GroupByHour, GroupByDay, GroupByWeek, GroupByMonth}

// UnknownDateLabel groups sessions whose timestamp cannot be parsed.
const UnknownDateLabel = "Unknown date"

// ParseGroupBy validates a granularity name.
func ParseGroupBy(s string) (GroupBy, error) {
	for _, g := range GroupBys {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown group-by %q (want hour, day, week or month)", s)
}

// Next returns the following granularity, wrapping around.
func (g GroupBy) Next() GroupBy {
	for i, v := range GroupBys {
		if v == g {
			return GroupBys[(i+1)%len(GroupBys)]
		}
	}
	return GroupByDay
}

// SessionGroup is one labeled bucket of sessions.
type SessionGroup struct {
	Label    string                `json:"label" yaml:"label"`
	Sessions []model.PromptSession `json:"sessions" yaml:"sessions"`
}

// GroupKey returns the bucket label for a timestamp in loc.
func GroupKey(timestamp string, by GroupBy, loc *time.Location) string {
	t, ok := model.ParseTimestamp(timestamp, loc)
	if !ok {
		return UnknownDateLabel
	}

	switch by {
	case GroupByHour:
		h := t.Hour()
		ampm := "AM"
		if h >= 12 {
			ampm = "PM"
		}
		h12 := h % 12
		if h12 == 0 {
			h12 = 12
		}
		return fmt.Sprintf("%s, %d %s", t.Format("Jan 2"), h12, ampm)
	case GroupByWeek:
		start := t.AddDate(0, 0, -int(t.Weekday()))
		end := start.AddDate(0, 0, 6)
		return fmt.Sprintf("Week of %s - %s", start.Format("Jan 2"), end.Format("Jan 2"))
	case GroupByMonth:
		return t.Format("January 2006")
	default:
		return t.Format("Monday, January 2, 2006")
	}
}

// GroupSessions buckets sessions by local time. Groups appear in order of
// first encounter; sessions keep their input order within a group.
func GroupSessions(sessions []model.PromptSession, by GroupBy) []SessionGroup {
	return GroupSessionsIn(sessions, by, time.Local)
}

// GroupSessionsIn buckets sessions by time in loc.
func GroupSessionsIn(sessions []model.PromptSession, by GroupBy, loc *time.Location) []SessionGroup {
	groups := make([]SessionGroup, 0)
	index := make(map[string]int)

	for _, s := range sessions {
		key := GroupKey(s.Timestamp, by, loc)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, SessionGroup{Label: key})
		}
		groups[i].Sessions = append(groups[i].Sessions, s)
	}
	return groups
}
