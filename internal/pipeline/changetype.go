package pipeline

import (
	"sort"

	"github.com/theirongolddev/gitlore/internal/model"
)

// ChangeTypeShare is one row of a change type breakdown.
type ChangeTypeShare struct {
	Type  model.ChangeType `json:"type" yaml:"type"`
	Count int              `json:"count" yaml:"count"`
	Share float64          `json:"share" yaml:"share"` // 0-1 of the total
}

// DominantChangeType returns the most frequent type in a feature's
// distribution. ok is false when the distribution is empty.
func DominantChangeType(f model.Feature) (ct model.ChangeType, ok bool) {
	best := -1
	for t, n := range f.ChangeTypeDistribution {
		if n > best || (n == best && lessChangeType(t, ct)) {
			ct, best = t, n
		}
	}
	return ct, best >= 0
}

// ChangeTypeTotals sorts a totals map by count descending and computes each
// type's share of the total. A zero total yields zero shares.
func ChangeTypeTotals(totals map[model.ChangeType]int) []ChangeTypeShare {
	sum := 0
	for _, n := range totals {
		sum += n
	}

	rows := make([]ChangeTypeShare, 0, len(totals))
	for t, n := range totals {
		row := ChangeTypeShare{Type: t, Count: n}
		if sum > 0 {
			row.Share = float64(n) / float64(sum)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return lessChangeType(rows[i].Type, rows[j].Type)
	})
	return rows
}

// CountChangeTypes tallies commits by change type, unknown keys included.
func CountChangeTypes(commits []model.Commit) map[model.ChangeType]int {
	totals := make(map[model.ChangeType]int)
	for _, c := range commits {
		totals[c.ChangeType]++
	}
	return totals
}

func lessChangeType(a, b model.ChangeType) bool {
	ra, rb := a.Rank(), b.Rank()
	if ra != rb {
		return ra < rb
	}
	return a < b
}
