package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/theirongolddev/gitlore/internal/model"
)

// Memo caches derivations for one snapshot. Entries are keyed by derivation
// name plus parameters; the whole table is dropped when a different snapshot
// pointer is seen, so a stale snapshot never leaks into a new one.
type Memo struct {
	mu      sync.Mutex
	snap    *model.ProjectData
	entries map[string]any
	hits    int
	misses  int
}

// NewMemo returns an empty memo table.
func NewMemo() *Memo {
	return &Memo{entries: make(map[string]any)}
}

func memoize[T any](m *Memo, snap *model.ProjectData, key string, compute func() T) T {
	m.mu.Lock()
	if m.snap != snap {
		m.snap = snap
		m.entries = make(map[string]any)
	}
	if v, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()
		return v.(T)
	}
	m.misses++
	m.mu.Unlock()

	v := compute()

	m.mu.Lock()
	// Only store if the snapshot did not change while computing.
	if m.snap == snap {
		m.entries[key] = v
	}
	m.mu.Unlock()
	return v
}

// Stats returns hit and miss counters.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// Patterns returns BuildPatterns for snap, memoized.
func (m *Memo) Patterns(snap *model.ProjectData, peakN int, loc *time.Location) Patterns {
	key := fmt.Sprintf("patterns/%d/%s", peakN, loc)
	return memoize(m, snap, key, func() Patterns {
		return BuildPatterns(snap, peakN, loc)
	})
}

// Couplings returns FileCouplings for snap, memoized.
func (m *Memo) Couplings(snap *model.ProjectData) []FileCoupling {
	return memoize(m, snap, "couplings", func() []FileCoupling {
		return FileCouplings(snap.Commits)
	})
}

// Intent returns SummarizeIntent for snap, memoized.
func (m *Memo) Intent(snap *model.ProjectData) IntentStats {
	return memoize(m, snap, "intent", func() IntentStats {
		return SummarizeIntent(snap.PromptSessions)
	})
}

// Groups returns GroupSessionsIn for snap, memoized per granularity.
func (m *Memo) Groups(snap *model.ProjectData, by GroupBy, loc *time.Location) []SessionGroup {
	key := fmt.Sprintf("groups/%s/%s", by, loc)
	return memoize(m, snap, key, func() []SessionGroup {
		return GroupSessionsIn(snap.PromptSessions, by, loc)
	})
}

// Timeline returns the filtered commits for snap, memoized per filter.
func (m *Memo) Timeline(snap *model.ProjectData, f TimelineFilter) []model.Commit {
	key := fmt.Sprintf("timeline/%q/%v/%t/%q/%q", f.Author, f.ChangeTypes, f.AssistantOnly, f.Start, f.End)
	return memoize(m, snap, key, func() []model.Commit {
		return f.Apply(snap.Commits)
	})
}
