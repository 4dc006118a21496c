package model

// ChangeType is the classified category of a commit.
type ChangeType string

// Known change types.
const (
	NewFeature    ChangeType = "new_feature"
	BugFix        ChangeType = "bug_fix"
	Refactor      ChangeType = "refactor"
	Performance   ChangeType = "performance"
	Style         ChangeType = "style"
	Test          ChangeType = "test"
	Documentation ChangeType = "documentation"
)

// ChangeTypes lists the known change types in canonical order.
var ChangeTypes = []ChangeType{
	NewFeature, BugFix, Refactor, Performance, Style, Test, Documentation,
}

// NeutralColor is used for change types outside the known set.
const NeutralColor = "#71717a"

var changeTypeLabels = map[ChangeType]string{
	NewFeature:    "Feature",
	BugFix:        "Bug Fix",
	Refactor:      "Refactor",
	Performance:   "Performance",
	Style:         "Style",
	Test:          "Test",
	Documentation: "Docs",
}

var changeTypeColors = map[ChangeType]string{
	NewFeature:    "#34d399",
	BugFix:        "#f87171",
	Refactor:      "#60a5fa",
	Performance:   "#fbbf24",
	Style:         "#71717a",
	Test:          "#a78bfa",
	Documentation: "#2dd4bf",
}

// Known reports whether ct is one of the fixed change types.
func (ct ChangeType) Known() bool {
	_, ok := changeTypeLabels[ct]
	return ok
}

// Label returns the display label. Unknown types render as their raw key.
func (ct ChangeType) Label() string {
	if l, ok := changeTypeLabels[ct]; ok {
		return l
	}
	if ct == "" {
		return "Unclassified"
	}
	return string(ct)
}

// Color returns the hex display color, NeutralColor for unknown types.
func (ct ChangeType) Color() string {
	if c, ok := changeTypeColors[ct]; ok {
		return c
	}
	return NeutralColor
}

// Rank is the canonical sort position; unknown types sort after known ones.
func (ct ChangeType) Rank() int {
	for i, known := range ChangeTypes {
		if known == ct {
			return i
		}
	}
	return len(ChangeTypes)
}
