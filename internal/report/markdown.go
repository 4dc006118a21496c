package report

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/gitlore/internal/pipeline"
)

func pct(f float64) string { return fmt.Sprintf("%.1f%%", f*100) }

func hourLabel(h int) string {
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	if h%12 == 0 {
		return "12 " + suffix
	}
	return fmt.Sprintf("%d %s", h%12, suffix)
}

// mdEscape keeps table cells on one line and pipes from splitting columns.
func mdEscape(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// Markdown renders r as a markdown document.
func Markdown(r Report) string {
	var b strings.Builder
	name := r.Repository.Name
	if name == "" {
		name = r.Repository.Path
	}

	fmt.Fprintf(&b, "# %s\n\n", mdEscape(name))
	fmt.Fprintf(&b, "_Generated %s_", r.GeneratedAt.Format("2006-01-02 15:04"))
	if r.Repository.DateRange.Start != "" {
		fmt.Fprintf(&b, " · history %s to %s", r.Repository.DateRange.Start, r.Repository.DateRange.End)
	}
	b.WriteString("\n\n")

	m := r.Metrics
	b.WriteString("## Overview\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Commits | %d |\n", m.Commits)
	fmt.Fprintf(&b, "| Features | %d |\n", m.Features)
	fmt.Fprintf(&b, "| Prompts | %d |\n", m.Prompts)
	fmt.Fprintf(&b, "| Assistant commits | %.1f%% |\n", m.AssistantPct)
	fmt.Fprintf(&b, "| Intent completion | %s |\n", pct(m.IntentCompletion))
	fmt.Fprintf(&b, "| Re-prompt rate | %s |\n", pct(m.RepromptRate))
	fmt.Fprintf(&b, "| Recurring patterns | %d |\n", m.PatternCount)
	fmt.Fprintf(&b, "| Embedding coverage | %s |\n\n", pct(m.EmbeddingCoverage))

	p := r.Patterns
	b.WriteString("## Working patterns\n\n")
	if len(p.PeakHours) > 0 {
		labels := make([]string, len(p.PeakHours))
		for i, h := range p.PeakHours {
			labels[i] = hourLabel(h)
		}
		fmt.Fprintf(&b, "- Peak hours: %s\n", strings.Join(labels, ", "))
	}
	busiest, best := -1, 0
	for i, n := range p.Days {
		if n > best {
			busiest, best = i, n
		}
	}
	if busiest >= 0 {
		fmt.Fprintf(&b, "- Busiest day: %s (%d commits)\n", pipeline.DayLabels[busiest], best)
	}
	fmt.Fprintf(&b, "- Files per commit: %.1f\n", p.AvgGranularity)
	if len(p.Profile.Languages) > 0 {
		fmt.Fprintf(&b, "- Languages: %s\n", strings.Join(p.Profile.Languages, ", "))
	}
	b.WriteString("\n")

	if len(p.Couplings) > 0 {
		b.WriteString("### Files that change together\n\n| File | File | Commits |\n|---|---|---|\n")
		for _, c := range p.Couplings {
			fmt.Fprintf(&b, "| `%s` | `%s` | %d |\n", c.FileA, c.FileB, c.Count)
		}
		b.WriteString("\n")
	}

	if len(r.ChangeTypes) > 0 {
		b.WriteString("## Change types\n\n| Type | Commits | Share |\n|---|---|---|\n")
		for _, row := range r.ChangeTypes {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", mdEscape(row.Type.Label()), row.Count, pct(row.Share))
		}
		b.WriteString("\n")
	}

	in := r.Intent
	b.WriteString("## Prompt outcomes\n\n")
	if in.TotalPrompts == 0 {
		b.WriteString("No prompt sessions recorded.\n\n")
	} else {
		b.WriteString("| Outcome | Prompts |\n|---|---|\n")
		for _, o := range pipeline.Outcomes {
			fmt.Fprintf(&b, "| %s | %d |\n", o.Label(), in.Outcomes[o])
		}
		fmt.Fprintf(&b, "\n%d prompts across %d sessions, %d re-prompts, %.1f tool calls per prompt.\n\n",
			in.TotalPrompts, in.Sessions, in.Reprompts, in.AvgToolCalls)
	}

	if len(r.Velocity) > 0 {
		b.WriteString("## Weekly velocity\n\n| Week | Features | Commits |\n|---|---|---|\n")
		for _, w := range r.Velocity {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", mdEscape(w.Week), w.Features, w.Commits)
		}
		b.WriteString("\n")
	}

	if len(r.Features) > 0 {
		b.WriteString("## Features\n\n")
		for _, f := range r.Features {
			fmt.Fprintf(&b, "### %s\n\n", mdEscape(f.Title))
			meta := []string{fmt.Sprintf("%d commits", f.Commits), fmt.Sprintf("+%d/-%d", f.LinesAdded, f.LinesRemoved)}
			if f.Dominant != "" {
				meta = append([]string{f.Dominant.Label()}, meta...)
			}
			if f.TimeStart != "" {
				meta = append(meta, f.TimeStart+" to "+f.TimeEnd)
			}
			fmt.Fprintf(&b, "_%s_\n\n", strings.Join(meta, " · "))
			if f.Narrative != "" {
				b.WriteString(strings.TrimSpace(f.Narrative) + "\n\n")
			}
		}
	}

	return b.String()
}
