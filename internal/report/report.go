// Package report builds an exportable insight report for a snapshot.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/gitlore/internal/model"
	"github.com/theirongolddev/gitlore/internal/pipeline"
)

// Format is an export format.
type Format string

// Supported formats. FormatTerminal is markdown rendered for the terminal.
const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTerminal Format = "terminal"
)

// ParseFormat validates a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "terminal", "term", "":
		return FormatTerminal, nil
	}
	return "", fmt.Errorf("unknown report format %q (want markdown, json, yaml or terminal)", s)
}

// Options tunes Build.
type Options struct {
	PeakHours int
	Location  *time.Location
	Now       time.Time
}

// Report is the full insight report.
type Report struct {
	GeneratedAt time.Time                  `json:"generatedAt" yaml:"generatedAt"`
	Repository  model.Repository           `json:"repository" yaml:"repository"`
	Metrics     Metrics                    `json:"metrics" yaml:"metrics"`
	Patterns    pipeline.Patterns          `json:"patterns" yaml:"patterns"`
	ChangeTypes []pipeline.ChangeTypeShare `json:"changeTypes" yaml:"changeTypes"`
	Intent      pipeline.IntentStats       `json:"intent" yaml:"intent"`
	Velocity    []model.WeekVelocity       `json:"velocity" yaml:"velocity"`
	Features    []FeatureEntry             `json:"features" yaml:"features"`
}

// Metrics are the headline numbers with upstream fallbacks resolved.
type Metrics struct {
	Commits           int     `json:"commits" yaml:"commits"`
	Features          int     `json:"features" yaml:"features"`
	Prompts           int     `json:"prompts" yaml:"prompts"`
	AssistantPct      float64 `json:"assistantPct" yaml:"assistantPct"`
	IntentCompletion  float64 `json:"intentCompletion" yaml:"intentCompletion"`
	RepromptRate      float64 `json:"repromptRate" yaml:"repromptRate"`
	PatternCount      int     `json:"patternCount" yaml:"patternCount"`
	EmbeddingCoverage float64 `json:"embeddingCoverage" yaml:"embeddingCoverage"`
}

// FeatureEntry is one feature row, newest first.
type FeatureEntry struct {
	ClusterID    int              `json:"clusterId" yaml:"clusterId"`
	Title        string           `json:"title" yaml:"title"`
	Dominant     model.ChangeType `json:"dominantType,omitempty" yaml:"dominantType,omitempty"`
	Commits      int              `json:"commits" yaml:"commits"`
	TimeStart    string           `json:"timeStart" yaml:"timeStart"`
	TimeEnd      string           `json:"timeEnd" yaml:"timeEnd"`
	LinesAdded   int              `json:"linesAdded" yaml:"linesAdded"`
	LinesRemoved int              `json:"linesRemoved" yaml:"linesRemoved"`
	Narrative    string           `json:"narrative,omitempty" yaml:"narrative,omitempty"`
}

// Build derives a report from p.
func Build(p *model.ProjectData, opts Options) Report {
	if opts.PeakHours <= 0 {
		opts.PeakHours = pipeline.DefaultPeakHours
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	velocity, _ := pipeline.VelocityWindow(p.Analytics)
	r := Report{
		GeneratedAt: opts.Now,
		Repository:  p.Repository,
		Patterns:    pipeline.BuildPatterns(p, opts.PeakHours, opts.Location),
		ChangeTypes: pipeline.ChangeTypeTotals(pipeline.CountChangeTypes(p.Commits)),
		Intent:      pipeline.SummarizeIntent(p.PromptSessions),
		Velocity:    velocity,
	}
	r.Metrics = Metrics{
		Commits:           len(p.Commits),
		Features:          len(p.Features),
		Prompts:           len(p.PromptSessions),
		AssistantPct:      p.Analytics.ClaudeCodeCommitPercentage,
		IntentCompletion:  pipeline.IntentCompletion(p),
		RepromptRate:      r.Intent.RepromptRate,
		PatternCount:      pipeline.PatternCount(p),
		EmbeddingCoverage: pipeline.EmbeddingCoverage(p),
	}

	for _, f := range pipeline.SortFeaturesByStart(p.Features) {
		e := FeatureEntry{
			ClusterID:    f.ClusterID,
			Title:        f.DisplayTitle(),
			Commits:      len(f.CommitHashes),
			TimeStart:    f.TimeStart,
			TimeEnd:      f.TimeEnd,
			LinesAdded:   f.TotalLinesAdded,
			LinesRemoved: f.TotalLinesRemoved,
		}
		if ct, ok := pipeline.DominantChangeType(f); ok {
			e.Dominant = ct
		}
		if f.Narrative != nil {
			e.Narrative = *f.Narrative
		}
		r.Features = append(r.Features, e)
	}
	return r
}

// Write encodes r in the given format. width applies to terminal rendering.
func Write(w io.Writer, r Report, format Format, width int) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatTerminal:
		out, err := Render(Markdown(r), width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return fmt.Errorf("unknown report format %q", format)
}

// Render renders markdown for the terminal, word-wrapped to width.
func Render(md string, width int) (string, error) {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return out, nil
}
