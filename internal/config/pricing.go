package config

import (
	"strings"
	"time"
)

// ModelPricing holds per-million-token prices for a model.
type ModelPricing struct {
	InputPerMTok     float64
	OutputPerMTok    float64
	CacheReadPerMTok float64
}

type modelPricingVersion struct {
	EffectiveFrom time.Time
	Pricing       ModelPricing
}

// DefaultPricing maps model base names to their pricing.
var DefaultPricing = map[string]ModelPricing{
	"claude-opus-4-6":   {InputPerMTok: 5.00, OutputPerMTok: 25.00, CacheReadPerMTok: 0.50},
	"claude-opus-4-5":   {InputPerMTok: 5.00, OutputPerMTok: 25.00, CacheReadPerMTok: 0.50},
	"claude-opus-4-1":   {InputPerMTok: 15.00, OutputPerMTok: 75.00, CacheReadPerMTok: 1.50},
	"claude-opus-4":     {InputPerMTok: 15.00, OutputPerMTok: 75.00, CacheReadPerMTok: 1.50},
	"claude-sonnet-4-6": {InputPerMTok: 3.00, OutputPerMTok: 15.00, CacheReadPerMTok: 0.30},
	"claude-sonnet-4-5": {InputPerMTok: 3.00, OutputPerMTok: 15.00, CacheReadPerMTok: 0.30},
	"claude-sonnet-4":   {InputPerMTok: 3.00, OutputPerMTok: 15.00, CacheReadPerMTok: 0.30},
	"claude-haiku-4-5":  {InputPerMTok: 1.00, OutputPerMTok: 5.00, CacheReadPerMTok: 0.10},
	"claude-haiku-3-5":  {InputPerMTok: 0.80, OutputPerMTok: 4.00, CacheReadPerMTok: 0.08},
}

// PriceTable resolves model prices with effective dates and user overrides.
// A nil *PriceTable uses the built-in prices.
type PriceTable struct {
	history map[string][]modelPricingVersion
}

// defaultTable stores effective-dated prices for each model.
// Entries must be sorted by EffectiveFrom ascending.
var defaultTable = NewPriceTable(nil)

// NewPriceTable builds a table from DefaultPricing with overrides applied.
// An override for an unknown model adds it, with unset fields left at zero.
func NewPriceTable(overrides map[string]ModelPricingOverride) *PriceTable {
	history := make(map[string][]modelPricingVersion, len(DefaultPricing)+len(overrides))
	for name, pricing := range DefaultPricing {
		history[name] = []modelPricingVersion{{Pricing: pricing}}
	}
	for name, o := range overrides {
		var base ModelPricing
		if versions := history[name]; len(versions) > 0 {
			base = versions[len(versions)-1].Pricing
		}
		if o.InputPerMTok != nil {
			base.InputPerMTok = *o.InputPerMTok
		}
		if o.OutputPerMTok != nil {
			base.OutputPerMTok = *o.OutputPerMTok
		}
		if o.CacheReadPerMTok != nil {
			base.CacheReadPerMTok = *o.CacheReadPerMTok
		}
		history[name] = []modelPricingVersion{{Pricing: base}}
	}
	return &PriceTable{history: history}
}

func (t *PriceTable) table() map[string][]modelPricingVersion {
	if t == nil {
		return defaultTable.history
	}
	return t.history
}

// NormalizeModelName strips date suffixes from model identifiers.
// e.g., "claude-opus-4-5-20251101" -> "claude-opus-4-5"
func (t *PriceTable) NormalizeModelName(raw string) string {
	history := t.table()
	if _, ok := history[raw]; ok {
		return raw
	}

	parts := strings.Split(raw, "-")
	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		if isAllDigits(last) && len(last) >= 8 {
			candidate := strings.Join(parts[:len(parts)-1], "-")
			if _, ok := history[candidate]; ok {
				return candidate
			}
		}
	}

	return raw
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// LookupAt returns the pricing for a model at the given timestamp.
// If at is zero, the latest known pricing entry is used.
func (t *PriceTable) LookupAt(model string, at time.Time) (ModelPricing, bool) {
	versions, ok := t.table()[t.NormalizeModelName(model)]
	if !ok || len(versions) == 0 {
		return ModelPricing{}, false
	}

	if at.IsZero() {
		return versions[len(versions)-1].Pricing, true
	}

	at = at.UTC()
	selected := versions[0].Pricing
	for _, v := range versions {
		if v.EffectiveFrom.IsZero() || !at.Before(v.EffectiveFrom.UTC()) {
			selected = v.Pricing
			continue
		}
		break
	}
	return selected, true
}

// CalculateCost computes the estimated USD cost of one prompt's token usage.
func (t *PriceTable) CalculateCost(model string, at time.Time, inputTokens, outputTokens, cacheRead int64) float64 {
	pricing, ok := t.LookupAt(model, at)
	if !ok {
		return 0
	}

	cost := float64(inputTokens) * pricing.InputPerMTok / 1_000_000
	cost += float64(outputTokens) * pricing.OutputPerMTok / 1_000_000
	cost += float64(cacheRead) * pricing.CacheReadPerMTok / 1_000_000
	return cost
}

// LookupPricing returns the built-in pricing for a model.
func LookupPricing(model string) (ModelPricing, bool) {
	return defaultTable.LookupAt(model, time.Time{})
}
