package pipeline

import (
	"sort"

	"github.com/theirongolddev/gitlore/internal/config"
	"github.com/theirongolddev/gitlore/internal/model"
)

// UnknownModel labels prompt sessions without a model name.
const UnknownModel = "unknown"

// TokenTypeCosts holds aggregate prompt costs split by token type.
type TokenTypeCosts struct {
	InputCost     float64 `json:"inputCost" yaml:"inputCost"`
	OutputCost    float64 `json:"outputCost" yaml:"outputCost"`
	CacheReadCost float64 `json:"cacheReadCost" yaml:"cacheReadCost"`
	TotalCost     float64 `json:"totalCost" yaml:"totalCost"`
}

// ModelCostBreakdown holds token usage and cost for one model.
type ModelCostBreakdown struct {
	Model           string  `json:"model" yaml:"model"`
	Prompts         int     `json:"prompts" yaml:"prompts"`
	InputTokens     int64   `json:"inputTokens" yaml:"inputTokens"`
	OutputTokens    int64   `json:"outputTokens" yaml:"outputTokens"`
	CacheReadTokens int64   `json:"cacheReadTokens" yaml:"cacheReadTokens"`
	TotalCost       float64 `json:"totalCost" yaml:"totalCost"`
	Priced          bool    `json:"priced" yaml:"priced"`
}

// AggregateTokenCosts splits prompt token usage by normalized model name and prices it with
// the pricing table in effect at each prompt's timestamp. Models without
// pricing are still counted, at zero cost.
func AggregateTokenCosts(sessions []model.PromptSession, prices *config.PriceTable) (TokenTypeCosts, []ModelCostBreakdown) {
	var totals TokenTypeCosts
	byModel := make(map[string]*ModelCostBreakdown)

	for _, s := range sessions {
		name := prices.NormalizeModelName(s.ModelName())
		if name == "" {
			name = UnknownModel
		}

		row, ok := byModel[name]
		if !ok {
			row = &ModelCostBreakdown{Model: name}
			byModel[name] = row
		}
		u := s.TokenUsage
		row.Prompts++
		row.InputTokens += u.InputTokens
		row.OutputTokens += u.OutputTokens
		row.CacheReadTokens += u.CacheReadTokens

		at, _ := model.ParseTimestamp(s.Timestamp, nil)
		pricing, priced := prices.LookupAt(name, at)
		if !priced {
			continue
		}
		row.Priced = true

		inputCost := float64(u.InputTokens) * pricing.InputPerMTok / 1_000_000
		outputCost := float64(u.OutputTokens) * pricing.OutputPerMTok / 1_000_000
		cacheReadCost := float64(u.CacheReadTokens) * pricing.CacheReadPerMTok / 1_000_000

		totals.InputCost += inputCost
		totals.OutputCost += outputCost
		totals.CacheReadCost += cacheReadCost
		row.TotalCost += inputCost + outputCost + cacheReadCost
	}

	totals.TotalCost = totals.InputCost + totals.OutputCost + totals.CacheReadCost

	rows := make([]ModelCostBreakdown, 0, len(byModel))
	for _, row := range byModel {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalCost != rows[j].TotalCost {
			return rows[i].TotalCost > rows[j].TotalCost
		}
		return rows[i].Model < rows[j].Model
	})

	return totals, rows
}
