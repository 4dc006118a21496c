package pipeline

import (
	"regexp"
	"strings"

	"github.com/theirongolddev/gitlore/internal/model"
)

// Re-prompt heuristic constants. Changing any of them changes behavior.
const (
	repromptPrefixLen  = 50
	repromptMinLen     = 10
	repromptMinOverlap = 0.6
)

// IsReprompt reports whether next looks like a restatement of prev: both
// share a session id and the lower-cased 50-rune prefixes overlap by more
// than 60% of words.
func IsReprompt(prev, next model.PromptSession) bool {
	if prev.SessionID != next.SessionID {
		return false
	}

	a := promptPrefix(prev.PromptText)
	b := promptPrefix(next.PromptText)
	if len([]rune(a)) <= repromptMinLen || len([]rune(b)) <= repromptMinLen {
		return false
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	denom := max(len(wordsA), len(wordsB))
	if denom == 0 {
		return false
	}

	shared := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			shared++
		}
	}
	return float64(shared)/float64(denom) > repromptMinOverlap
}

// CountReprompts counts adjacent same-session pairs that are re-prompts.
// Sessions are expected in chronological order.
func CountReprompts(sessions []model.PromptSession) int {
	count := 0
	for i := 1; i < len(sessions); i++ {
		if IsReprompt(sessions[i-1], sessions[i]) {
			count++
		}
	}
	return count
}

func promptPrefix(text string) string {
	r := []rune(strings.ToLower(text))
	if len(r) > repromptPrefixLen {
		r = r[:repromptPrefixLen]
	}
	return string(r)
}

// wordSplit matches runs of ASCII and Unicode space separators. Leading or
// trailing whitespace yields an empty word, which counts toward the set.
var wordSplit = regexp.MustCompile(`[\s\x0B\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)

func wordSet(s string) map[string]struct{} {
	words := wordSplit.Split(s, -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
