package retrieval

import (
	"github.com/resumid-ai/resumid/pkg/utils"
)

// LexicalScore returns the token overlap ratio between the query tokens and
// the candidate text: |query ∩ candidate| / |query|, clamped to [0,1]. A
// query with no tokens scores every candidate 0.
func LexicalScore(queryTokens []string, candidate string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(queryTokens))
	for _, t := range queryTokens {
		seen[t] = true
	}

	candidateTokens := make(map[string]bool)
	for _, t := range utils.Tokenize(candidate) {
		candidateTokens[t] = true
	}

	matched := 0
	for t := range seen {
		if candidateTokens[t] {
			matched++
		}
	}

	score := float64(matched) / float64(len(seen))
	if score > 1 {
		score = 1
	}
	return score
}
