package retrieval

import (
	"sort"

	"github.com/resumid-ai/resumid/pkg/types"
)

// Default fusion weights. Semantic similarity is the primary signal and
// keyword overlap acts as a boost. Both are tunable through config.
const (
	DEFAULT_VECTOR_WEIGHT  = 0.7
	DEFAULT_LEXICAL_WEIGHT = 0.3
)

type Weights struct {
	Vector  float64
	Lexical float64
}

func (w Weights) normalize() Weights {
	if w.Vector == 0 && w.Lexical == 0 {
		return Weights{Vector: DEFAULT_VECTOR_WEIGHT, Lexical: DEFAULT_LEXICAL_WEIGHT}
	}
	return w
}

// Fuse merges vector and lexical candidates into a single ranking. Each
// input hit carries its channel score in Score, already normalized to
// [0,1]. A chunk present in both channels is merged into exactly one entry
// with fused = w.Vector*vectorScore + w.Lexical*lexicalScore; a chunk
// absent from one channel contributes 0 for that channel. Results are
// sorted by fused score descending, ties broken by chunk id, and truncated
// to limit.
func Fuse(vectorHits, lexicalHits []types.SearchHit, w Weights, limit int) []types.SearchHit {
	if limit <= 0 {
		return nil
	}
	w = w.normalize()

	type fusedHit struct {
		hit          types.SearchHit
		vectorScore  float64
		lexicalScore float64
	}

	merged := make(map[string]*fusedHit, len(vectorHits)+len(lexicalHits))
	for i := range vectorHits {
		h := vectorHits[i]
		merged[h.ChunkID] = &fusedHit{hit: h, vectorScore: h.Score}
	}
	for i := range lexicalHits {
		h := lexicalHits[i]
		if f, ok := merged[h.ChunkID]; ok {
			f.lexicalScore = h.Score
			if f.hit.Chunk == "" {
				f.hit.Chunk = h.Chunk
			}
			continue
		}
		merged[h.ChunkID] = &fusedHit{hit: h, lexicalScore: h.Score}
	}

	results := make([]types.SearchHit, 0, len(merged))
	for _, f := range merged {
		h := f.hit
		h.Score = w.Vector*f.vectorScore + w.Lexical*f.lexicalScore
		results = append(results, h)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
