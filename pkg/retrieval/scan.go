package retrieval

import (
	"sort"

	"github.com/resumid-ai/resumid/pkg/types"
)

// ScanRank computes cosine similarity between the query vector and every
// candidate, sorts descending and truncates to limit. It is the fallback
// path used when the storage layer has no native nearest neighbor index,
// and must rank identically to the native path. Candidates whose dimension
// does not match the query are skipped.
func ScanRank(query []float32, candidates []types.Vector, limit int) []types.QueryResult {
	if limit <= 0 || len(query) == 0 {
		return nil
	}

	results := make([]types.QueryResult, 0, len(candidates))
	for _, v := range candidates {
		emb := v.Embedding.Slice()
		if len(emb) != len(query) {
			continue
		}
		results = append(results, types.QueryResult{
			ChunkID:    v.ChunkID,
			SourceType: v.SourceType,
			SourceID:   v.SourceID,
			Cos:        float32(Cosine(query, emb)),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Cos != results[j].Cos {
			return results[i].Cos > results[j].Cos
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// FilterCandidates applies the minScore and sourceTypes filters shared by
// the native and scan paths. Both exclusion counts are always reported,
// even when zero. minScore compares against the raw similarity, before
// normalization.
func FilterCandidates(candidates []types.QueryResult, minScore *float64, sourceTypes []types.SourceType) ([]types.QueryResult, int, int) {
	var allowed map[types.SourceType]bool
	if len(sourceTypes) > 0 {
		allowed = make(map[types.SourceType]bool, len(sourceTypes))
		for _, st := range sourceTypes {
			allowed[st] = true
		}
	}

	var (
		kept            = make([]types.QueryResult, 0, len(candidates))
		filteredByScore int
		filteredByType  int
	)
	for _, c := range candidates {
		if minScore != nil && float64(c.Cos) < *minScore {
			filteredByScore++
			continue
		}
		if allowed != nil && !allowed[c.SourceType] {
			filteredByType++
			continue
		}
		kept = append(kept, c)
	}
	return kept, filteredByScore, filteredByType
}
