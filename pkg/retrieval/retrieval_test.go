package retrieval

import (
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumid-ai/resumid/pkg/types"
	"github.com/resumid-ai/resumid/pkg/utils"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)

	// zero norm never divides by zero
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float32{1, 1}, []float32{0, 0}))

	// length mismatch
	assert.Equal(t, 0.0, Cosine([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
}

func TestNormalizeCosine(t *testing.T) {
	assert.Equal(t, 1.0, NormalizeCosine(1))
	assert.Equal(t, 0.0, NormalizeCosine(-1))
	assert.Equal(t, 0.5, NormalizeCosine(0))
	assert.Equal(t, 1.0, NormalizeCosine(2))
	assert.Equal(t, 0.0, NormalizeCosine(-5))
}

func vecOf(chunkID string, st types.SourceType, emb []float32) types.Vector {
	return types.Vector{
		ChunkID:    chunkID,
		SourceType: st,
		SourceID:   string(st) + "_x",
		Embedding:  pgvector.NewVector(emb),
	}
}

func TestScanRankOrdering(t *testing.T) {
	query := []float32{1, 0, 0}
	candidates := []types.Vector{
		vecOf("c1", types.SOURCE_TYPE_PROJECT, []float32{0, 1, 0}),
		vecOf("c2", types.SOURCE_TYPE_PROJECT, []float32{1, 0, 0}),
		vecOf("c3", types.SOURCE_TYPE_BULLET_POINT, []float32{1, 1, 0}),
	}

	results := ScanRank(query, candidates, 10)
	require.Len(t, results, 3)
	assert.Equal(t, "c2", results[0].ChunkID)
	assert.Equal(t, "c3", results[1].ChunkID)
	assert.Equal(t, "c1", results[2].ChunkID)
	assert.InDelta(t, 1.0, float64(results[0].Cos), 1e-6)
}

func TestScanRankSkipsDimensionMismatch(t *testing.T) {
	query := []float32{1, 0}
	candidates := []types.Vector{
		vecOf("c1", types.SOURCE_TYPE_PROJECT, []float32{1, 0, 0}),
		vecOf("c2", types.SOURCE_TYPE_PROJECT, []float32{1, 0}),
	}

	results := ScanRank(query, candidates, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "c2", results[0].ChunkID)
}

func TestScanRankTruncatesAndBreaksTies(t *testing.T) {
	query := []float32{1, 0}
	candidates := []types.Vector{
		vecOf("c2", types.SOURCE_TYPE_PROJECT, []float32{1, 0}),
		vecOf("c1", types.SOURCE_TYPE_PROJECT, []float32{1, 0}),
		vecOf("c3", types.SOURCE_TYPE_PROJECT, []float32{0, 1}),
	}

	results := ScanRank(query, candidates, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].ChunkID)
	assert.Equal(t, "c2", results[1].ChunkID)

	assert.Nil(t, ScanRank(query, candidates, 0))
}

func TestFilterCandidates(t *testing.T) {
	candidates := []types.QueryResult{
		{ChunkID: "c1", SourceType: types.SOURCE_TYPE_PROJECT, Cos: 0.9},
		{ChunkID: "c2", SourceType: types.SOURCE_TYPE_PAGE, Cos: 0.8},
		{ChunkID: "c3", SourceType: types.SOURCE_TYPE_PROJECT, Cos: 0.1},
	}

	minScore := 0.5
	kept, byScore, byType := FilterCandidates(candidates, &minScore, []types.SourceType{types.SOURCE_TYPE_PROJECT})
	require.Len(t, kept, 1)
	assert.Equal(t, "c1", kept[0].ChunkID)
	assert.Equal(t, 1, byScore)
	assert.Equal(t, 1, byType)

	// counts are reported even when nothing is filtered
	kept, byScore, byType = FilterCandidates(candidates, nil, nil)
	assert.Len(t, kept, 3)
	assert.Equal(t, 0, byScore)
	assert.Equal(t, 0, byType)
}

func TestLexicalScore(t *testing.T) {
	tokens := utils.Tokenize("Golang concurrency patterns")
	require.Len(t, tokens, 3)

	assert.InDelta(t, 1.0, LexicalScore(tokens, "golang concurrency patterns explained"), 1e-9)
	assert.InDelta(t, 1.0/3.0, LexicalScore(tokens, "advanced GOLANG tricks"), 1e-9)
	assert.Equal(t, 0.0, LexicalScore(tokens, "completely unrelated text"))
	assert.Equal(t, 0.0, LexicalScore(nil, "anything"))
}

func TestFuseMergesDuplicates(t *testing.T) {
	vectorHits := []types.SearchHit{
		{ChunkID: "c1", Chunk: "alpha", Score: 0.9},
		{ChunkID: "c2", Chunk: "beta", Score: 0.6},
	}
	lexicalHits := []types.SearchHit{
		{ChunkID: "c2", Chunk: "beta", Score: 1.0},
		{ChunkID: "c3", Chunk: "gamma", Score: 0.5},
	}

	results := Fuse(vectorHits, lexicalHits, Weights{}, 10)
	require.Len(t, results, 3)

	// c2 appears exactly once with both channels fused
	assert.Equal(t, "c2", results[0].ChunkID)
	assert.InDelta(t, 0.7*0.6+0.3*1.0, results[0].Score, 1e-9)
	assert.Equal(t, "c1", results[1].ChunkID)
	assert.InDelta(t, 0.7*0.9, results[1].Score, 1e-9)
	assert.Equal(t, "c3", results[2].ChunkID)
	assert.InDelta(t, 0.3*0.5, results[2].Score, 1e-9)
}

func TestFuseLimitAndTies(t *testing.T) {
	vectorHits := []types.SearchHit{
		{ChunkID: "c2", Score: 0.5},
		{ChunkID: "c1", Score: 0.5},
		{ChunkID: "c3", Score: 0.4},
	}

	results := Fuse(vectorHits, nil, Weights{}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].ChunkID)
	assert.Equal(t, "c2", results[1].ChunkID)

	assert.Nil(t, Fuse(vectorHits, nil, Weights{}, 0))
	assert.Nil(t, Fuse(vectorHits, nil, Weights{}, -1))
}

func TestFuseCustomWeights(t *testing.T) {
	vectorHits := []types.SearchHit{{ChunkID: "c1", Score: 1.0}}
	lexicalHits := []types.SearchHit{{ChunkID: "c1", Score: 1.0}}

	results := Fuse(vectorHits, lexicalHits, Weights{Vector: 0.5, Lexical: 0.5}, 1)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}
