package v1

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumid-ai/resumid/pkg/chunker"
	"github.com/resumid-ai/resumid/pkg/errors"
	"github.com/resumid-ai/resumid/pkg/types"
)

func TestGenerateEmbeddingsEmptyText(t *testing.T) {
	env := newTestEnv(t)
	logic := NewKnowledgeLogic(context.Background(), env.core)

	result, err := logic.GenerateEmbeddings("", chunker.Options{})
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, 0, env.embedder.documentCalls, "provider must not be called for empty text")
}

func TestGenerateEmbeddingsPairsChunksWithVectors(t *testing.T) {
	env := newTestEnv(t)
	logic := NewKnowledgeLogic(context.Background(), env.core)

	text := longText("built realtime fraud detection pipeline on kafka", 40)
	result, err := logic.GenerateEmbeddings(text, chunker.Options{ChunkSize: 200, Overlap: 20})
	require.NoError(t, err)
	require.Greater(t, len(result), 1)

	for i, c := range result {
		assert.Equal(t, i, c.ChunkIndex)
		assert.NotEmpty(t, c.Hash)
		assert.Equal(t, "fake-bow", c.Model)
		assert.Equal(t, fakeDim, c.Dim)
		assert.Len(t, c.Embedding, fakeDim)
	}
}

func TestReplaceSourceChunksInvalidSource(t *testing.T) {
	env := newTestEnv(t)
	logic := NewKnowledgeLogic(context.Background(), env.core)

	err := logic.ReplaceSourceChunks("resume-1", types.SOURCE_TYPE_PROJECT, "not-a-project-id", "text")
	require.Error(t, err)
	ce, ok := err.(*errors.CustomizedError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ce.GetCode())
}

func TestReplaceSourceChunksSourceNotFound(t *testing.T) {
	env := newTestEnv(t)
	logic := NewKnowledgeLogic(context.Background(), env.core)

	err := logic.ReplaceSourceChunks("resume-1", types.SOURCE_TYPE_PROJECT, "proj_missing", "text")
	require.Error(t, err)
	ce, ok := err.(*errors.CustomizedError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ce.GetCode())
	assert.Empty(t, env.chunksForSource("proj_missing"), "nothing may be written for a missing source")
}

func TestReplaceSourceChunksCreatesChunksAndVectors(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedProject(t, "resume-1", "Payments", 1)

	env.indexSource(t, "resume-1", types.SOURCE_TYPE_PROJECT, project.ID,
		"designed a payments reconciliation service handling chargebacks")

	chunks := env.chunksForSource(project.ID)
	vectors := env.vectorsForSource(project.ID)
	require.NotEmpty(t, chunks)
	require.Len(t, vectors, len(chunks))

	chunkIDs := make(map[string]bool)
	for _, c := range chunks {
		assert.Equal(t, "resume-1", c.ResumeID)
		assert.Equal(t, types.SOURCE_TYPE_PROJECT, c.SourceType)
		assert.NotEmpty(t, c.Hash)
		chunkIDs[c.ID] = true
	}
	for _, v := range vectors {
		assert.True(t, chunkIDs[v.ChunkID], "every vector must point at one of the new chunks")
		assert.Equal(t, "fake-bow", v.Model)
		assert.Equal(t, fakeDim, v.Dim)
	}
}

func TestReplaceSourceChunksShrinksToNewSet(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedProject(t, "resume-1", "Search", 1)

	// index enough text for several chunks, then replace with one sentence
	env.indexSource(t, "resume-1", types.SOURCE_TYPE_PROJECT, project.ID,
		longText("large corpus of searchable resume content for chunk splitting", 120))
	before := env.chunksForSource(project.ID)
	require.Greater(t, len(before), 1)

	env.indexSource(t, "resume-1", types.SOURCE_TYPE_PROJECT, project.ID, "one short sentence")

	after := env.chunksForSource(project.ID)
	require.Len(t, after, 1)
	require.Len(t, env.vectorsForSource(project.ID), 1)
	assert.Equal(t, "one short sentence", after[0].Chunk)
	for _, old := range before {
		assert.NotEqual(t, old.ID, after[0].ID, "replacement must mint fresh chunk ids")
	}
}

func TestReplaceSourceChunksIdempotentContent(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedProject(t, "resume-1", "Infra", 1)
	text := "migrated the build fleet to spot instances cutting cost in half"

	env.indexSource(t, "resume-1", types.SOURCE_TYPE_PROJECT, project.ID, text)
	first := env.chunksForSource(project.ID)
	env.indexSource(t, "resume-1", types.SOURCE_TYPE_PROJECT, project.ID, text)
	second := env.chunksForSource(project.ID)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Chunk, second[i].Chunk)
		assert.Equal(t, first[i].Hash, second[i].Hash, "same content must hash the same")
	}
}

func TestReplaceSourceChunksScopedToSource(t *testing.T) {
	env := newTestEnv(t)
	a := env.seedProject(t, "resume-1", "Alpha", 1)
	b := env.seedProject(t, "resume-1", "Beta", 2)

	env.indexSource(t, "resume-1", types.SOURCE_TYPE_PROJECT, a.ID, "alpha content about databases")
	env.indexSource(t, "resume-1", types.SOURCE_TYPE_PROJECT, b.ID, "beta content about frontends")

	env.indexSource(t, "resume-1", types.SOURCE_TYPE_PROJECT, a.ID, "alpha rewritten")

	assert.Len(t, env.chunksForSource(a.ID), 1)
	require.Len(t, env.chunksForSource(b.ID), 1)
	assert.Equal(t, "beta content about frontends", env.chunksForSource(b.ID)[0].Chunk)
}

func TestCountTokensUsesDriverCounter(t *testing.T) {
	env := newTestEnv(t)

	n, err := env.core.Srv().AI().CountTokens("walked through the ranking pipeline")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestReplaceSourceChunksConcurrentSameSource(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedProject(t, "resume-1", "Platform", 1)
	logic := NewKnowledgeLogic(context.Background(), env.core)

	texts := []string{
		longText("alpha revision of the platform writeup", 40),
		longText("beta rewrite covering ingestion and ranking", 40),
		longText("gamma draft describing the storage layout", 40),
	}

	var wg sync.WaitGroup
	for _, text := range texts {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			if err := logic.ReplaceSourceChunks("resume-1", types.SOURCE_TYPE_PROJECT, project.ID, text); err != nil {
				t.Errorf("replace source chunks: %v", err)
			}
		}(text)
	}
	wg.Wait()

	chunks := env.chunksForSource(project.ID)
	require.NotEmpty(t, chunks)

	// the surviving set must be wholly one writer's, never a mix
	matched := false
	for _, text := range texts {
		want := chunker.Split(text, chunker.Options{})
		if len(want) != len(chunks) {
			continue
		}
		same := true
		for i := range want {
			if chunks[i].Hash != want[i].Hash {
				same = false
				break
			}
		}
		if same {
			matched = true
			break
		}
	}
	assert.True(t, matched, "chunk set mixes concurrent writers")
	assert.Len(t, env.vectorsForSource(project.ID), len(chunks))
}

func TestDeleteSourceChunks(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedProject(t, "resume-1", "Gone", 1)
	env.indexSource(t, "resume-1", types.SOURCE_TYPE_PROJECT, project.ID, "soon to be deleted")

	logic := NewKnowledgeLogic(context.Background(), env.core)
	require.NoError(t, logic.DeleteSourceChunks("resume-1", types.SOURCE_TYPE_PROJECT, project.ID))

	assert.Empty(t, env.chunksForSource(project.ID))
	assert.Empty(t, env.vectorsForSource(project.ID))
}
