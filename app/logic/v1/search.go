package v1

import (
	"context"
	"strings"
	"sync"

	"github.com/pgvector/pgvector-go"
	"github.com/samber/lo"

	"github.com/resumid-ai/resumid/app/core"
	"github.com/resumid-ai/resumid/pkg/errors"
	"github.com/resumid-ai/resumid/pkg/i18n"
	"github.com/resumid-ai/resumid/pkg/retrieval"
	"github.com/resumid-ai/resumid/pkg/types"
	"github.com/resumid-ai/resumid/pkg/utils"
)

type SearchLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewSearchLogic(ctx context.Context, core *core.Core) *SearchLogic {
	return &SearchLogic{
		ctx:  ctx,
		core: core,
	}
}

// Search is the hybrid entry point: it embeds the query, runs the lexical
// and vector channels concurrently, fuses both rankings and enriches the
// surviving hits with source metadata.
func (l *SearchLogic) Search(resumeID, query string, opts types.SearchOptions) ([]types.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" || opts.Limit <= 0 {
		return []types.SearchHit{}, nil
	}

	resp, err := l.core.Srv().AI().EmbeddingForQuery(l.ctx, []string{query})
	if err != nil {
		return nil, errors.Trace("SearchLogic.Search.EmbeddingForQuery", err)
	}
	if len(resp.Data) == 0 {
		return []types.SearchHit{}, nil
	}
	queryVector := resp.Data[0]

	pool := l.core.Cfg().Retrieval.CandidatePool(opts.Limit)

	var (
		wg          sync.WaitGroup
		vectorHits  []types.SearchHit
		lexicalHits []types.SearchHit
		vectorErr   error
		lexicalErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result, err := l.VectorSearch(resumeID, queryVector, resp.Model, pool, opts.SourceTypes, opts.MinScore)
		vectorHits, vectorErr = result.Hits, err
	}()
	go func() {
		defer wg.Done()
		lexicalHits, lexicalErr = l.LexicalSearch(resumeID, query, pool, opts.SourceTypes)
	}()
	wg.Wait()

	if vectorErr != nil {
		return nil, errors.Trace("SearchLogic.Search.VectorSearch", vectorErr)
	}
	if lexicalErr != nil {
		return nil, errors.Trace("SearchLogic.Search.LexicalSearch", lexicalErr)
	}

	fused := retrieval.Fuse(vectorHits, lexicalHits, l.core.Cfg().Retrieval.Weights(), opts.Limit)

	if err := l.hydrateChunks(resumeID, fused); err != nil {
		return nil, errors.Trace("SearchLogic.Search.hydrateChunks", err)
	}

	enricher := NewEnrichLogic(l.ctx, l.core)
	for i := range fused {
		fused[i].Metadata = enricher.Enrich(fused[i].SourceType, fused[i].SourceID)
	}

	return fused, nil
}

// VectorSearch ranks candidates by cosine similarity against the query
// vector, over the native index when available and a full scan otherwise.
// Both paths rank identically. An unsupported query dimension yields an
// empty result, not an error.
func (l *SearchLogic) VectorSearch(resumeID string, queryVector []float32, model string, limit uint64, sourceTypes []types.SourceType, minScore *float64) (types.VectorSearchResult, error) {
	getOpts := types.GetVectorsOptions{
		ResumeID: resumeID,
		Model:    model,
		Dim:      len(queryVector),
	}

	var (
		candidates []types.QueryResult
		err        error
	)
	if l.core.Store().HasVectorIndex() && !l.core.Cfg().Retrieval.ForceScan {
		candidates, err = l.core.Store().VectorStore().Query(l.ctx, getOpts, pgvector.NewVector(queryVector), limit)
		if err != nil {
			return types.VectorSearchResult{}, errors.New("SearchLogic.VectorSearch.VectorStore.Query", i18n.ERROR_INTERNAL, err)
		}
	} else {
		vectors, err := l.core.Store().VectorStore().ListVectors(l.ctx, getOpts, types.NO_PAGING, types.NO_PAGING)
		if err != nil {
			return types.VectorSearchResult{}, errors.New("SearchLogic.VectorSearch.VectorStore.ListVectors", i18n.ERROR_INTERNAL, err)
		}
		candidates = retrieval.ScanRank(queryVector, vectors, int(limit))
	}

	if minScore == nil && l.core.Cfg().Retrieval.MinScore > 0 {
		defaultMin := l.core.Cfg().Retrieval.MinScore
		minScore = &defaultMin
	}

	kept, filteredByScore, filteredByType := retrieval.FilterCandidates(candidates, minScore, sourceTypes)
	l.core.Metrics().SearchFilteredAdd("score", filteredByScore)
	l.core.Metrics().SearchFilteredAdd("type", filteredByType)

	hits := lo.Map(kept, func(item types.QueryResult, _ int) types.SearchHit {
		return types.SearchHit{
			ChunkID:    item.ChunkID,
			SourceType: item.SourceType,
			SourceID:   item.SourceID,
			Score:      retrieval.NormalizeCosine(float64(item.Cos)),
		}
	})

	return types.VectorSearchResult{
		Hits:            hits,
		FilteredByScore: filteredByScore,
		FilteredByType:  filteredByType,
	}, nil
}

// LexicalSearch returns keyword candidates scored by token overlap with
// the query.
func (l *SearchLogic) LexicalSearch(resumeID, query string, limit uint64, sourceTypes []types.SourceType) ([]types.SearchHit, error) {
	chunks, err := l.core.Store().KnowledgeChunkStore().Match(l.ctx, resumeID, query, limit, sourceTypes)
	if err != nil {
		return nil, errors.New("SearchLogic.LexicalSearch.KnowledgeChunkStore.Match", i18n.ERROR_INTERNAL, err)
	}

	queryTokens := utils.Tokenize(query)
	return lo.Map(chunks, func(item types.KnowledgeChunk, _ int) types.SearchHit {
		return types.SearchHit{
			ChunkID:    item.ID,
			SourceType: item.SourceType,
			SourceID:   item.SourceID,
			Chunk:      item.Chunk,
			ChunkIndex: item.ChunkIndex,
			Score:      retrieval.LexicalScore(queryTokens, item.Chunk),
		}
	}), nil
}

// hydrateChunks fills in chunk text for hits that came from the vector
// channel only. Chunks deleted between ranking and hydration keep an empty
// body rather than failing the search.
func (l *SearchLogic) hydrateChunks(resumeID string, hits []types.SearchHit) error {
	missing := lo.FilterMap(hits, func(item types.SearchHit, _ int) (string, bool) {
		return item.ChunkID, item.Chunk == ""
	})
	if len(missing) == 0 {
		return nil
	}

	chunks, err := l.core.Store().KnowledgeChunkStore().List(l.ctx, types.GetChunkOptions{
		ResumeID: resumeID,
		IDs:      missing,
	}, types.NO_PAGING, types.NO_PAGING)
	if err != nil {
		return errors.New("SearchLogic.hydrateChunks.KnowledgeChunkStore.List", i18n.ERROR_INTERNAL, err)
	}

	byID := lo.SliceToMap(chunks, func(item types.KnowledgeChunk) (string, types.KnowledgeChunk) {
		return item.ID, item
	})
	for i := range hits {
		if hits[i].Chunk != "" {
			continue
		}
		if c, ok := byID[hits[i].ChunkID]; ok {
			hits[i].Chunk = c.Chunk
			hits[i].ChunkIndex = c.ChunkIndex
		}
	}
	return nil
}
