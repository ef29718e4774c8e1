package v1

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pgvector/pgvector-go"
	"github.com/samber/lo"

	"github.com/resumid-ai/resumid/app/core"
	"github.com/resumid-ai/resumid/pkg/chunker"
	"github.com/resumid-ai/resumid/pkg/errors"
	"github.com/resumid-ai/resumid/pkg/i18n"
	"github.com/resumid-ai/resumid/pkg/safe"
	"github.com/resumid-ai/resumid/pkg/types"
	"github.com/resumid-ai/resumid/pkg/utils"
)

// sourceLocks serializes chunk replacement per (resume, source type, source
// id). Replacements for different sources never block each other.
var sourceLocks = cmap.New[*sync.Mutex]()

func lockSource(resumeID string, sourceType types.SourceType, sourceID string) *sync.Mutex {
	key := fmt.Sprintf("%s/%s/%s", resumeID, sourceType, sourceID)
	mu, _ := sourceLocks.Get(key)
	if mu == nil {
		mu = &sync.Mutex{}
		if !sourceLocks.SetIfAbsent(key, mu) {
			mu, _ = sourceLocks.Get(key)
		}
	}
	mu.Lock()
	return mu
}

type KnowledgeLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewKnowledgeLogic(ctx context.Context, core *core.Core) *KnowledgeLogic {
	return &KnowledgeLogic{
		ctx:  ctx,
		core: core,
	}
}

// EmbeddedChunk is one chunk of source text together with its embedding.
type EmbeddedChunk struct {
	Content    string
	ChunkIndex int
	Hash       string
	Model      string
	Dim        int
	Embedding  []float32
}

// embeddingTokenLimit keeps every chunk under the OpenAI embedding context
// of 8192 tokens, with headroom for encoding differences.
const embeddingTokenLimit = 8000

// GenerateEmbeddings splits text into chunks and embeds each one. Empty
// text yields an empty sequence without calling the provider. A provider
// failure fails the whole call so no partial vectors leak downstream.
func (l *KnowledgeLogic) GenerateEmbeddings(text string, opts chunker.Options) ([]EmbeddedChunk, error) {
	if opts.CountTokens == nil {
		opts.MaxTokens = embeddingTokenLimit
		opts.CountTokens = l.core.Srv().AI().CountTokens
	}

	chunks := chunker.Split(text, opts)
	if len(chunks) == 0 {
		return nil, nil
	}

	timer := l.core.Metrics().EmbeddingRequestTimer(l.core.Srv().AI().Model())
	resp, err := l.core.Srv().AI().EmbeddingForDocument(l.ctx, "", lo.Map(chunks, func(item chunker.Chunk, _ int) string {
		return item.Content
	}))
	timer.ObserveDuration()
	if err != nil {
		l.core.Metrics().EmbeddingErrorInc(l.core.Srv().AI().Model())
		return nil, errors.Trace("KnowledgeLogic.GenerateEmbeddings.EmbeddingForDocument", err)
	}
	if len(resp.Data) != len(chunks) {
		return nil, errors.New("KnowledgeLogic.GenerateEmbeddings.Mismatch", i18n.ERROR_EMBEDDING_PROVIDER,
			fmt.Errorf("embedding count mismatch, want %d got %d", len(chunks), len(resp.Data))).Code(http.StatusBadGateway)
	}

	result := make([]EmbeddedChunk, 0, len(chunks))
	for i, c := range chunks {
		result = append(result, EmbeddedChunk{
			Content:    c.Content,
			ChunkIndex: c.ChunkIndex,
			Hash:       c.Hash,
			Model:      resp.Model,
			Dim:        resp.Dim,
			Embedding:  resp.Data[i],
		})
	}
	return result, nil
}

// ReplaceSourceChunks re-indexes one source: it embeds the new text, then
// atomically deletes every existing chunk and vector for the source and
// inserts the fresh set. The owning entity must exist before any deletion
// happens. Calls for the same source are serialized.
func (l *KnowledgeLogic) ReplaceSourceChunks(resumeID string, sourceType types.SourceType, sourceID, text string) error {
	if sourceType == types.SOURCE_TYPE_UNKNOWN || !types.ValidSourceID(sourceType, sourceID) {
		return errors.New("KnowledgeLogic.ReplaceSourceChunks.InvalidSource", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	exists, err := l.sourceExists(resumeID, sourceType, sourceID)
	if err != nil {
		return errors.Trace("KnowledgeLogic.ReplaceSourceChunks.sourceExists", err)
	}
	if !exists {
		return errors.New("KnowledgeLogic.ReplaceSourceChunks.SourceNotFound", i18n.ERROR_SOURCE_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	embeddings, err := l.GenerateEmbeddings(strings.TrimSpace(text), chunker.Options{})
	if err != nil {
		return err
	}

	mu := lockSource(resumeID, sourceType, sourceID)
	defer mu.Unlock()

	now := time.Now().Unix()
	chunks := make([]*types.KnowledgeChunk, 0, len(embeddings))
	vectors := make([]types.Vector, 0, len(embeddings))
	for _, e := range embeddings {
		chunkID := utils.GenUniqIDStr()
		chunks = append(chunks, &types.KnowledgeChunk{
			ID:         chunkID,
			ResumeID:   resumeID,
			SourceType: sourceType,
			SourceID:   sourceID,
			ChunkIndex: e.ChunkIndex,
			Chunk:      e.Content,
			Hash:       e.Hash,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		vectors = append(vectors, types.Vector{
			ID:         utils.GenUniqIDStr(),
			ChunkID:    chunkID,
			ResumeID:   resumeID,
			SourceType: sourceType,
			SourceID:   sourceID,
			Model:      e.Model,
			Dim:        e.Dim,
			Embedding:  pgvector.NewVector(e.Embedding),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().VectorStore().DeleteBySource(ctx, resumeID, sourceType, sourceID); err != nil {
			return errors.New("KnowledgeLogic.ReplaceSourceChunks.VectorStore.DeleteBySource", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().KnowledgeChunkStore().DeleteBySource(ctx, resumeID, sourceType, sourceID); err != nil {
			return errors.New("KnowledgeLogic.ReplaceSourceChunks.KnowledgeChunkStore.DeleteBySource", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().KnowledgeChunkStore().BatchCreate(ctx, chunks); err != nil {
			return errors.New("KnowledgeLogic.ReplaceSourceChunks.KnowledgeChunkStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().VectorStore().BatchCreate(ctx, vectors); err != nil {
			return errors.New("KnowledgeLogic.ReplaceSourceChunks.VectorStore.BatchCreate", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

// AsyncReplaceSourceChunks runs the replacement in the background. Used by
// the content handlers so editing stays responsive; a failed run only means
// the item is not searchable yet.
func (l *KnowledgeLogic) AsyncReplaceSourceChunks(resumeID string, sourceType types.SourceType, sourceID, text string) {
	safe.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		logic := NewKnowledgeLogic(ctx, l.core)
		if err := logic.ReplaceSourceChunks(resumeID, sourceType, sourceID, text); err != nil {
			slog.Error("failed to replace source chunks",
				slog.String("resume_id", resumeID),
				slog.String("source_type", string(sourceType)),
				slog.String("source_id", sourceID),
				slog.String("error", err.Error()))
		}
	})
}

// DeleteSourceChunks removes every chunk and vector for a source, e.g.
// after the owning entity is deleted.
func (l *KnowledgeLogic) DeleteSourceChunks(resumeID string, sourceType types.SourceType, sourceID string) error {
	mu := lockSource(resumeID, sourceType, sourceID)
	defer mu.Unlock()

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().VectorStore().DeleteBySource(ctx, resumeID, sourceType, sourceID); err != nil {
			return errors.New("KnowledgeLogic.DeleteSourceChunks.VectorStore.DeleteBySource", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().KnowledgeChunkStore().DeleteBySource(ctx, resumeID, sourceType, sourceID); err != nil {
			return errors.New("KnowledgeLogic.DeleteSourceChunks.KnowledgeChunkStore.DeleteBySource", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
}

func (l *KnowledgeLogic) sourceExists(resumeID string, sourceType types.SourceType, sourceID string) (bool, error) {
	switch sourceType {
	case types.SOURCE_TYPE_PROJECT:
		data, err := l.core.Store().ProjectStore().Get(l.ctx, sourceID)
		return data != nil && data.ResumeID == resumeID, err
	case types.SOURCE_TYPE_BULLET_POINT:
		data, err := l.core.Store().BulletPointStore().Get(l.ctx, sourceID)
		return data != nil && data.ResumeID == resumeID, err
	case types.SOURCE_TYPE_BRANCH:
		data, err := l.core.Store().BranchStore().Get(l.ctx, sourceID)
		return data != nil && data.ResumeID == resumeID, err
	case types.SOURCE_TYPE_PAGE:
		data, err := l.core.Store().PageStore().Get(l.ctx, sourceID)
		return data != nil && data.ResumeID == resumeID, err
	case types.SOURCE_TYPE_AUDIO_SUMMARY:
		data, err := l.core.Store().AudioSummaryStore().Get(l.ctx, sourceID)
		return data != nil && data.ResumeID == resumeID, err
	default:
		return false, nil
	}
}
