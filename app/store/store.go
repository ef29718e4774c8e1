package store

import (
	"context"

	"github.com/pgvector/pgvector-go"

	"github.com/resumid-ai/resumid/pkg/sqlstore"
	"github.com/resumid-ai/resumid/pkg/types"
)

// Store is the umbrella the logic layer depends on. The sql implementation
// lives in app/store/sqlstore; tests use in-memory fakes.
type Store interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	// HasVectorIndex reports whether the storage layer supports native
	// nearest neighbor queries. When false, callers fall back to a full
	// scan over ListVectors.
	HasVectorIndex() bool

	KnowledgeChunkStore() KnowledgeChunkStore
	VectorStore() VectorStore
	ProjectStore() ProjectStore
	BulletPointStore() BulletPointStore
	BranchStore() BranchStore
	PageStore() PageStore
	AudioSummaryStore() AudioSummaryStore
}

type KnowledgeChunkStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.KnowledgeChunk) error
	BatchCreate(ctx context.Context, data []*types.KnowledgeChunk) error
	Get(ctx context.Context, id string) (*types.KnowledgeChunk, error)
	DeleteBySource(ctx context.Context, resumeID string, sourceType types.SourceType, sourceID string) error
	List(ctx context.Context, opts types.GetChunkOptions, page, pageSize uint64) ([]types.KnowledgeChunk, error)
	// Match runs full text search scoped to the resume, ordered by the
	// engine's relevance ranking with chunk id as the deterministic tie
	// breaker.
	Match(ctx context.Context, resumeID, query string, limit uint64, sourceTypes []types.SourceType) ([]types.KnowledgeChunk, error)
}

type VectorStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Vector) error
	BatchCreate(ctx context.Context, datas []types.Vector) error
	DeleteBySource(ctx context.Context, resumeID string, sourceType types.SourceType, sourceID string) error
	ListVectors(ctx context.Context, opts types.GetVectorsOptions, page, pageSize uint64) ([]types.Vector, error)
	// Query is the native nearest neighbor path, returning raw cosine
	// similarity per candidate, best first.
	Query(ctx context.Context, opts types.GetVectorsOptions, vector pgvector.Vector, limit uint64) ([]types.QueryResult, error)
}

type ProjectStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Project) error
	Get(ctx context.Context, id string) (*types.Project, error)
	Update(ctx context.Context, id string, data types.Project) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts types.ListEntityOptions) ([]types.Project, error)
}

type BulletPointStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.BulletPoint) error
	Get(ctx context.Context, id string) (*types.BulletPoint, error)
	Update(ctx context.Context, id string, data types.BulletPoint) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts types.ListEntityOptions) ([]types.BulletPoint, error)
}

type BranchStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Branch) error
	Get(ctx context.Context, id string) (*types.Branch, error)
	Update(ctx context.Context, id string, data types.Branch) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts types.ListEntityOptions) ([]types.Branch, error)
}

type PageStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Page) error
	Get(ctx context.Context, id string) (*types.Page, error)
	Update(ctx context.Context, id string, data types.Page) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts types.ListEntityOptions) ([]types.Page, error)
}

type AudioSummaryStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.AudioSummary) error
	Get(ctx context.Context, id string) (*types.AudioSummary, error)
	Update(ctx context.Context, id string, data types.AudioSummary) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts types.ListEntityOptions) ([]types.AudioSummary, error)
}
