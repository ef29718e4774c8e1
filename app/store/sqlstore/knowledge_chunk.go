package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/resumid-ai/resumid/pkg/register"
	"github.com/resumid-ai/resumid/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.KnowledgeChunkStore = NewKnowledgeChunkStore(provider)
	})
}

type KnowledgeChunkStore struct {
	CommonFields
}

func NewKnowledgeChunkStore(provider SqlProviderAchieve) *KnowledgeChunkStore {
	repo := &KnowledgeChunkStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_KNOWLEDGE_CHUNK)
	repo.SetAllColumns("id", "resume_id", "source_type", "source_id", "chunk_index", "chunk", "hash", "created_at", "updated_at")
	return repo
}

func (s *KnowledgeChunkStore) Create(ctx context.Context, data types.KnowledgeChunk) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.ResumeID, data.SourceType, data.SourceID, data.ChunkIndex, data.Chunk, data.Hash, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *KnowledgeChunkStore) BatchCreate(ctx context.Context, data []*types.KnowledgeChunk) error {
	if len(data) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).Columns(s.GetAllColumns()...)

	for _, item := range data {
		if item.CreatedAt == 0 {
			item.CreatedAt = time.Now().Unix()
		}
		if item.UpdatedAt == 0 {
			item.UpdatedAt = time.Now().Unix()
		}
		query = query.Values(item.ID, item.ResumeID, item.SourceType, item.SourceID, item.ChunkIndex, item.Chunk, item.Hash, item.CreatedAt, item.UpdatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *KnowledgeChunkStore) Get(ctx context.Context, id string) (*types.KnowledgeChunk, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.KnowledgeChunk
	if err := s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (s *KnowledgeChunkStore) DeleteBySource(ctx context.Context, resumeID string, sourceType types.SourceType, sourceID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"resume_id": resumeID, "source_type": sourceType, "source_id": sourceID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *KnowledgeChunkStore) List(ctx context.Context, opts types.GetChunkOptions, page, pageSize uint64) ([]types.KnowledgeChunk, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("source_id", "chunk_index")
	if page != types.NO_PAGING && pageSize != types.NO_PAGING {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.KnowledgeChunk
	if err := s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// Match runs full text search over the resume's chunks, ranked by ts_rank
// with chunk id breaking ties so identical queries return a stable order.
func (s *KnowledgeChunkStore) Match(ctx context.Context, resumeID, keywords string, limit uint64, sourceTypes []types.SourceType) ([]types.KnowledgeChunk, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"resume_id": resumeID}).
		Where(sq.Expr("to_tsvector('simple', chunk) @@ plainto_tsquery('simple', ?)", keywords)).
		OrderByClause("ts_rank(to_tsvector('simple', chunk), plainto_tsquery('simple', ?)) DESC", keywords).
		OrderBy("id").
		Limit(limit)
	if len(sourceTypes) > 0 {
		query = query.Where(sq.Eq{"source_type": sourceTypes})
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.KnowledgeChunk
	if err := s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
