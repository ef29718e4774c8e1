package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"

	"github.com/resumid-ai/resumid/pkg/register"
	"github.com/resumid-ai/resumid/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.VectorStore = NewVectorStore(provider)
	})
}

type VectorStore struct {
	CommonFields
}

func NewVectorStore(provider SqlProviderAchieve) *VectorStore {
	repo := &VectorStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_VECTORS)
	repo.SetAllColumns("id", "chunk_id", "resume_id", "source_type", "source_id", "model", "dim", "embedding", "created_at", "updated_at")
	return repo
}

func (s *VectorStore) Create(ctx context.Context, data types.Vector) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.ChunkID, data.ResumeID, data.SourceType, data.SourceID, data.Model, data.Dim, data.Embedding, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) BatchCreate(ctx context.Context, datas []types.Vector) error {
	if len(datas) == 0 {
		return nil
	}

	query := sq.Insert(s.GetTable()).Columns(s.GetAllColumns()...)

	for _, data := range datas {
		if data.CreatedAt == 0 {
			data.CreatedAt = time.Now().Unix()
		}
		if data.UpdatedAt == 0 {
			data.UpdatedAt = time.Now().Unix()
		}
		query = query.Values(data.ID, data.ChunkID, data.ResumeID, data.SourceType, data.SourceID, data.Model, data.Dim, data.Embedding, data.CreatedAt, data.UpdatedAt)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) DeleteBySource(ctx context.Context, resumeID string, sourceType types.SourceType, sourceID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"resume_id": resumeID, "source_type": sourceType, "source_id": sourceID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *VectorStore) ListVectors(ctx context.Context, opts types.GetVectorsOptions, page, pageSize uint64) ([]types.Vector, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("chunk_id")
	if page != types.NO_PAGING && pageSize != types.NO_PAGING {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Vector
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// Query ranks candidates by cosine similarity in the database.
// pgvector distance operators:
// <-> - L2 distance
// <#> - (negative) inner product
// <=> - cosine distance
func (s *VectorStore) Query(ctx context.Context, opts types.GetVectorsOptions, vector pgvector.Vector, limit uint64) ([]types.QueryResult, error) {
	cosColumn, vectorArgs, _ := sq.Expr("1 - (embedding <=> ?) as cos", vector).ToSql()
	query := sq.Select("chunk_id", "source_type", "source_id", cosColumn).
		From(s.GetTable()).
		OrderBy("cos DESC", "chunk_id").
		Limit(limit)
	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	args = append(vectorArgs, args...)

	var res []types.QueryResult
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
