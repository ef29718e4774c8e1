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
		provider.stores.BulletPointStore = NewBulletPointStore(provider)
	})
}

type BulletPointStore struct {
	CommonFields
}

func NewBulletPointStore(provider SqlProviderAchieve) *BulletPointStore {
	repo := &BulletPointStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_BULLET_POINT)
	repo.SetAllColumns("id", "resume_id", "project_id", "content", "position", "created_at", "updated_at")
	return repo
}

func (s *BulletPointStore) Create(ctx context.Context, data types.BulletPoint) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.ResumeID, data.ProjectID, data.Content, data.Position, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *BulletPointStore) Get(ctx context.Context, id string) (*types.BulletPoint, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.BulletPoint
	if err := s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (s *BulletPointStore) Update(ctx context.Context, id string, data types.BulletPoint) error {
	query := sq.Update(s.GetTable()).
		Set("content", data.Content).
		Set("position", data.Position).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *BulletPointStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *BulletPointStore) List(ctx context.Context, opts types.ListEntityOptions) ([]types.BulletPoint, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("position", "id")
	opts.Apply("project_id", &query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.BulletPoint
	if err := s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
