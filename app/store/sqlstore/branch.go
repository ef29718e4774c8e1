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
		provider.stores.BranchStore = NewBranchStore(provider)
	})
}

type BranchStore struct {
	CommonFields
}

func NewBranchStore(provider SqlProviderAchieve) *BranchStore {
	repo := &BranchStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_BRANCH)
	repo.SetAllColumns("id", "resume_id", "bullet_id", "branch_type", "content", "position", "created_at", "updated_at")
	return repo
}

func (s *BranchStore) Create(ctx context.Context, data types.Branch) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.ResumeID, data.BulletID, data.BranchType, data.Content, data.Position, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *BranchStore) Get(ctx context.Context, id string) (*types.Branch, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Branch
	if err := s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (s *BranchStore) Update(ctx context.Context, id string, data types.Branch) error {
	query := sq.Update(s.GetTable()).
		Set("branch_type", data.BranchType).
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

func (s *BranchStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *BranchStore) List(ctx context.Context, opts types.ListEntityOptions) ([]types.Branch, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("position", "id")
	opts.Apply("bullet_id", &query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Branch
	if err := s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
