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
		provider.stores.PageStore = NewPageStore(provider)
	})
}

type PageStore struct {
	CommonFields
}

func NewPageStore(provider SqlProviderAchieve) *PageStore {
	repo := &PageStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_PAGE)
	repo.SetAllColumns("id", "resume_id", "title", "icon", "is_public", "position", "created_at", "updated_at")
	return repo
}

func (s *PageStore) Create(ctx context.Context, data types.Page) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.ResumeID, data.Title, data.Icon, data.IsPublic, data.Position, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PageStore) Get(ctx context.Context, id string) (*types.Page, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Page
	if err := s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (s *PageStore) Update(ctx context.Context, id string, data types.Page) error {
	query := sq.Update(s.GetTable()).
		Set("title", data.Title).
		Set("icon", data.Icon).
		Set("is_public", data.IsPublic).
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

func (s *PageStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *PageStore) List(ctx context.Context, opts types.ListEntityOptions) ([]types.Page, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("position", "id")
	opts.Apply("", &query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Page
	if err := s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
