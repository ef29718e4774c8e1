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
		provider.stores.AudioSummaryStore = NewAudioSummaryStore(provider)
	})
}

type AudioSummaryStore struct {
	CommonFields
}

func NewAudioSummaryStore(provider SqlProviderAchieve) *AudioSummaryStore {
	repo := &AudioSummaryStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_AUDIO_SUMMARY)
	repo.SetAllColumns("id", "resume_id", "page_id", "file_name", "language", "duration", "summary_points", "created_at", "updated_at")
	return repo
}

func (s *AudioSummaryStore) Create(ctx context.Context, data types.AudioSummary) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.ResumeID, data.PageID, data.FileName, data.Language, data.Duration, data.SummaryPoints, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *AudioSummaryStore) Get(ctx context.Context, id string) (*types.AudioSummary, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.AudioSummary
	if err := s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

func (s *AudioSummaryStore) Update(ctx context.Context, id string, data types.AudioSummary) error {
	query := sq.Update(s.GetTable()).
		Set("file_name", data.FileName).
		Set("language", data.Language).
		Set("duration", data.Duration).
		Set("summary_points", data.SummaryPoints).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *AudioSummaryStore) Delete(ctx context.Context, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *AudioSummaryStore) List(ctx context.Context, opts types.ListEntityOptions) ([]types.AudioSummary, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at", "id")
	opts.Apply("page_id", &query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.AudioSummary
	if err := s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
