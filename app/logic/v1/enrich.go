package v1

import (
	"context"
	"log/slog"

	"github.com/resumid-ai/resumid/app/core"
	"github.com/resumid-ai/resumid/pkg/types"
)

type EnrichLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewEnrichLogic(ctx context.Context, core *core.Core) *EnrichLogic {
	return &EnrichLogic{
		ctx:  ctx,
		core: core,
	}
}

// Enrich loads the owning entity of a hit and shapes its metadata by source
// type. A missing owner means the chunk is dangling: the hit degrades to
// nil metadata and the cleanup job will collect it later. Malformed ids
// short-circuit to nil without touching the store.
func (l *EnrichLogic) Enrich(sourceType types.SourceType, sourceID string) *types.HitMetadata {
	if !types.ValidSourceID(sourceType, sourceID) {
		return nil
	}

	var (
		meta *types.HitMetadata
		err  error
	)
	switch sourceType {
	case types.SOURCE_TYPE_PROJECT:
		meta, err = l.enrichProject(sourceID)
	case types.SOURCE_TYPE_BULLET_POINT:
		meta, err = l.enrichBulletPoint(sourceID)
	case types.SOURCE_TYPE_BRANCH:
		meta, err = l.enrichBranch(sourceID)
	case types.SOURCE_TYPE_PAGE:
		meta, err = l.enrichPage(sourceID)
	case types.SOURCE_TYPE_AUDIO_SUMMARY:
		meta, err = l.enrichAudioSummary(sourceID)
	default:
		return nil
	}
	if err != nil {
		slog.Debug("metadata enrichment failed",
			slog.String("source_type", string(sourceType)),
			slog.String("source_id", sourceID),
			slog.String("error", err.Error()))
		return nil
	}
	if meta == nil {
		l.core.Metrics().DanglingChunkInc(string(sourceType))
		slog.Debug("dangling chunk, owner entity missing",
			slog.String("source_type", string(sourceType)),
			slog.String("source_id", sourceID))
	}
	return meta
}

func (l *EnrichLogic) enrichProject(sourceID string) (*types.HitMetadata, error) {
	project, err := l.core.Store().ProjectStore().Get(l.ctx, sourceID)
	if err != nil || project == nil {
		return nil, err
	}
	return &types.HitMetadata{
		Kind: types.SOURCE_TYPE_PROJECT,
		Project: &types.ProjectMetadata{
			Title:       project.Title,
			Description: project.Description,
			Position:    project.Position,
		},
	}, nil
}

func (l *EnrichLogic) enrichBulletPoint(sourceID string) (*types.HitMetadata, error) {
	bullet, err := l.core.Store().BulletPointStore().Get(l.ctx, sourceID)
	if err != nil || bullet == nil {
		return nil, err
	}

	meta := &types.BulletPointMetadata{
		Content:   bullet.Content,
		Position:  bullet.Position,
		ProjectID: bullet.ProjectID,
	}
	if project, err := l.core.Store().ProjectStore().Get(l.ctx, bullet.ProjectID); err == nil && project != nil {
		meta.ProjectTitle = project.Title
	}
	return &types.HitMetadata{
		Kind:        types.SOURCE_TYPE_BULLET_POINT,
		BulletPoint: meta,
	}, nil
}

func (l *EnrichLogic) enrichBranch(sourceID string) (*types.HitMetadata, error) {
	branch, err := l.core.Store().BranchStore().Get(l.ctx, sourceID)
	if err != nil || branch == nil {
		return nil, err
	}

	meta := &types.BranchMetadata{
		Content:    branch.Content,
		BranchType: branch.BranchType,
		Position:   branch.Position,
	}
	if bullet, err := l.core.Store().BulletPointStore().Get(l.ctx, branch.BulletID); err == nil && bullet != nil {
		meta.BulletContent = bullet.Content
		if project, err := l.core.Store().ProjectStore().Get(l.ctx, bullet.ProjectID); err == nil && project != nil {
			meta.ProjectTitle = project.Title
		}
	}
	return &types.HitMetadata{
		Kind:   types.SOURCE_TYPE_BRANCH,
		Branch: meta,
	}, nil
}

func (l *EnrichLogic) enrichPage(sourceID string) (*types.HitMetadata, error) {
	page, err := l.core.Store().PageStore().Get(l.ctx, sourceID)
	if err != nil || page == nil {
		return nil, err
	}
	return &types.HitMetadata{
		Kind: types.SOURCE_TYPE_PAGE,
		Page: &types.PageMetadata{
			Title:    page.Title,
			Icon:     page.Icon,
			IsPublic: page.IsPublic,
			Position: page.Position,
			PageID:   page.ID,
		},
	}, nil
}

func (l *EnrichLogic) enrichAudioSummary(sourceID string) (*types.HitMetadata, error) {
	audio, err := l.core.Store().AudioSummaryStore().Get(l.ctx, sourceID)
	if err != nil || audio == nil {
		return nil, err
	}

	meta := &types.AudioSummaryMetadata{
		FileName:           audio.FileName,
		Language:           audio.Language,
		Duration:           audio.Duration,
		PageID:             audio.PageID,
		SummaryPointsCount: len(audio.SummaryPoints),
	}
	if page, err := l.core.Store().PageStore().Get(l.ctx, audio.PageID); err == nil && page != nil {
		meta.PageTitle = page.Title
	}
	return &types.HitMetadata{
		Kind:         types.SOURCE_TYPE_AUDIO_SUMMARY,
		AudioSummary: meta,
	}, nil
}
