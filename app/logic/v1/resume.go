package v1

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/resumid-ai/resumid/app/core"
	"github.com/resumid-ai/resumid/pkg/errors"
	"github.com/resumid-ai/resumid/pkg/i18n"
	"github.com/resumid-ai/resumid/pkg/types"
	"github.com/resumid-ai/resumid/pkg/utils"
)

// ResumeLogic owns the lifecycle of resume entities. Every mutation that
// changes indexable text schedules a background chunk rebuild for that
// entity, and deletes take the entity's chunks and vectors with it.
type ResumeLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewResumeLogic(ctx context.Context, core *core.Core) *ResumeLogic {
	return &ResumeLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *ResumeLogic) knowledge() *KnowledgeLogic {
	return NewKnowledgeLogic(l.ctx, l.core)
}

type CreateProjectArgs struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

func (l *ResumeLogic) CreateProject(resumeID string, args CreateProjectArgs) (*types.Project, error) {
	if strings.TrimSpace(args.Title) == "" {
		return nil, errors.New("ResumeLogic.CreateProject.EmptyTitle", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	now := time.Now().Unix()
	project := types.Project{
		ID:          utils.GenSourceID(types.SourceIDPrefix(types.SOURCE_TYPE_PROJECT)),
		ResumeID:    resumeID,
		Title:       args.Title,
		Description: args.Description,
		Position:    args.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.core.Store().ProjectStore().Create(l.ctx, project); err != nil {
		return nil, errors.New("ResumeLogic.CreateProject.ProjectStore.Create", i18n.ERROR_INTERNAL, err)
	}

	l.knowledge().AsyncReplaceSourceChunks(resumeID, types.SOURCE_TYPE_PROJECT, project.ID, projectText(project))
	return &project, nil
}

func (l *ResumeLogic) UpdateProject(resumeID, id string, args CreateProjectArgs) error {
	project, err := l.core.Store().ProjectStore().Get(l.ctx, id)
	if err != nil {
		return errors.New("ResumeLogic.UpdateProject.ProjectStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if project == nil || project.ResumeID != resumeID {
		return errors.New("ResumeLogic.UpdateProject.NotFound", i18n.ERROR_SOURCE_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	project.Title = args.Title
	project.Description = args.Description
	project.Position = args.Position
	project.UpdatedAt = time.Now().Unix()
	if err := l.core.Store().ProjectStore().Update(l.ctx, id, *project); err != nil {
		return errors.New("ResumeLogic.UpdateProject.ProjectStore.Update", i18n.ERROR_INTERNAL, err)
	}

	l.knowledge().AsyncReplaceSourceChunks(resumeID, types.SOURCE_TYPE_PROJECT, id, projectText(*project))
	return nil
}

func (l *ResumeLogic) DeleteProject(resumeID, id string) error {
	if err := l.core.Store().ProjectStore().Delete(l.ctx, id); err != nil {
		return errors.New("ResumeLogic.DeleteProject.ProjectStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	return l.knowledge().DeleteSourceChunks(resumeID, types.SOURCE_TYPE_PROJECT, id)
}

type CreateBulletPointArgs struct {
	ProjectID string `json:"project_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Position  int    `json:"position"`
}

func (l *ResumeLogic) CreateBulletPoint(resumeID string, args CreateBulletPointArgs) (*types.BulletPoint, error) {
	project, err := l.core.Store().ProjectStore().Get(l.ctx, args.ProjectID)
	if err != nil {
		return nil, errors.New("ResumeLogic.CreateBulletPoint.ProjectStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if project == nil || project.ResumeID != resumeID {
		return nil, errors.New("ResumeLogic.CreateBulletPoint.ProjectNotFound", i18n.ERROR_SOURCE_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	now := time.Now().Unix()
	bullet := types.BulletPoint{
		ID:        utils.GenSourceID(types.SourceIDPrefix(types.SOURCE_TYPE_BULLET_POINT)),
		ResumeID:  resumeID,
		ProjectID: args.ProjectID,
		Content:   args.Content,
		Position:  args.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.core.Store().BulletPointStore().Create(l.ctx, bullet); err != nil {
		return nil, errors.New("ResumeLogic.CreateBulletPoint.BulletPointStore.Create", i18n.ERROR_INTERNAL, err)
	}

	l.knowledge().AsyncReplaceSourceChunks(resumeID, types.SOURCE_TYPE_BULLET_POINT, bullet.ID, bullet.Content)
	return &bullet, nil
}

func (l *ResumeLogic) UpdateBulletPoint(resumeID, id string, content string, position int) error {
	bullet, err := l.core.Store().BulletPointStore().Get(l.ctx, id)
	if err != nil {
		return errors.New("ResumeLogic.UpdateBulletPoint.BulletPointStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if bullet == nil || bullet.ResumeID != resumeID {
		return errors.New("ResumeLogic.UpdateBulletPoint.NotFound", i18n.ERROR_SOURCE_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	bullet.Content = content
	bullet.Position = position
	bullet.UpdatedAt = time.Now().Unix()
	if err := l.core.Store().BulletPointStore().Update(l.ctx, id, *bullet); err != nil {
		return errors.New("ResumeLogic.UpdateBulletPoint.BulletPointStore.Update", i18n.ERROR_INTERNAL, err)
	}

	l.knowledge().AsyncReplaceSourceChunks(resumeID, types.SOURCE_TYPE_BULLET_POINT, id, content)
	return nil
}

func (l *ResumeLogic) DeleteBulletPoint(resumeID, id string) error {
	if err := l.core.Store().BulletPointStore().Delete(l.ctx, id); err != nil {
		return errors.New("ResumeLogic.DeleteBulletPoint.BulletPointStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	return l.knowledge().DeleteSourceChunks(resumeID, types.SOURCE_TYPE_BULLET_POINT, id)
}

type CreateBranchArgs struct {
	BulletID   string `json:"bullet_id" binding:"required"`
	BranchType string `json:"branch_type" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Position   int    `json:"position"`
}

func (l *ResumeLogic) CreateBranch(resumeID string, args CreateBranchArgs) (*types.Branch, error) {
	bullet, err := l.core.Store().BulletPointStore().Get(l.ctx, args.BulletID)
	if err != nil {
		return nil, errors.New("ResumeLogic.CreateBranch.BulletPointStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if bullet == nil || bullet.ResumeID != resumeID {
		return nil, errors.New("ResumeLogic.CreateBranch.BulletNotFound", i18n.ERROR_SOURCE_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	now := time.Now().Unix()
	branch := types.Branch{
		ID:         utils.GenSourceID(types.SourceIDPrefix(types.SOURCE_TYPE_BRANCH)),
		ResumeID:   resumeID,
		BulletID:   args.BulletID,
		BranchType: args.BranchType,
		Content:    args.Content,
		Position:   args.Position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := l.core.Store().BranchStore().Create(l.ctx, branch); err != nil {
		return nil, errors.New("ResumeLogic.CreateBranch.BranchStore.Create", i18n.ERROR_INTERNAL, err)
	}

	l.knowledge().AsyncReplaceSourceChunks(resumeID, types.SOURCE_TYPE_BRANCH, branch.ID, branch.Content)
	return &branch, nil
}

func (l *ResumeLogic) UpdateBranch(resumeID, id string, content string, position int) error {
	branch, err := l.core.Store().BranchStore().Get(l.ctx, id)
	if err != nil {
		return errors.New("ResumeLogic.UpdateBranch.BranchStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if branch == nil || branch.ResumeID != resumeID {
		return errors.New("ResumeLogic.UpdateBranch.NotFound", i18n.ERROR_SOURCE_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	branch.Content = content
	branch.Position = position
	branch.UpdatedAt = time.Now().Unix()
	if err := l.core.Store().BranchStore().Update(l.ctx, id, *branch); err != nil {
		return errors.New("ResumeLogic.UpdateBranch.BranchStore.Update", i18n.ERROR_INTERNAL, err)
	}

	l.knowledge().AsyncReplaceSourceChunks(resumeID, types.SOURCE_TYPE_BRANCH, id, content)
	return nil
}

func (l *ResumeLogic) DeleteBranch(resumeID, id string) error {
	if err := l.core.Store().BranchStore().Delete(l.ctx, id); err != nil {
		return errors.New("ResumeLogic.DeleteBranch.BranchStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	return l.knowledge().DeleteSourceChunks(resumeID, types.SOURCE_TYPE_BRANCH, id)
}

type CreatePageArgs struct {
	Title    string `json:"title" binding:"required"`
	Icon     string `json:"icon"`
	IsPublic bool   `json:"is_public"`
	Position int    `json:"position"`
	// Body is the page text to index. The page record itself only keeps
	// presentation fields; the body lives in the chunk store.
	Body string `json:"body"`
}

func (l *ResumeLogic) CreatePage(resumeID string, args CreatePageArgs) (*types.Page, error) {
	if strings.TrimSpace(args.Title) == "" {
		return nil, errors.New("ResumeLogic.CreatePage.EmptyTitle", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	now := time.Now().Unix()
	page := types.Page{
		ID:        utils.GenSourceID(types.SourceIDPrefix(types.SOURCE_TYPE_PAGE)),
		ResumeID:  resumeID,
		Title:     args.Title,
		Icon:      args.Icon,
		IsPublic:  args.IsPublic,
		Position:  args.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.core.Store().PageStore().Create(l.ctx, page); err != nil {
		return nil, errors.New("ResumeLogic.CreatePage.PageStore.Create", i18n.ERROR_INTERNAL, err)
	}

	if body := strings.TrimSpace(args.Body); body != "" {
		l.knowledge().AsyncReplaceSourceChunks(resumeID, types.SOURCE_TYPE_PAGE, page.ID, body)
	}
	return &page, nil
}

// UpdatePage rewrites the page's presentation fields. Only the body is
// indexed, so a title or icon change never leaves stale chunks behind; an
// empty body means no body change and leaves the index untouched.

func (l *ResumeLogic) UpdatePage(resumeID, id string, args CreatePageArgs) error {
	page, err := l.core.Store().PageStore().Get(l.ctx, id)
	if err != nil {
		return errors.New("ResumeLogic.UpdatePage.PageStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if page == nil || page.ResumeID != resumeID {
		return errors.New("ResumeLogic.UpdatePage.NotFound", i18n.ERROR_SOURCE_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	page.Title = args.Title
	page.Icon = args.Icon
	page.IsPublic = args.IsPublic
	page.Position = args.Position
	page.UpdatedAt = time.Now().Unix()
	if err := l.core.Store().PageStore().Update(l.ctx, id, *page); err != nil {
		return errors.New("ResumeLogic.UpdatePage.PageStore.Update", i18n.ERROR_INTERNAL, err)
	}

	if body := strings.TrimSpace(args.Body); body != "" {
		l.knowledge().AsyncReplaceSourceChunks(resumeID, types.SOURCE_TYPE_PAGE, id, body)
	}
	return nil
}

func (l *ResumeLogic) DeletePage(resumeID, id string) error {
	if err := l.core.Store().PageStore().Delete(l.ctx, id); err != nil {
		return errors.New("ResumeLogic.DeletePage.PageStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	return l.knowledge().DeleteSourceChunks(resumeID, types.SOURCE_TYPE_PAGE, id)
}

type CreateAudioSummaryArgs struct {
	PageID        string   `json:"page_id" binding:"required"`
	FileName      string   `json:"file_name" binding:"required"`
	Language      string   `json:"language"`
	Duration      int      `json:"duration"`
	SummaryPoints []string `json:"summary_points" binding:"required"`
}

func (l *ResumeLogic) CreateAudioSummary(resumeID string, args CreateAudioSummaryArgs) (*types.AudioSummary, error) {
	page, err := l.core.Store().PageStore().Get(l.ctx, args.PageID)
	if err != nil {
		return nil, errors.New("ResumeLogic.CreateAudioSummary.PageStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if page == nil || page.ResumeID != resumeID {
		return nil, errors.New("ResumeLogic.CreateAudioSummary.PageNotFound", i18n.ERROR_SOURCE_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	text := strings.Join(args.SummaryPoints, "\n")
	if args.Language == "" {
		args.Language = utils.WhatLang(text)
	}

	now := time.Now().Unix()
	audio := types.AudioSummary{
		ID:            utils.GenSourceID(types.SourceIDPrefix(types.SOURCE_TYPE_AUDIO_SUMMARY)),
		ResumeID:      resumeID,
		PageID:        args.PageID,
		FileName:      args.FileName,
		Language:      args.Language,
		Duration:      args.Duration,
		SummaryPoints: args.SummaryPoints,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := l.core.Store().AudioSummaryStore().Create(l.ctx, audio); err != nil {
		return nil, errors.New("ResumeLogic.CreateAudioSummary.AudioSummaryStore.Create", i18n.ERROR_INTERNAL, err)
	}

	l.knowledge().AsyncReplaceSourceChunks(resumeID, types.SOURCE_TYPE_AUDIO_SUMMARY, audio.ID, text)
	return &audio, nil
}

func (l *ResumeLogic) DeleteAudioSummary(resumeID, id string) error {
	if err := l.core.Store().AudioSummaryStore().Delete(l.ctx, id); err != nil {
		return errors.New("ResumeLogic.DeleteAudioSummary.AudioSummaryStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	return l.knowledge().DeleteSourceChunks(resumeID, types.SOURCE_TYPE_AUDIO_SUMMARY, id)
}

func projectText(p types.Project) string {
	if p.Description == "" {
		return p.Title
	}
	return p.Title + "\n" + p.Description
}
