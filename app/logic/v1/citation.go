package v1

import (
	"context"

	"github.com/samber/lo"

	"github.com/resumid-ai/resumid/app/core"
	"github.com/resumid-ai/resumid/pkg/mark"
	"github.com/resumid-ai/resumid/pkg/types"
)

type CitationLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewCitationLogic(ctx context.Context, core *core.Core) *CitationLogic {
	return &CitationLogic{
		ctx:  ctx,
		core: core,
	}
}

// BuildIdMap assigns short display aliases to every entity of the resume.
// Aliases are positional, so the same resume content always produces the
// same map. The assistant prompt carries the forward map; answer resolution
// uses the reverse map.
func (l *CitationLogic) BuildIdMap(resumeID string) (mark.IdMap, error) {
	corpus, err := l.buildCorpus(resumeID)
	if err != nil {
		return mark.IdMap{}, err
	}
	return mark.BuildAliases(corpus), nil
}

func (l *CitationLogic) buildCorpus(resumeID string) (mark.Corpus, error) {
	var corpus mark.Corpus

	pages, err := l.core.Store().PageStore().List(l.ctx, types.ListEntityOptions{ResumeID: resumeID})
	if err != nil {
		return corpus, err
	}
	corpus.Pages = lo.Map(pages, func(p types.Page, _ int) string { return p.ID })

	projects, err := l.core.Store().ProjectStore().List(l.ctx, types.ListEntityOptions{ResumeID: resumeID})
	if err != nil {
		return corpus, err
	}

	for _, project := range projects {
		group := mark.ProjectGroup{ID: project.ID}
		bullets, err := l.core.Store().BulletPointStore().List(l.ctx, types.ListEntityOptions{
			ResumeID: resumeID,
			ParentID: project.ID,
		})
		if err != nil {
			return corpus, err
		}
		for _, bullet := range bullets {
			bg := mark.BulletGroup{ID: bullet.ID}
			branches, err := l.core.Store().BranchStore().List(l.ctx, types.ListEntityOptions{
				ResumeID: resumeID,
				ParentID: bullet.ID,
			})
			if err != nil {
				return corpus, err
			}
			bg.Branches = lo.Map(branches, func(b types.Branch, _ int) string { return b.ID })
			group.Bullets = append(group.Bullets, bg)
		}
		corpus.Projects = append(corpus.Projects, group)
	}
	return corpus, nil
}

// ResolveAnswer extracts citation markers from an assistant answer and maps
// their aliases back to entity ids. Markers with unknown aliases are dropped
// and counted, never passed through half resolved.
func (l *CitationLogic) ResolveAnswer(resumeID, text string) (mark.ResolveResult, error) {
	idMap, err := l.BuildIdMap(resumeID)
	if err != nil {
		return mark.ResolveResult{}, err
	}
	return l.ResolveWithMap(text, idMap), nil
}

// ResolveWithMap resolves against a previously built alias map, for callers
// that already hold one from prompt assembly.
func (l *CitationLogic) ResolveWithMap(text string, idMap mark.IdMap) mark.ResolveResult {
	result := mark.ResolveCitations(text, idMap)
	for _, t := range result.DroppedTypes {
		l.core.Metrics().UnresolvedCitationInc(t)
	}
	return result
}
