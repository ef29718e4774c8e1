package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumid-ai/resumid/pkg/types"
)

func TestEnrichProject(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedProject(t, "resume-1", "Alpha", 2)

	meta := NewEnrichLogic(context.Background(), env.core).Enrich(types.SOURCE_TYPE_PROJECT, project.ID)
	require.NotNil(t, meta)
	assert.Equal(t, types.SOURCE_TYPE_PROJECT, meta.Kind)
	require.NotNil(t, meta.Project)
	assert.Equal(t, "Alpha", meta.Project.Title)
	assert.Equal(t, 2, meta.Project.Position)
}

func TestEnrichBulletJoinsProject(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedProject(t, "resume-1", "Alpha", 1)
	bullet := env.seedBullet(t, "resume-1", project.ID, "did the thing", 1)

	meta := NewEnrichLogic(context.Background(), env.core).Enrich(types.SOURCE_TYPE_BULLET_POINT, bullet.ID)
	require.NotNil(t, meta)
	require.NotNil(t, meta.BulletPoint)
	assert.Equal(t, "did the thing", meta.BulletPoint.Content)
	assert.Equal(t, project.ID, meta.BulletPoint.ProjectID)
	assert.Equal(t, "Alpha", meta.BulletPoint.ProjectTitle)
}

func TestEnrichBranchJoinsBulletAndProject(t *testing.T) {
	env := newTestEnv(t)
	project := env.seedProject(t, "resume-1", "Alpha", 1)
	bullet := env.seedBullet(t, "resume-1", project.ID, "owning bullet", 1)
	branch := env.seedBranch(t, "resume-1", bullet.ID, "branch detail", 1)

	meta := NewEnrichLogic(context.Background(), env.core).Enrich(types.SOURCE_TYPE_BRANCH, branch.ID)
	require.NotNil(t, meta)
	require.NotNil(t, meta.Branch)
	assert.Equal(t, "branch detail", meta.Branch.Content)
	assert.Equal(t, "owning bullet", meta.Branch.BulletContent)
	assert.Equal(t, "Alpha", meta.Branch.ProjectTitle)
}

func TestEnrichAudioSummaryJoinsPage(t *testing.T) {
	env := newTestEnv(t)
	page := env.seedPage(t, "resume-1", "Intro", 1)

	audio := types.AudioSummary{
		ID:            "audio_1",
		ResumeID:      "resume-1",
		PageID:        page.ID,
		FileName:      "intro.mp3",
		Language:      "English",
		Duration:      93,
		SummaryPoints: []string{"one", "two", "three"},
	}
	env.store.mu.Lock()
	env.store.audios[audio.ID] = audio
	env.store.mu.Unlock()

	meta := NewEnrichLogic(context.Background(), env.core).Enrich(types.SOURCE_TYPE_AUDIO_SUMMARY, audio.ID)
	require.NotNil(t, meta)
	require.NotNil(t, meta.AudioSummary)
	assert.Equal(t, "intro.mp3", meta.AudioSummary.FileName)
	assert.Equal(t, "Intro", meta.AudioSummary.PageTitle)
	assert.Equal(t, page.ID, meta.AudioSummary.PageID)
	assert.Equal(t, 3, meta.AudioSummary.SummaryPointsCount)
}

func TestEnrichDanglingEntityReturnsNil(t *testing.T) {
	env := newTestEnv(t)

	meta := NewEnrichLogic(context.Background(), env.core).Enrich(types.SOURCE_TYPE_PROJECT, "proj_deleted")
	assert.Nil(t, meta)
}

func TestEnrichMalformedIDReturnsNil(t *testing.T) {
	env := newTestEnv(t)

	logic := NewEnrichLogic(context.Background(), env.core)
	assert.Nil(t, logic.Enrich(types.SOURCE_TYPE_PROJECT, "bullet_wrong_prefix"))
	assert.Nil(t, logic.Enrich(types.SOURCE_TYPE_UNKNOWN, "proj_1"))
	assert.Nil(t, logic.Enrich(types.SOURCE_TYPE_PROJECT, ""))
}

func TestEnrichPartialJoinStillReturnsEntity(t *testing.T) {
	env := newTestEnv(t)
	// bullet whose project row is gone: the bullet itself still enriches
	bullet := env.seedBullet(t, "resume-1", "proj_gone", "orphan bullet", 1)

	meta := NewEnrichLogic(context.Background(), env.core).Enrich(types.SOURCE_TYPE_BULLET_POINT, bullet.ID)
	require.NotNil(t, meta)
	require.NotNil(t, meta.BulletPoint)
	assert.Equal(t, "orphan bullet", meta.BulletPoint.Content)
	assert.Empty(t, meta.BulletPoint.ProjectTitle)
}
