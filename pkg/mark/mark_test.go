package mark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() Corpus {
	return Corpus{
		Pages: []string{"page_a", "page_b"},
		Projects: []ProjectGroup{
			{
				ID: "proj_1",
				Bullets: []BulletGroup{
					{ID: "bullet_1", Branches: []string{"branch_1", "branch_2"}},
					{ID: "bullet_2"},
				},
			},
			{
				ID: "proj_2",
				Bullets: []BulletGroup{
					{ID: "bullet_3", Branches: []string{"branch_3"}},
				},
			},
		},
	}
}

func TestBuildAliases(t *testing.T) {
	m := BuildAliases(testCorpus())

	assert.Equal(t, "PG1", m.Forward["page_a"])
	assert.Equal(t, "PG2", m.Forward["page_b"])
	assert.Equal(t, "P1", m.Forward["proj_1"])
	assert.Equal(t, "P2", m.Forward["proj_2"])
	assert.Equal(t, "B1", m.Forward["bullet_1"])
	assert.Equal(t, "B2", m.Forward["bullet_2"])
	assert.Equal(t, "B3", m.Forward["bullet_3"])
	assert.Equal(t, "BR1", m.Forward["branch_1"])
	assert.Equal(t, "BR2", m.Forward["branch_2"])
	assert.Equal(t, "BR3", m.Forward["branch_3"])

	for id, alias := range m.Forward {
		assert.Equal(t, id, m.Reverse[alias])
	}
}

func TestBuildAliasesDeterministic(t *testing.T) {
	a := BuildAliases(testCorpus())
	b := BuildAliases(testCorpus())
	assert.Equal(t, a.Forward, b.Forward)
	assert.Equal(t, a.Reverse, b.Reverse)
}

func TestBuildAliasesEmpty(t *testing.T) {
	m := BuildAliases(Corpus{})
	assert.Empty(t, m.Forward)
	assert.Empty(t, m.Reverse)
}

func TestResolveCitations(t *testing.T) {
	m := BuildAliases(testCorpus())

	text := `Led the payment rework [Project:"payment gateway rework"]{P1}, ` +
		`cutting latency by 40% [Bullet:"reduced p99 latency"]{B1}. ` +
		`See the details [Branch:"rewrote the batching layer"]{BR2}.`

	result := ResolveCitations(text, m)
	assert.Equal(t, text, result.Text)
	require.Len(t, result.References, 3)

	assert.Equal(t, Reference{Type: "Project", Text: "payment gateway rework", SimpleID: "P1", EntityID: "proj_1"}, result.References[0])
	assert.Equal(t, Reference{Type: "Bullet", Text: "reduced p99 latency", SimpleID: "B1", EntityID: "bullet_1"}, result.References[1])
	assert.Equal(t, Reference{Type: "Branch", Text: "rewrote the batching layer", SimpleID: "BR2", EntityID: "branch_2"}, result.References[2])
}

func TestResolveCitationsPageLine(t *testing.T) {
	m := BuildAliases(testCorpus())

	result := ResolveCitations(`Mentioned on the about page [Page:"open source work"]{PG2:14}.`, m)
	require.Len(t, result.References, 1)
	assert.Equal(t, "Page", result.References[0].Type)
	assert.Equal(t, "PG2", result.References[0].SimpleID)
	assert.Equal(t, "page_b", result.References[0].EntityID)
	assert.Equal(t, 14, result.References[0].Line)
}

func TestResolveCitationsDropsUnknownAlias(t *testing.T) {
	m := BuildAliases(testCorpus())

	text := `Real [Project:"one"]{P1} and hallucinated [Project:"two"]{P9}.`
	result := ResolveCitations(text, m)
	require.Len(t, result.References, 1)
	assert.Equal(t, "P1", result.References[0].SimpleID)
	assert.Equal(t, text, result.Text)
}

func TestResolveCitationsOrderAndIdempotency(t *testing.T) {
	m := BuildAliases(testCorpus())

	text := `[Bullet:"b"]{B2} then [Project:"p"]{P2} then [Bullet:"b1"]{B1}`
	first := ResolveCitations(text, m)
	second := ResolveCitations(first.Text, m)

	require.Len(t, first.References, 3)
	assert.Equal(t, "B2", first.References[0].SimpleID)
	assert.Equal(t, "P2", first.References[1].SimpleID)
	assert.Equal(t, "B1", first.References[2].SimpleID)
	assert.Equal(t, first, second)
}

func TestResolveCitationsNoMarkers(t *testing.T) {
	m := BuildAliases(testCorpus())
	result := ResolveCitations("plain answer without citations", m)
	assert.Empty(t, result.References)
	assert.Equal(t, "plain answer without citations", result.Text)
}
