package types

const TABLE_PREFIX = "resumid_"

type TableName string

func (t TableName) Name() string {
	return TABLE_PREFIX + string(t)
}

const (
	TABLE_KNOWLEDGE_CHUNK TableName = "knowledge_chunks"
	TABLE_VECTORS         TableName = "vectors"
	TABLE_PROJECT         TableName = "projects"
	TABLE_BULLET_POINT    TableName = "bullet_points"
	TABLE_BRANCH          TableName = "branches"
	TABLE_PAGE            TableName = "pages"
	TABLE_AUDIO_SUMMARY   TableName = "audio_summaries"
)

const NO_PAGING = 0
