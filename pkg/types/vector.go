package types

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"
)

// Vector is one embedding for one chunk. A chunk owns at most one vector per
// embedding model; deleting the chunk deletes the vector.
type Vector struct {
	ID         string          `json:"id" db:"id"`
	ChunkID    string          `json:"chunk_id" db:"chunk_id"`
	ResumeID   string          `json:"resume_id" db:"resume_id"`
	SourceType SourceType      `json:"source_type" db:"source_type"`
	SourceID   string          `json:"source_id" db:"source_id"`
	Model      string          `json:"model" db:"model"`
	Dim        int             `json:"dim" db:"dim"`
	Embedding  pgvector.Vector `json:"embedding" db:"embedding"`
	CreatedAt  int64           `json:"created_at" db:"created_at"`
	UpdatedAt  int64           `json:"updated_at" db:"updated_at"`
}

type GetVectorsOptions struct {
	ResumeID   string
	ChunkID    string
	SourceType SourceType
	SourceID   string
	Model      string
	Dim        int
}

func (opts GetVectorsOptions) Apply(query *sq.SelectBuilder) {
	if opts.ResumeID != "" {
		*query = query.Where(sq.Eq{"resume_id": opts.ResumeID})
	}
	if opts.ChunkID != "" {
		*query = query.Where(sq.Eq{"chunk_id": opts.ChunkID})
	}
	if opts.SourceType != "" {
		*query = query.Where(sq.Eq{"source_type": opts.SourceType})
	}
	if opts.SourceID != "" {
		*query = query.Where(sq.Eq{"source_id": opts.SourceID})
	}
	if opts.Model != "" {
		*query = query.Where(sq.Eq{"model": opts.Model})
	}
	if opts.Dim > 0 {
		*query = query.Where(sq.Eq{"dim": opts.Dim})
	}
}

// QueryResult is one row of a nearest-neighbor query, cos is raw cosine
// similarity in [-1, 1].
type QueryResult struct {
	ChunkID    string     `json:"chunk_id" db:"chunk_id"`
	SourceType SourceType `json:"source_type" db:"source_type"`
	SourceID   string     `json:"source_id" db:"source_id"`
	Cos        float32    `json:"cos" db:"cos"`
}
