package types

import (
	sq "github.com/Masterminds/squirrel"
)

// KnowledgeChunk is one unit of searchable text extracted from a resume
// entity. Chunks for a given (source_type, source_id) are fully replaced
// whenever the source content changes.
type KnowledgeChunk struct {
	ID         string     `json:"id" db:"id"`
	ResumeID   string     `json:"resume_id" db:"resume_id"`
	SourceType SourceType `json:"source_type" db:"source_type"`
	SourceID   string     `json:"source_id" db:"source_id"`
	ChunkIndex int        `json:"chunk_index" db:"chunk_index"`
	Chunk      string     `json:"chunk" db:"chunk"`
	Hash       string     `json:"hash" db:"hash"`
	CreatedAt  int64      `json:"created_at" db:"created_at"`
	UpdatedAt  int64      `json:"updated_at" db:"updated_at"`
}

type GetChunkOptions struct {
	ID          string
	IDs         []string
	ResumeID    string
	SourceType  SourceType
	SourceTypes []SourceType
	SourceID    string
	Keywords    string
}

func (opts GetChunkOptions) Apply(query *sq.SelectBuilder) {
	if opts.ID != "" {
		*query = query.Where(sq.Eq{"id": opts.ID})
	}
	if len(opts.IDs) > 0 {
		*query = query.Where(sq.Eq{"id": opts.IDs})
	}
	if opts.ResumeID != "" {
		*query = query.Where(sq.Eq{"resume_id": opts.ResumeID})
	}
	if opts.SourceType != "" {
		*query = query.Where(sq.Eq{"source_type": opts.SourceType})
	}
	if len(opts.SourceTypes) > 0 {
		*query = query.Where(sq.Eq{"source_type": opts.SourceTypes})
	}
	if opts.SourceID != "" {
		*query = query.Where(sq.Eq{"source_id": opts.SourceID})
	}
}
