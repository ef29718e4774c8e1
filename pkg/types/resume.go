package types

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// Resume content entities. The editing UI owns their lifecycle; the retrieval
// core reads them for source-existence checks and metadata enrichment.

type Project struct {
	ID          string `json:"id" db:"id"`
	ResumeID    string `json:"resume_id" db:"resume_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Position    int    `json:"position" db:"position"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
	UpdatedAt   int64  `json:"updated_at" db:"updated_at"`
}

type BulletPoint struct {
	ID        string `json:"id" db:"id"`
	ResumeID  string `json:"resume_id" db:"resume_id"`
	ProjectID string `json:"project_id" db:"project_id"`
	Content   string `json:"content" db:"content"`
	Position  int    `json:"position" db:"position"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
}

type Branch struct {
	ID         string `json:"id" db:"id"`
	ResumeID   string `json:"resume_id" db:"resume_id"`
	BulletID   string `json:"bullet_id" db:"bullet_id"`
	BranchType string `json:"branch_type" db:"branch_type"`
	Content    string `json:"content" db:"content"`
	Position   int    `json:"position" db:"position"`
	CreatedAt  int64  `json:"created_at" db:"created_at"`
	UpdatedAt  int64  `json:"updated_at" db:"updated_at"`
}

type Page struct {
	ID        string `json:"id" db:"id"`
	ResumeID  string `json:"resume_id" db:"resume_id"`
	Title     string `json:"title" db:"title"`
	Icon      string `json:"icon" db:"icon"`
	IsPublic  bool   `json:"is_public" db:"is_public"`
	Position  int    `json:"position" db:"position"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
}

type AudioSummary struct {
	ID            string         `json:"id" db:"id"`
	ResumeID      string         `json:"resume_id" db:"resume_id"`
	PageID        string         `json:"page_id" db:"page_id"`
	FileName      string         `json:"file_name" db:"file_name"`
	Language      string         `json:"language" db:"language"`
	Duration      int            `json:"duration" db:"duration"`
	SummaryPoints pq.StringArray `json:"summary_points" db:"summary_points"`
	CreatedAt     int64          `json:"created_at" db:"created_at"`
	UpdatedAt     int64          `json:"updated_at" db:"updated_at"`
}

type ListEntityOptions struct {
	ResumeID string
	ParentID string
}

func (opts ListEntityOptions) Apply(parentColumn string, query *sq.SelectBuilder) {
	if opts.ResumeID != "" {
		*query = query.Where(sq.Eq{"resume_id": opts.ResumeID})
	}
	if opts.ParentID != "" && parentColumn != "" {
		*query = query.Where(sq.Eq{parentColumn: opts.ParentID})
	}
}
