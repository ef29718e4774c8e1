package types

// HitMetadata is the denormalized view of a chunk's owning entity. Kind is
// the discriminant; exactly one of the variant pointers is non-nil.
type HitMetadata struct {
	Kind         SourceType            `json:"kind"`
	Project      *ProjectMetadata      `json:"project,omitempty"`
	BulletPoint  *BulletPointMetadata  `json:"bullet_point,omitempty"`
	Branch       *BranchMetadata       `json:"branch,omitempty"`
	Page         *PageMetadata         `json:"page,omitempty"`
	AudioSummary *AudioSummaryMetadata `json:"audio_summary,omitempty"`
}

type ProjectMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type BulletPointMetadata struct {
	Content      string `json:"content"`
	Position     int    `json:"position"`
	ProjectTitle string `json:"project_title"`
	ProjectID    string `json:"project_id"`
}

type BranchMetadata struct {
	Content       string `json:"content"`
	BranchType    string `json:"branch_type"`
	Position      int    `json:"position"`
	BulletContent string `json:"bullet_content"`
	ProjectTitle  string `json:"project_title"`
}

type PageMetadata struct {
	Title    string `json:"title"`
	Icon     string `json:"icon"`
	IsPublic bool   `json:"is_public"`
	Position int    `json:"position"`
	PageID   string `json:"page_id"`
}

type AudioSummaryMetadata struct {
	FileName           string `json:"file_name"`
	Language           string `json:"language"`
	Duration           int    `json:"duration"`
	PageTitle          string `json:"page_title"`
	PageID             string `json:"page_id"`
	SummaryPointsCount int    `json:"summary_points_count"`
}
