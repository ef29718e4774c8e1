package types

// SearchHit is one retrieval result. Score is the fused score on [0, 1].
// Metadata is nil when the owning entity no longer exists.
type SearchHit struct {
	ChunkID    string       `json:"chunk_id"`
	SourceType SourceType   `json:"source_type"`
	SourceID   string       `json:"source_id"`
	Chunk      string       `json:"chunk"`
	ChunkIndex int          `json:"chunk_index"`
	Score      float64      `json:"score"`
	Metadata   *HitMetadata `json:"metadata,omitempty"`
}

// VectorSearchResult carries the filtered counters next to the hits so that
// threshold and type filtering stay observable even when nothing survives.
type VectorSearchResult struct {
	Hits            []SearchHit `json:"hits"`
	FilteredByScore int         `json:"filtered_by_score"`
	FilteredByType  int         `json:"filtered_by_type"`
}

type SearchOptions struct {
	Limit       int          `json:"limit"`
	SourceTypes []SourceType `json:"source_types,omitempty"`
	MinScore    *float64     `json:"min_score,omitempty"`
}
