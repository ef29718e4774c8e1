package types

import "strings"

// SourceType is the kind of resume entity a chunk of text was extracted from.
type SourceType string

const (
	SOURCE_TYPE_BULLET_POINT  SourceType = "bullet_point"
	SOURCE_TYPE_PROJECT       SourceType = "project"
	SOURCE_TYPE_BRANCH        SourceType = "branch"
	SOURCE_TYPE_PAGE          SourceType = "page"
	SOURCE_TYPE_AUDIO_SUMMARY SourceType = "audio_summary"
	SOURCE_TYPE_UNKNOWN       SourceType = "unknown"
)

func (s SourceType) String() string {
	return string(s)
}

func SourceTypeFromString(s string) SourceType {
	switch strings.ToLower(s) {
	case string(SOURCE_TYPE_BULLET_POINT):
		return SOURCE_TYPE_BULLET_POINT
	case string(SOURCE_TYPE_PROJECT):
		return SOURCE_TYPE_PROJECT
	case string(SOURCE_TYPE_BRANCH):
		return SOURCE_TYPE_BRANCH
	case string(SOURCE_TYPE_PAGE):
		return SOURCE_TYPE_PAGE
	case string(SOURCE_TYPE_AUDIO_SUMMARY):
		return SOURCE_TYPE_AUDIO_SUMMARY
	default:
		return SOURCE_TYPE_UNKNOWN
	}
}

var sourceIDPrefix = map[SourceType]string{
	SOURCE_TYPE_PROJECT:       "proj_",
	SOURCE_TYPE_BULLET_POINT:  "bullet_",
	SOURCE_TYPE_BRANCH:        "branch_",
	SOURCE_TYPE_PAGE:          "page_",
	SOURCE_TYPE_AUDIO_SUMMARY: "audio_",
}

func SourceIDPrefix(t SourceType) string {
	return sourceIDPrefix[t]
}

// ValidSourceID reports whether id has the prefix shape this system generates
// for the given source type. Foreign-looking ids are treated as no-match by
// the metadata enricher instead of hitting the database.
func ValidSourceID(t SourceType, id string) bool {
	prefix, ok := sourceIDPrefix[t]
	if !ok {
		return false
	}
	return strings.HasPrefix(id, prefix) && len(id) > len(prefix)
}
