package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL        = "error.internal"
	ERROR_INVALIDARGUMENT = "error.invalidargument"

	ERROR_SOURCE_NOT_FOUND   = "error.retrieval.source_not_found"
	ERROR_EMBEDDING_PROVIDER = "error.retrieval.embedding_provider"
)
