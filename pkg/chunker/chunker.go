// Package chunker splits source text into overlapping windows suitable for
// embedding. Splitting is deterministic: the same text and options always
// produce the same chunk contents and hashes.
package chunker

import (
	"strings"

	"github.com/resumid-ai/resumid/pkg/utils"
)

const (
	DEFAULT_CHUNK_SIZE = 1200
	DEFAULT_OVERLAP    = 120
)

type Options struct {
	// ChunkSize is the target chunk length in runes. A single word longer
	// than ChunkSize still becomes its own chunk.
	ChunkSize int
	// Overlap is the number of trailing runes carried into the next chunk.
	// Must be smaller than ChunkSize.
	Overlap int
	// MaxTokens re-cuts any window whose token count exceeds it. Zero, or
	// a nil CountTokens, disables the token pass.
	MaxTokens int
	// CountTokens estimates a window's token count, usually with the
	// embedding model's encoding.
	CountTokens func(text string) (int, error)
}

func (o Options) normalize() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DEFAULT_CHUNK_SIZE
	}
	if o.Overlap < 0 {
		o.Overlap = 0
	}
	if o.Overlap >= o.ChunkSize {
		o.Overlap = o.ChunkSize / 2
	}
	return o
}

type Chunk struct {
	Content    string
	ChunkIndex int
	Hash       string
}

// Split cuts text into word-aligned windows of at most ChunkSize runes,
// with the last Overlap runes of each window repeated at the head of the
// next one. When a token counter is set, windows over MaxTokens are re-cut
// with a proportionally smaller rune budget so no chunk exceeds the
// embedding model's context. Empty or whitespace-only text yields no chunks.
func Split(text string, opts Options) []Chunk {
	opts = opts.normalize()

	chunks := splitRunes(text, opts)
	if opts.MaxTokens <= 0 || opts.CountTokens == nil {
		return chunks
	}
	return boundTokens(chunks, opts)
}

func splitRunes(text string, opts Options) []Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		chunks  []Chunk
		current []string
		curLen  int
		dirty   bool
	)

	flush := func() {
		if !dirty {
			return
		}
		content := strings.Join(current, " ")
		chunks = append(chunks, Chunk{
			Content:    content,
			ChunkIndex: len(chunks),
			Hash:       utils.MD5(content),
		})
		dirty = false

		if opts.Overlap == 0 {
			current = nil
			curLen = 0
			return
		}
		keep := 0
		total := 0
		for i := len(current) - 1; i >= 0; i-- {
			w := len([]rune(current[i])) + 1
			if total+w > opts.Overlap {
				break
			}
			total += w
			keep++
		}
		current = append([]string(nil), current[len(current)-keep:]...)
		curLen = total
	}

	for _, w := range words {
		wl := len([]rune(w)) + 1
		if curLen > 0 && curLen+wl > opts.ChunkSize {
			flush()
		}
		current = append(current, w)
		curLen += wl
		dirty = true
	}
	flush()

	return chunks
}

func boundTokens(chunks []Chunk, opts Options) []Chunk {
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, recut(c, opts, 0)...)
	}
	for i := range out {
		out[i].ChunkIndex = i
	}
	return out
}

// recut re-splits one oversize window with a rune budget scaled down by the
// measured token density. A counter failure keeps the window as is; the
// provider enforces its own limit either way.
func recut(c Chunk, opts Options, depth int) []Chunk {
	tokens, err := opts.CountTokens(c.Content)
	if err != nil || tokens <= opts.MaxTokens || depth >= 3 {
		return []Chunk{c}
	}

	size := len([]rune(c.Content)) * opts.MaxTokens / tokens
	if size < 1 {
		size = 1
	}
	sub := splitRunes(c.Content, Options{ChunkSize: size})
	if len(sub) <= 1 {
		return []Chunk{c}
	}

	var out []Chunk
	for _, s := range sub {
		out = append(out, recut(s, opts, depth+1)...)
	}
	return out
}
