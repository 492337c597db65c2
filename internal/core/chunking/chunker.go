// Package chunking splits oversized documents into overlapping windows and
// translates per-chunk entity offsets back into document-global coordinates.
// Overlap-region duplicates are left for the dedupe engine; the only contract
// here is full coverage with overlap as the sole redundancy.
package chunking

import (
	"github.com/agenthands/gavel/internal/core/model"
)

const (
	DefaultChunkSize    = 8000
	DefaultChunkOverlap = 500

	// boundaryTolerance is how far back from the target offset the splitter
	// will look for a whitespace or sentence boundary before giving up and
	// cutting at the exact offset.
	boundaryTolerance = 200
)

type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker applies defaults and clamps an overlap that would prevent the
// scan from advancing.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &Chunker{Size: size, Overlap: overlap}
}

// Split cuts text into windows of roughly Size characters, each starting
// Overlap characters before the previous window's end. Consecutive chunks
// therefore share an overlap region and their union covers the whole
// document with no gaps.
func (c *Chunker) Split(text string) []model.Chunk {
	if len(text) == 0 {
		return nil
	}
	if len(text) <= c.Size {
		return []model.Chunk{{Index: 0, Start: 0, End: len(text), Text: text}}
	}

	var chunks []model.Chunk
	start := 0
	for {
		end := start + c.Size
		if end >= len(text) {
			end = len(text)
		} else {
			end = snapToBoundary(text, start, end, c.Overlap)
		}

		chunks = append(chunks, model.Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  text[start:end],
		})

		if end >= len(text) {
			return chunks
		}
		start = end - c.Overlap
	}
}

// snapToBoundary searches backwards from the target end offset for a safe
// split point (sentence end preferred, any whitespace otherwise) within the
// tolerance window. If none exists, the exact offset is used; that cut is
// best-effort, not guaranteed entity-safe.
func snapToBoundary(text string, start, end, overlap int) int {
	lo := end - boundaryTolerance
	// Never snap so far back that the next chunk would not advance.
	if floor := start + overlap + 1; lo < floor {
		lo = floor
	}
	if lo >= end {
		return end
	}

	sentence, whitespace := -1, -1
	for i := end - 1; i >= lo; i-- {
		ch := text[i]
		if sentence == -1 && (ch == '.' || ch == '!' || ch == '?' || ch == '\n') {
			sentence = i + 1
		}
		if whitespace == -1 && (ch == ' ' || ch == '\t' || ch == '\n') {
			whitespace = i + 1
		}
		if sentence != -1 {
			break
		}
	}
	if sentence != -1 {
		return sentence
	}
	if whitespace != -1 {
		return whitespace
	}
	return end
}

// ExpectedChunkCount is the closed form for a document split with exact
// offsets: ceil((length - overlap) / (size - overlap)).
func ExpectedChunkCount(length, size, overlap int) int {
	if length <= size {
		return 1
	}
	stride := size - overlap
	return (length - overlap + stride - 1) / stride
}

// Remap translates a chunk's entities from chunk-local to document-global
// offsets and records the originating chunk index. This is the single
// position mutation an entity undergoes after enforcement.
func Remap(entities []model.Entity, chunk model.Chunk) []model.Entity {
	for i := range entities {
		entities[i].StartPos += chunk.Start
		entities[i].EndPos += chunk.Start
		if entities[i].Metadata == nil {
			entities[i].Metadata = map[string]interface{}{}
		}
		entities[i].Metadata[model.MetaChunkIndex] = chunk.Index
	}
	return entities
}
