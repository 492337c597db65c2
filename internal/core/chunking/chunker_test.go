package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/gavel/internal/core/model"
)

func TestSplitSmallDocumentIsSingleChunk(t *testing.T) {
	c := NewChunker(8000, 500)
	chunks := c.Split("a short filing")

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 14, chunks[0].End)
	assert.Equal(t, "a short filing", chunks[0].Text)
}

func TestSplitCoversDocumentWithNoGaps(t *testing.T) {
	c := NewChunker(1000, 100)
	text := strings.Repeat("The court finds the motion well taken. ", 200) // 7800 chars

	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(text), chunks[len(chunks)-1].End)
	for i := 1; i < len(chunks); i++ {
		// Each chunk begins inside the previous one: overlap, never a gap.
		assert.Less(t, chunks[i].Start, chunks[i-1].End)
		assert.Greater(t, chunks[i].Start, chunks[i-1].Start)
		assert.Equal(t, chunks[i-1].End-c.Overlap, chunks[i].Start)
	}
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, text[ch.Start:ch.End], ch.Text)
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	c := NewChunker(1000, 100)
	text := strings.Repeat("Plaintiff filed a complaint on the first of March. ", 100)

	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)
	// Every interior cut lands right after a sentence end.
	for _, ch := range chunks[:len(chunks)-1] {
		assert.Equal(t, byte('.'), text[ch.End-1])
	}
}

func TestSplitWithoutBoundaryCutsAtExactOffset(t *testing.T) {
	c := NewChunker(8000, 500)
	text := strings.Repeat("a", 200000)

	chunks := c.Split(text)
	want := ExpectedChunkCount(200000, 8000, 500)
	assert.Equal(t, 27, want)
	assert.Len(t, chunks, want)

	for i, ch := range chunks[:len(chunks)-1] {
		assert.Equal(t, i*7500, ch.Start)
		assert.Equal(t, i*7500+8000, ch.End)
	}
	assert.Equal(t, len(text), chunks[len(chunks)-1].End)
}

func TestNewChunkerClampsDegenerateOverlap(t *testing.T) {
	c := NewChunker(100, 100)
	assert.Less(t, c.Overlap, c.Size)

	text := strings.Repeat("b", 1000)
	chunks := c.Split(text)
	assert.Equal(t, len(text), chunks[len(chunks)-1].End)
}

func TestRemapTranslatesOffsetsAndTagsChunk(t *testing.T) {
	chunk := model.Chunk{Index: 3, Start: 22500, End: 30500}
	entities := []model.Entity{
		{Text: "No. 22-6640", StartPos: 70, EndPos: 81},
		{Text: "Smith v. Jones", StartPos: 100, EndPos: 114},
	}

	remapped := Remap(entities, chunk)

	assert.Equal(t, 22570, remapped[0].StartPos)
	assert.Equal(t, 22581, remapped[0].EndPos)
	assert.Equal(t, 22600, remapped[1].StartPos)
	for _, e := range remapped {
		assert.Equal(t, 3, e.Metadata[model.MetaChunkIndex])
		assert.Equal(t, len(e.Text), e.EndPos-e.StartPos)
	}
}

func TestSplitEmptyDocument(t *testing.T) {
	c := NewChunker(8000, 500)
	assert.Nil(t, c.Split(""))
}
