package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/gavel/internal/core/model"
)

func TestHybridMergesPatternFirst(t *testing.T) {
	pattern := &MockBackend{Result: Result{
		Records: []model.RawRecord{{"value": "from pattern"}},
		Success: true,
	}}
	modelB := &MockBackend{Result: Result{
		Records: []model.RawRecord{{"text": "from model"}},
		Success: true,
	}}

	h := NewHybridBackend(pattern, modelB)
	res, err := h.Extract(context.Background(), Request{Text: "doc"})

	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "from pattern", res.Records[0]["value"])
	assert.Equal(t, "from model", res.Records[1]["text"])
}

func TestHybridSurvivesOneBackendFailing(t *testing.T) {
	pattern := &MockBackend{Result: Result{
		Records: []model.RawRecord{{"value": "kept"}},
		Success: true,
	}}
	modelB := &MockBackend{Err: errors.New("timeout")}

	h := NewHybridBackend(pattern, modelB)
	res, err := h.Extract(context.Background(), Request{Text: "doc"})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, res.Records, 1)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "timeout")
}

func TestHybridFailsOnlyWhenBothFail(t *testing.T) {
	pattern := &MockBackend{Err: errors.New("bad catalog")}
	modelB := &MockBackend{Err: errors.New("timeout")}

	h := NewHybridBackend(pattern, modelB)
	res, err := h.Extract(context.Background(), Request{Text: "doc"})

	assert.Error(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.Records)
}

func TestHybridWithoutModelBackend(t *testing.T) {
	// No model configured: hybrid degrades to pattern-only.
	pattern := &MockBackend{Result: Result{
		Records: []model.RawRecord{{"value": "kept"}},
		Success: true,
	}}

	h := NewHybridBackend(pattern, nil)
	res, err := h.Extract(context.Background(), Request{Text: "doc"})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, res.Records, 1)
}
