package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/gavel/internal/core/model"
)

func TestEnforceAliasedFields(t *testing.T) {
	// Backend-native field names must be renamed to the contract fields.
	raw := model.RawRecord{
		"type":  "CASE_CITATION",
		"value": "Smith v. Jones",
		"start": float64(10),
		"end":   float64(24),
		"score": 0.95,
	}

	enforcer := NewEnforcer()
	e, ok := enforcer.Enforce(raw, model.MethodPattern)

	assert.True(t, ok)
	assert.Equal(t, model.TypeCaseCitation, e.EntityType)
	assert.Equal(t, "Smith v. Jones", e.Text)
	assert.Equal(t, 10, e.StartPos)
	assert.Equal(t, 24, e.EndPos)
	assert.Equal(t, 0.95, e.Confidence)
}

func TestEnforceClampsConfidence(t *testing.T) {
	enforcer := NewEnforcer()

	e, ok := enforcer.Enforce(model.RawRecord{"text": "x", "confidence": 1.7}, model.MethodModel)
	assert.True(t, ok)
	assert.Equal(t, 1.0, e.Confidence)

	e, ok = enforcer.Enforce(model.RawRecord{"text": "x", "confidence": -0.2}, model.MethodModel)
	assert.True(t, ok)
	assert.Equal(t, 0.0, e.Confidence)
}

func TestEnforceDefaultsMissingConfidence(t *testing.T) {
	enforcer := NewEnforcer()
	e, ok := enforcer.Enforce(model.RawRecord{"text": "x"}, model.MethodModel)

	assert.True(t, ok)
	assert.Equal(t, DefaultConfidence, e.Confidence)
}

func TestEnforceFixesReversedSpan(t *testing.T) {
	enforcer := NewEnforcer()
	e, ok := enforcer.Enforce(model.RawRecord{
		"text":       "hi",
		"start_pos":  float64(50),
		"end_pos":    float64(30),
		"confidence": 0.9,
	}, model.MethodPattern)

	assert.True(t, ok)
	assert.GreaterOrEqual(t, e.EndPos, e.StartPos)
	// span length is reconciled against the verbatim text
	assert.Equal(t, e.StartPos+len(e.Text), e.EndPos)
}

func TestEnforceSynthesizesIdentifierAndMethod(t *testing.T) {
	enforcer := NewEnforcer()
	e, ok := enforcer.Enforce(model.RawRecord{"text": "x", "confidence": 0.8}, model.MethodHybrid)

	assert.True(t, ok)
	assert.NotEmpty(t, e.UUID)
	assert.Equal(t, model.MethodHybrid, e.Method)
	assert.Equal(t, model.TypeUnknown, e.EntityType)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestEnforceRejectsEmptyText(t *testing.T) {
	enforcer := NewEnforcer()

	_, ok := enforcer.Enforce(model.RawRecord{"confidence": 0.9}, model.MethodPattern)
	assert.False(t, ok)

	_, ok = enforcer.Enforce(model.RawRecord{"text": ""}, model.MethodPattern)
	assert.False(t, ok)
}

func TestEnforceAllCountsDropped(t *testing.T) {
	enforcer := NewEnforcer()
	raws := []model.RawRecord{
		{"text": "keep me", "confidence": 0.9},
		{"confidence": 0.9}, // no text, dropped
		{"text": "also kept"},
	}

	entities, dropped := enforcer.EnforceAll(raws, model.MethodPattern)
	assert.Len(t, entities, 2)
	assert.Equal(t, 1, dropped)
}

func TestEnforcePreservesMetadata(t *testing.T) {
	enforcer := NewEnforcer()
	e, ok := enforcer.Enforce(model.RawRecord{
		"text":     "In re Gault",
		"type":     "CASE_CITATION",
		"metadata": map[string]interface{}{"pattern": "in_re_citation"},
	}, model.MethodPattern)

	assert.True(t, ok)
	assert.Equal(t, "in_re_citation", e.Metadata["pattern"])
}
