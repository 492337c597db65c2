// Package schema is the single normalization point between extraction
// backends and the rest of the pipeline. Raw records arrive with whatever
// field names the backend emits; they leave either as a conformant
// model.Entity or not at all. A bad record is dropped, never escalated.
package schema

import (
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/gavel/internal/core/model"
)

// DefaultConfidence is assigned when a backend omits the confidence field.
// Conservative on purpose: an unscored record should not survive a strict
// wave floor.
const DefaultConfidence = 0.5

// Field aliases accepted at the boundary, in lookup order. The canonical
// name is always tried first.
var fieldAliases = map[string][]string{
	"text":        {"text", "value", "name", "entity_text"},
	"entity_type": {"entity_type", "type", "entity", "label"},
	"start_pos":   {"start_pos", "start", "start_offset", "start_char"},
	"end_pos":     {"end_pos", "end", "end_offset", "end_char"},
	"confidence":  {"confidence", "score", "probability"},
	"method":      {"extraction_method", "method", "source"},
	"subtype":     {"subtype", "category"},
	"uuid":        {"uuid", "id", "entity_id"},
}

// Enforcer validates raw records against the entity contract and
// auto-corrects what it can.
type Enforcer struct{}

func NewEnforcer() *Enforcer {
	return &Enforcer{}
}

// Enforce normalizes one raw record. The second return value is false when
// the record is rejected; rejection happens only when text is empty or
// missing and cannot be defaulted.
func (s *Enforcer) Enforce(raw model.RawRecord, method model.ExtractionMethod) (model.Entity, bool) {
	e := model.Entity{
		Text:       lookupString(raw, "text"),
		EntityType: model.EntityType(lookupString(raw, "entity_type")),
		StartPos:   lookupInt(raw, "start_pos"),
		EndPos:     lookupInt(raw, "end_pos"),
		Method:     model.ExtractionMethod(lookupString(raw, "method")),
		Subtype:    lookupString(raw, "subtype"),
		UUID:       lookupString(raw, "uuid"),
	}
	if conf, ok := lookupFloat(raw, "confidence"); ok {
		e.Confidence = conf
	} else {
		// Missing confidence defaults conservatively instead of rejecting.
		e.Confidence = DefaultConfidence
	}
	if meta, ok := raw["metadata"].(map[string]interface{}); ok {
		// Copied so entities never share mutable state with backend records.
		e.Metadata = make(map[string]interface{}, len(meta))
		for k, v := range meta {
			e.Metadata[k] = v
		}
	}

	if e.Text == "" {
		return model.Entity{}, false
	}

	// Correction rules run in a fixed order; each is contract-preserving
	// and none can fail.
	for _, rule := range correctionRules(method) {
		e = rule(e)
	}
	return e, true
}

// EnforceAll normalizes a batch, dropping rejected records and counting them.
func (s *Enforcer) EnforceAll(raws []model.RawRecord, method model.ExtractionMethod) ([]model.Entity, int) {
	entities := make([]model.Entity, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		e, ok := s.Enforce(raw, method)
		if !ok {
			dropped++
			continue
		}
		entities = append(entities, e)
	}
	return entities, dropped
}

type rule func(model.Entity) model.Entity

func correctionRules(method model.ExtractionMethod) []rule {
	return []rule{
		clampConfidence,
		fixReversedSpan,
		reconcileSpanLength,
		synthesizeUUID,
		defaultMethod(method),
		defaultType,
		stampCreatedAt,
	}
}

func clampConfidence(e model.Entity) model.Entity {
	if e.Confidence < 0.0 {
		e.Confidence = 0.0
	}
	if e.Confidence > 1.0 {
		e.Confidence = 1.0
	}
	return e
}

func fixReversedSpan(e model.Entity) model.Entity {
	if e.EndPos < e.StartPos {
		e.EndPos = e.StartPos
	}
	return e
}

// reconcileSpanLength restores the text.length == end-start invariant by
// trusting the verbatim text over the reported end offset.
func reconcileSpanLength(e model.Entity) model.Entity {
	if e.EndPos-e.StartPos != len(e.Text) {
		e.EndPos = e.StartPos + len(e.Text)
	}
	return e
}

func synthesizeUUID(e model.Entity) model.Entity {
	if e.UUID == "" {
		e.UUID = uuid.New().String()
	}
	return e
}

func defaultMethod(method model.ExtractionMethod) rule {
	return func(e model.Entity) model.Entity {
		if e.Method == "" {
			e.Method = method
		}
		return e
	}
}

func defaultType(e model.Entity) model.Entity {
	if e.EntityType == "" {
		e.EntityType = model.TypeUnknown
	}
	return e
}

func stampCreatedAt(e model.Entity) model.Entity {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e
}

func lookupString(raw model.RawRecord, canonical string) string {
	for _, key := range fieldAliases[canonical] {
		if v, ok := raw[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func lookupFloat(raw model.RawRecord, canonical string) (float64, bool) {
	for _, key := range fieldAliases[canonical] {
		if v, ok := raw[key]; ok {
			switch n := v.(type) {
			case float64:
				return n, true
			case float32:
				return float64(n), true
			case int:
				return float64(n), true
			}
		}
	}
	return 0, false
}

func lookupInt(raw model.RawRecord, canonical string) int {
	if f, ok := lookupFloat(raw, canonical); ok {
		return int(f)
	}
	return 0
}
