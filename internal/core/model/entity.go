package model

import "time"

// EntityType classifies an extracted mention. The catalog is fixed but open:
// the schema layer accepts unknown types so new catalogs can be deployed
// without a code change.
type EntityType string

const (
	TypeCaseCitation       EntityType = "CASE_CITATION"
	TypeStatuteCitation    EntityType = "STATUTE_CITATION"
	TypeRegulationCitation EntityType = "REGULATION_CITATION"
	TypeDocketNumber       EntityType = "DOCKET_NUMBER"
	TypeParty              EntityType = "PARTY"
	TypeJudge              EntityType = "JUDGE"
	TypeAttorney           EntityType = "ATTORNEY"
	TypeCourt              EntityType = "COURT"
	TypeDate               EntityType = "DATE"
	TypeMonetaryAmount     EntityType = "MONETARY_AMOUNT"
	TypeJurisdiction       EntityType = "JURISDICTION"
	TypeClaimType          EntityType = "CLAIM_TYPE"
	TypeRelationship       EntityType = "RELATIONSHIP"
	TypeUnknown            EntityType = "UNKNOWN"
)

// AllEntityTypes returns the full catalog, excluding UNKNOWN.
func AllEntityTypes() []EntityType {
	return []EntityType{
		TypeCaseCitation,
		TypeStatuteCitation,
		TypeRegulationCitation,
		TypeDocketNumber,
		TypeParty,
		TypeJudge,
		TypeAttorney,
		TypeCourt,
		TypeDate,
		TypeMonetaryAmount,
		TypeJurisdiction,
		TypeClaimType,
		TypeRelationship,
	}
}

// ExtractionMethod tags which backend produced an entity.
type ExtractionMethod string

const (
	MethodPattern ExtractionMethod = "pattern"
	MethodModel   ExtractionMethod = "model"
	MethodHybrid  ExtractionMethod = "hybrid"
)

// Entity is the atomic extracted unit. Offsets are end-exclusive character
// positions; chunk-local offsets are remapped to document-global exactly once
// by the chunking engine. Immutable after deduplication.
type Entity struct {
	UUID       string                 `json:"uuid"`
	Text       string                 `json:"text"`
	EntityType EntityType             `json:"entity_type"`
	StartPos   int                    `json:"start_pos"`
	EndPos     int                    `json:"end_pos"`
	Confidence float64                `json:"confidence"`
	Method     ExtractionMethod       `json:"extraction_method"`
	Subtype    string                 `json:"subtype,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Overlaps reports whether the spans of e and other intersect.
func (e Entity) Overlaps(other Entity) bool {
	return e.StartPos < other.EndPos && e.EndPos > other.StartPos
}

// Metadata keys written by the pipeline.
const (
	MetaWaveIndex   = "wave_index"
	MetaChunkIndex  = "chunk_index"
	MetaPatternName = "pattern"
	MetaContext     = "context"
	MetaNormalized  = "normalized"
)

// RawRecord is a backend-native entity record before schema enforcement.
// Field names may be legacy aliases ("type", "start", "value", ...); the
// schema enforcer is the single point where they are canonicalized.
type RawRecord map[string]interface{}
