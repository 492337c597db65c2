package model

// ExtractionResult is the outcome of one wave over one text window: the
// entities it kept, whether its backend call succeeded, and any warnings it
// raised. Owned by the orchestrator for a single run and never shared.
type ExtractionResult struct {
	Entities []Entity `json:"entities"`
	Source   string   `json:"source"` // wave or strategy identifier
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings,omitempty"`
}

// WaveStats summarizes one wave's contribution across the whole document.
type WaveStats struct {
	WaveIndex     int     `json:"wave_index"`
	Name          string  `json:"name"`
	EntityCount   int     `json:"entity_count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// AggregatedExtraction is the final merged, deduplicated output of one
// extraction request.
type AggregatedExtraction struct {
	Entities        []Entity    `json:"entities"`
	WavesExecuted   int         `json:"waves_executed"`
	ChunksProcessed int         `json:"chunks_processed"`
	WaveStats       []WaveStats `json:"wave_stats"`
	Success         bool        `json:"success"`
	Warnings        []string    `json:"warnings,omitempty"`
	DurationMs      int64       `json:"duration_ms"`
}

// Chunk is a contiguous text window of an oversized document. Start and End
// are document-global; Text is the raw slice. Discarded after its entities
// are remapped.
type Chunk struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}
