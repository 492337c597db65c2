package model

// WaveSpec parameterizes one extraction pass: which entity types it looks
// for, the minimum confidence it accepts, and which backend mode it runs.
// Waves later in a strategy carry looser floors because their signal is
// weaker (relationships vs. verbatim citations).
type WaveSpec struct {
	Name      string           `json:"name"`
	Scope     []EntityType     `json:"scope"`
	Floor     float64          `json:"floor"`
	Mode      ExtractionMethod `json:"mode"`
	UsesPrior bool             `json:"uses_prior"` // consumes earlier waves' entities instead of re-scanning
}

// Strategy is a named wave sequence plus whether it runs per-chunk.
type Strategy struct {
	Name    string     `json:"name"`
	Waves   []WaveSpec `json:"waves"`
	Chunked bool       `json:"chunked"`
}

// Strategy names selected by the document router.
const (
	StrategySinglePass       = "single-pass"
	StrategyThreeWave        = "three-wave"
	StrategyFourWave         = "four-wave"
	StrategyThreeWaveChunked = "three-wave-chunked"
)

func citationsWave() WaveSpec {
	return WaveSpec{
		Name:  "citations",
		Scope: []EntityType{TypeCaseCitation, TypeStatuteCitation, TypeRegulationCitation, TypeDocketNumber},
		Floor: 0.80,
		Mode:  MethodPattern,
	}
}

func partiesWave() WaveSpec {
	return WaveSpec{
		Name:  "parties",
		Scope: []EntityType{TypeParty, TypeJudge, TypeAttorney, TypeCourt},
		Floor: 0.70,
		Mode:  MethodHybrid,
	}
}

func factsWave() WaveSpec {
	return WaveSpec{
		Name:  "facts",
		Scope: []EntityType{TypeDate, TypeMonetaryAmount, TypeJurisdiction, TypeClaimType},
		Floor: 0.60,
		Mode:  MethodHybrid,
	}
}

func relationshipsWave() WaveSpec {
	return WaveSpec{
		Name:      "relationships",
		Scope:     []EntityType{TypeRelationship},
		Floor:     0.50,
		Mode:      MethodModel,
		UsesPrior: true,
	}
}

// StrategyCatalog returns the four routable strategies keyed by name.
func StrategyCatalog() map[string]Strategy {
	return map[string]Strategy{
		StrategySinglePass: {
			Name: StrategySinglePass,
			Waves: []WaveSpec{{
				Name:  "broad",
				Scope: AllEntityTypes(),
				Floor: 0.50,
				Mode:  MethodHybrid,
			}},
		},
		StrategyThreeWave: {
			Name:  StrategyThreeWave,
			Waves: []WaveSpec{citationsWave(), partiesWave(), factsWave()},
		},
		StrategyFourWave: {
			Name:  StrategyFourWave,
			Waves: []WaveSpec{citationsWave(), partiesWave(), factsWave(), relationshipsWave()},
		},
		StrategyThreeWaveChunked: {
			Name:    StrategyThreeWaveChunked,
			Waves:   []WaveSpec{citationsWave(), partiesWave(), factsWave()},
			Chunked: true,
		},
	}
}

// RoutingDecision is the immutable outcome of document routing. Created once
// per request, consumed read-only by the orchestrator.
type RoutingDecision struct {
	Strategy       string   `json:"strategy"`
	SizeCategory   string   `json:"size_category"`
	DocumentLength int      `json:"document_length"`
	ChunkSize      int      `json:"chunk_size,omitempty"`
	ChunkOverlap   int      `json:"chunk_overlap,omitempty"`
	EstimatedCost  string   `json:"estimated_cost"`
	Rationale      string   `json:"rationale"`
	Warnings       []string `json:"warnings,omitempty"`
}
