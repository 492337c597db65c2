// Package core coordinates one extraction request end to end: routing, the
// sequential wave runs, chunk fan-out for oversized documents, schema
// enforcement of every raw record, and final deduplication. Partial results
// always beat no results: a failed wave or chunk degrades to zero entities
// and a warning, and only an empty document fails the request outright.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/gavel/internal/backend"
	"github.com/agenthands/gavel/internal/core/chunking"
	"github.com/agenthands/gavel/internal/core/dedupe"
	"github.com/agenthands/gavel/internal/core/model"
	"github.com/agenthands/gavel/internal/core/routing"
	"github.com/agenthands/gavel/internal/core/schema"
)

const DefaultChunkWorkers = 4

// Timeouts grow with document size: larger text means a longer model call.
const (
	defaultTimeoutBase   = 15 * time.Second
	defaultTimeoutPer10K = 5 * time.Second
	defaultTimeoutMax    = 120 * time.Second
)

type Orchestrator struct {
	Router   *routing.Router
	Enforcer *schema.Enforcer
	Dedupe   *dedupe.Engine

	pattern backend.Backend
	model   backend.Backend
	hybrid  backend.Backend

	ChunkWorkers int

	TimeoutBase   time.Duration
	TimeoutPer10K time.Duration
	TimeoutMax    time.Duration
}

// NewOrchestrator wires the pipeline. modelBackend may be nil (no model
// configured): hybrid waves then run pattern-only and model waves degrade
// with a warning.
func NewOrchestrator(router *routing.Router, pattern, modelBackend backend.Backend, dd *dedupe.Engine, chunkWorkers int) *Orchestrator {
	if chunkWorkers <= 0 {
		chunkWorkers = DefaultChunkWorkers
	}
	return &Orchestrator{
		Router:        router,
		Enforcer:      schema.NewEnforcer(),
		Dedupe:        dd,
		pattern:       pattern,
		model:         modelBackend,
		hybrid:        backend.NewHybridBackend(pattern, modelBackend),
		ChunkWorkers:  chunkWorkers,
		TimeoutBase:   defaultTimeoutBase,
		TimeoutPer10K: defaultTimeoutPer10K,
		TimeoutMax:    defaultTimeoutMax,
	}
}

// Request is one caller-facing extraction request.
type Request struct {
	DocumentID       string
	Text             string
	StrategyOverride string
	ChunkSize        int
	ChunkOverlap     int
}

// Response pairs the routing decision with the aggregated result.
type Response struct {
	DocumentID string                     `json:"document_id,omitempty"`
	Routing    model.RoutingDecision      `json:"routing"`
	Result     model.AggregatedExtraction `json:"result"`
}

// Extract runs the full pipeline for one document.
func (o *Orchestrator) Extract(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("document text is empty or unreadable")
	}

	started := time.Now()

	decision := o.Router.Route(len(req.Text), req.StrategyOverride)
	if decision.ChunkSize > 0 {
		// Caller chunking overrides apply only to the chunked strategy.
		if req.ChunkSize > 0 {
			decision.ChunkSize = req.ChunkSize
		}
		if req.ChunkOverlap > 0 {
			decision.ChunkOverlap = req.ChunkOverlap
		}
	}

	strategy, ok := o.Router.Strategy(decision.Strategy)
	if !ok {
		return nil, fmt.Errorf("routed to unknown strategy %q", decision.Strategy)
	}

	warnings := append([]string{}, decision.Warnings...)

	var entities []model.Entity
	var runs [][]model.ExtractionResult
	chunksProcessed := 0

	if strategy.Chunked {
		entities, runs, chunksProcessed = o.runChunked(ctx, req.Text, strategy, decision)
	} else {
		var results []model.ExtractionResult
		entities, results = o.runWaves(ctx, req.Text, strategy, nil)
		runs = [][]model.ExtractionResult{results}
	}
	for _, results := range runs {
		for _, r := range results {
			warnings = append(warnings, r.Warnings...)
		}
	}

	entities = o.Dedupe.Deduplicate(entities)

	return &Response{
		DocumentID: req.DocumentID,
		Routing:    decision,
		Result: model.AggregatedExtraction{
			Entities:        entities,
			WavesExecuted:   len(strategy.Waves),
			ChunksProcessed: chunksProcessed,
			WaveStats:       waveStats(strategy, runs),
			Success:         true,
			Warnings:        warnings,
			DurationMs:      time.Since(started).Milliseconds(),
		},
	}, nil
}

// runWaves executes a strategy's waves strictly in order over one text
// window. Later waves receive the running entity set as prior context when
// they ask for it. Returns the merged entity set plus one ExtractionResult
// per wave; a wave failure contributes an unsuccessful result carrying a
// warning, never an error.
func (o *Orchestrator) runWaves(ctx context.Context, text string, strategy model.Strategy, chunk *model.Chunk) ([]model.Entity, []model.ExtractionResult) {
	var accumulated []model.Entity
	results := make([]model.ExtractionResult, 0, len(strategy.Waves))

	where := ""
	if chunk != nil {
		where = fmt.Sprintf(" [chunk %d]", chunk.Index)
	}

	for i, wave := range strategy.Waves {
		waveIndex := i + 1
		wr := model.ExtractionResult{Source: wave.Name}

		be := o.backendFor(wave.Mode)
		if be == nil {
			wr.Warnings = append(wr.Warnings, fmt.Sprintf("wave %d (%s)%s skipped: no %s backend configured", waveIndex, wave.Name, where, wave.Mode))
			results = append(results, wr)
			continue
		}

		breq := backend.Request{
			Text:      text,
			Scope:     wave.Scope,
			Floor:     wave.Floor,
			WaveIndex: waveIndex,
		}
		if wave.UsesPrior {
			breq.Prior = accumulated
		}

		wctx, cancel := context.WithTimeout(ctx, o.timeoutFor(len(text)))
		res, err := be.Extract(wctx, breq)
		cancel()

		if err != nil || !res.Success {
			if err == nil {
				err = fmt.Errorf("backend reported failure")
			}
			wr.Warnings = append(wr.Warnings, fmt.Sprintf("wave %d (%s)%s degraded to zero entities: %v", waveIndex, wave.Name, where, err))
			results = append(results, wr)
			continue
		}
		wr.Success = true
		wr.Warnings = append(wr.Warnings, res.Warnings...)

		enforced, dropped := o.Enforcer.EnforceAll(res.Records, wave.Mode)
		if dropped > 0 {
			wr.Warnings = append(wr.Warnings, fmt.Sprintf("wave %d (%s)%s dropped %d nonconforming records", waveIndex, wave.Name, where, dropped))
		}

		kept := enforced[:0]
		for _, e := range enforced {
			if e.Confidence < wave.Floor {
				continue
			}
			if e.Metadata == nil {
				e.Metadata = map[string]interface{}{}
			}
			e.Metadata[model.MetaWaveIndex] = waveIndex
			kept = append(kept, e)
		}
		wr.Entities = kept
		results = append(results, wr)

		accumulated = o.Dedupe.Deduplicate(append(accumulated, kept...))
	}

	return accumulated, results
}

// runChunked fans each chunk's wave sequence out to a bounded worker pool.
// Chunks share no mutable state; every worker writes only its own slot, and
// the wait-all barrier runs before cross-chunk deduplication because overlap
// resolution needs the full candidate set.
func (o *Orchestrator) runChunked(ctx context.Context, text string, strategy model.Strategy, decision model.RoutingDecision) ([]model.Entity, [][]model.ExtractionResult, int) {
	chunker := chunking.NewChunker(decision.ChunkSize, decision.ChunkOverlap)
	chunks := chunker.Split(text)

	type outcome struct {
		entities []model.Entity
		results  []model.ExtractionResult
	}
	outcomes := make([]outcome, len(chunks))

	g := &errgroup.Group{}
	g.SetLimit(o.ChunkWorkers)
	for i, ch := range chunks {
		i, ch := i, ch
		g.Go(func() error {
			entities, results := o.runWaves(ctx, ch.Text, strategy, &ch)
			outcomes[i] = outcome{
				entities: chunking.Remap(entities, ch),
				results:  results,
			}
			return nil
		})
	}
	// Workers never return errors; failures degrade inside runWaves.
	_ = g.Wait()

	var entities []model.Entity
	runs := make([][]model.ExtractionResult, len(outcomes))
	for i, out := range outcomes {
		entities = append(entities, out.entities...)
		runs[i] = out.results
	}
	return entities, runs, len(chunks)
}

func (o *Orchestrator) backendFor(method model.ExtractionMethod) backend.Backend {
	switch method {
	case model.MethodPattern:
		return o.pattern
	case model.MethodModel:
		return o.model
	default:
		return o.hybrid
	}
}

func (o *Orchestrator) timeoutFor(textLen int) time.Duration {
	d := o.TimeoutBase + time.Duration(textLen/10000)*o.TimeoutPer10K
	if d > o.TimeoutMax {
		d = o.TimeoutMax
	}
	return d
}

// waveStats folds per-wave results, across all chunks, into summary stats.
func waveStats(strategy model.Strategy, runs [][]model.ExtractionResult) []model.WaveStats {
	stats := make([]model.WaveStats, len(strategy.Waves))
	sums := make([]float64, len(strategy.Waves))
	for i, wave := range strategy.Waves {
		stats[i] = model.WaveStats{WaveIndex: i + 1, Name: wave.Name}
	}
	for _, results := range runs {
		for i, r := range results {
			if i >= len(stats) {
				break
			}
			stats[i].EntityCount += len(r.Entities)
			for _, e := range r.Entities {
				sums[i] += e.Confidence
			}
		}
	}
	for i := range stats {
		if stats[i].EntityCount > 0 {
			stats[i].AvgConfidence = sums[i] / float64(stats[i].EntityCount)
		}
	}
	return stats
}
