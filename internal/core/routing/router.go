// Package routing picks an extraction strategy from document size. Selection
// is a pure function of (length, override): no I/O, no clock, no randomness,
// so identical inputs always yield identical decisions.
package routing

import (
	"fmt"

	"github.com/agenthands/gavel/internal/core/chunking"
	"github.com/agenthands/gavel/internal/core/model"
)

// Size thresholds (characters), overridable through Config.
const (
	DefaultSinglePassMax = 5000
	DefaultThreeWaveMax  = 20000
	DefaultFourWaveMax   = 50000
)

type Config struct {
	SinglePassMax int
	ThreeWaveMax  int
	FourWaveMax   int
	ChunkSize     int
	ChunkOverlap  int
}

func (c Config) withDefaults() Config {
	if c.SinglePassMax <= 0 {
		c.SinglePassMax = DefaultSinglePassMax
	}
	if c.ThreeWaveMax <= 0 {
		c.ThreeWaveMax = DefaultThreeWaveMax
	}
	if c.FourWaveMax <= 0 {
		c.FourWaveMax = DefaultFourWaveMax
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = chunking.DefaultChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = chunking.DefaultChunkOverlap
	}
	return c
}

type Router struct {
	cfg        Config
	strategies map[string]model.Strategy
}

func NewRouter(cfg Config) *Router {
	return &Router{
		cfg:        cfg.withDefaults(),
		strategies: model.StrategyCatalog(),
	}
}

// Strategy resolves a routed name to its wave sequence.
func (r *Router) Strategy(name string) (model.Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// Route selects a strategy for a document of the given length. An explicit
// override always wins and is not validated against size; an unrecognized
// override falls back to size-based selection with a warning, never an error.
func (r *Router) Route(length int, override string) model.RoutingDecision {
	var warnings []string

	if override != "" {
		if _, ok := r.strategies[override]; ok {
			d := r.decideBySize(length)
			d.Strategy = override
			d.Rationale = fmt.Sprintf("caller override %q (size-based choice would be %s)", override, d.SizeCategory)
			if r.strategies[override].Chunked {
				d.ChunkSize = r.cfg.ChunkSize
				d.ChunkOverlap = r.cfg.ChunkOverlap
			} else {
				d.ChunkSize = 0
				d.ChunkOverlap = 0
			}
			return d
		}
		warnings = append(warnings, fmt.Sprintf("unknown strategy override %q, falling back to size-based routing", override))
	}

	d := r.decideBySize(length)
	d.Warnings = warnings
	return d
}

func (r *Router) decideBySize(length int) model.RoutingDecision {
	d := model.RoutingDecision{DocumentLength: length}

	switch {
	case length <= r.cfg.SinglePassMax:
		d.Strategy = model.StrategySinglePass
		d.SizeCategory = "small"
		d.EstimatedCost = "low"
		d.Rationale = fmt.Sprintf("%d chars <= %d: one broad pass is fastest", length, r.cfg.SinglePassMax)
	case length <= r.cfg.ThreeWaveMax:
		d.Strategy = model.StrategyThreeWave
		d.SizeCategory = "medium"
		d.EstimatedCost = "medium"
		d.Rationale = fmt.Sprintf("%d chars <= %d: staged passes without the relationship wave", length, r.cfg.ThreeWaveMax)
	case length <= r.cfg.FourWaveMax:
		d.Strategy = model.StrategyFourWave
		d.SizeCategory = "large"
		d.EstimatedCost = "high"
		d.Rationale = fmt.Sprintf("%d chars <= %d: full wave set including relationships", length, r.cfg.FourWaveMax)
	default:
		d.Strategy = model.StrategyThreeWaveChunked
		d.SizeCategory = "oversized"
		d.EstimatedCost = "very-high"
		d.ChunkSize = r.cfg.ChunkSize
		d.ChunkOverlap = r.cfg.ChunkOverlap
		d.Rationale = fmt.Sprintf("%d chars > %d: three-wave strategy applied per chunk (%d/%d)",
			length, r.cfg.FourWaveMax, d.ChunkSize, d.ChunkOverlap)
	}
	return d
}
