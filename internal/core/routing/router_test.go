package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/gavel/internal/core/model"
)

func TestRouteBySize(t *testing.T) {
	r := NewRouter(Config{})

	cases := []struct {
		length   int
		strategy string
		category string
	}{
		{100, model.StrategySinglePass, "small"},
		{3000, model.StrategySinglePass, "small"},
		{5000, model.StrategySinglePass, "small"},
		{5001, model.StrategyThreeWave, "medium"},
		{20000, model.StrategyThreeWave, "medium"},
		{20001, model.StrategyFourWave, "large"},
		{50000, model.StrategyFourWave, "large"},
		{50001, model.StrategyThreeWaveChunked, "oversized"},
		{200000, model.StrategyThreeWaveChunked, "oversized"},
	}

	for _, tc := range cases {
		d := r.Route(tc.length, "")
		assert.Equal(t, tc.strategy, d.Strategy, "length %d", tc.length)
		assert.Equal(t, tc.category, d.SizeCategory, "length %d", tc.length)
		assert.Equal(t, tc.length, d.DocumentLength)
		assert.NotEmpty(t, d.Rationale)
		assert.Empty(t, d.Warnings)
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	r := NewRouter(Config{})
	first := r.Route(42000, "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Route(42000, ""))
	}
}

func TestRouteChunkParametersOnlyForChunkedStrategy(t *testing.T) {
	r := NewRouter(Config{ChunkSize: 4000, ChunkOverlap: 250})

	d := r.Route(60000, "")
	assert.Equal(t, 4000, d.ChunkSize)
	assert.Equal(t, 250, d.ChunkOverlap)

	d = r.Route(1000, "")
	assert.Zero(t, d.ChunkSize)
	assert.Zero(t, d.ChunkOverlap)
}

func TestRouteOverrideAlwaysWins(t *testing.T) {
	r := NewRouter(Config{})

	// Override is not validated against document size.
	d := r.Route(100, model.StrategyThreeWaveChunked)
	assert.Equal(t, model.StrategyThreeWaveChunked, d.Strategy)
	assert.NotZero(t, d.ChunkSize)
	assert.Empty(t, d.Warnings)

	d = r.Route(200000, model.StrategySinglePass)
	assert.Equal(t, model.StrategySinglePass, d.Strategy)
	assert.Zero(t, d.ChunkSize)
}

func TestRouteUnknownOverrideFallsBack(t *testing.T) {
	r := NewRouter(Config{})

	d := r.Route(3000, "turbo-mode")
	assert.Equal(t, model.StrategySinglePass, d.Strategy)
	assert.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "turbo-mode")
}

func TestCustomThresholds(t *testing.T) {
	r := NewRouter(Config{SinglePassMax: 100, ThreeWaveMax: 200, FourWaveMax: 300})

	assert.Equal(t, model.StrategySinglePass, r.Route(100, "").Strategy)
	assert.Equal(t, model.StrategyThreeWave, r.Route(150, "").Strategy)
	assert.Equal(t, model.StrategyFourWave, r.Route(250, "").Strategy)
	assert.Equal(t, model.StrategyThreeWaveChunked, r.Route(301, "").Strategy)
}

func TestStrategyLookup(t *testing.T) {
	r := NewRouter(Config{})

	s, ok := r.Strategy(model.StrategyFourWave)
	assert.True(t, ok)
	assert.Len(t, s.Waves, 4)
	assert.True(t, s.Waves[3].UsesPrior)

	_, ok = r.Strategy("nope")
	assert.False(t, ok)
}
