// Package backend defines the extraction capability the orchestrator
// invokes once per wave. A backend may be a local pattern matcher
// (deterministic, CPU-bound), a remote generative model (network I/O), or a
// hybrid of both; the orchestrator treats them uniformly and pushes every
// raw record through schema enforcement before use.
package backend

import (
	"context"

	"github.com/agenthands/gavel/internal/core/model"
)

// Request carries one wave's input. Prior holds entities from earlier waves
// for passes that consume context instead of re-scanning (relationships).
type Request struct {
	Text      string
	Scope     []model.EntityType
	Floor     float64
	Prior     []model.Entity
	WaveIndex int
}

// InScope reports whether t is in the request's entity-type scope.
func (r Request) InScope(t model.EntityType) bool {
	for _, s := range r.Scope {
		if s == t {
			return true
		}
	}
	return false
}

// Result is a backend's raw output. Failure is a value here, not a fault:
// Success false (or an error from Extract) degrades the wave to zero
// entities, it never aborts the request.
type Result struct {
	Records  []model.RawRecord
	Success  bool
	Warnings []string
}

type Backend interface {
	Name() string
	Extract(ctx context.Context, req Request) (Result, error)
}
