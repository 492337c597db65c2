package backend

import (
	"context"
	"fmt"
)

// HybridBackend invokes the pattern matcher and the model and merges their
// raw output, pattern records first so equal-confidence ties favor the
// deterministic matcher. The confidence floor is applied later by the
// orchestrator, after schema enforcement, per the wave contract.
type HybridBackend struct {
	pattern Backend
	model   Backend
}

func NewHybridBackend(pattern, model Backend) *HybridBackend {
	return &HybridBackend{pattern: pattern, model: model}
}

func (b *HybridBackend) Name() string {
	return "hybrid"
}

func (b *HybridBackend) Extract(ctx context.Context, req Request) (Result, error) {
	merged := Result{}

	patternRes, patternErr := b.pattern.Extract(ctx, req)
	if patternErr != nil {
		merged.Warnings = append(merged.Warnings, fmt.Sprintf("pattern backend failed: %v", patternErr))
	} else {
		merged.Records = append(merged.Records, patternRes.Records...)
		merged.Warnings = append(merged.Warnings, patternRes.Warnings...)
	}

	var modelRes Result
	var modelErr error
	if b.model != nil {
		modelRes, modelErr = b.model.Extract(ctx, req)
		if modelErr != nil {
			merged.Warnings = append(merged.Warnings, fmt.Sprintf("model backend failed: %v", modelErr))
		} else {
			merged.Records = append(merged.Records, modelRes.Records...)
			merged.Warnings = append(merged.Warnings, modelRes.Warnings...)
		}
	}

	// One surviving backend is enough for a usable wave.
	merged.Success = patternErr == nil || (b.model != nil && modelErr == nil)
	if !merged.Success {
		merged.Records = nil
		return merged, fmt.Errorf("both hybrid backends failed")
	}
	return merged, nil
}
