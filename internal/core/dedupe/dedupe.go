// Package dedupe collapses redundant entities produced by different waves
// and chunks. It only ever selects among existing candidates; it never
// fabricates a merged entity and never grows the set.
package dedupe

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/agenthands/gavel/internal/core/model"
)

// Strategy names accepted by NewEngine.
const (
	StrategyExactText       = "exact-text"
	StrategyPositionOverlap = "position-overlap"
	StrategyFuzzyText       = "fuzzy-text"
)

// DefaultFuzzyThreshold is the similarity ratio at or above which two
// same-type texts are considered the same mention.
const DefaultFuzzyThreshold = 0.9

// pipelineOrder fixes the composition order when several strategies are
// requested, regardless of the order the caller lists them in.
var pipelineOrder = []string{StrategyExactText, StrategyPositionOverlap, StrategyFuzzyText}

// Engine applies one or more equivalence strategies in pipeline order.
type Engine struct {
	strategies     map[string]bool
	fuzzyThreshold float64
}

// NewEngine builds an engine running the named strategies. Unknown names are
// ignored; an empty list means all three.
func NewEngine(strategies []string, fuzzyThreshold float64) *Engine {
	if fuzzyThreshold <= 0 || fuzzyThreshold > 1 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	enabled := make(map[string]bool)
	for _, s := range strategies {
		enabled[s] = true
	}
	if len(enabled) == 0 {
		for _, s := range pipelineOrder {
			enabled[s] = true
		}
	}
	return &Engine{strategies: enabled, fuzzyThreshold: fuzzyThreshold}
}

// Deduplicate runs the enabled strategies over entities and returns the
// surviving set. Ties on confidence keep the entity encountered first, so the
// result is deterministic for a given input order.
func (e *Engine) Deduplicate(entities []model.Entity) []model.Entity {
	out := entities
	for _, name := range pipelineOrder {
		if !e.strategies[name] {
			continue
		}
		switch name {
		case StrategyExactText:
			out = dedupeExactText(out)
		case StrategyPositionOverlap:
			out = dedupePositionOverlap(out)
		case StrategyFuzzyText:
			out = dedupeFuzzyText(out, e.fuzzyThreshold)
		}
	}
	return out
}

// dedupeExactText groups by (type, lowercased-trimmed text) and keeps the
// highest-confidence member of each group, preserving first-seen order.
func dedupeExactText(entities []model.Entity) []model.Entity {
	type key struct {
		entityType model.EntityType
		text       string
	}
	kept := make([]model.Entity, 0, len(entities))
	index := make(map[key]int)

	for _, ent := range entities {
		k := key{ent.EntityType, strings.ToLower(strings.TrimSpace(ent.Text))}
		if i, ok := index[k]; ok {
			if ent.Confidence > kept[i].Confidence {
				kept[i] = ent
			}
			continue
		}
		index[k] = len(kept)
		kept = append(kept, ent)
	}
	return kept
}

// dedupePositionOverlap sorts by start offset and scans left to right; a
// candidate overlapping an already-kept entity of the same type survives only
// if it is strictly more confident than everything it overlaps.
func dedupePositionOverlap(entities []model.Entity) []model.Entity {
	if len(entities) <= 1 {
		return entities
	}
	sorted := make([]model.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartPos < sorted[j].StartPos
	})

	kept := make([]model.Entity, 0, len(sorted))
	for _, ent := range sorted {
		overlapping := []int{}
		wins := true
		for i, k := range kept {
			if k.EntityType != ent.EntityType || !k.Overlaps(ent) {
				continue
			}
			overlapping = append(overlapping, i)
			if k.Confidence >= ent.Confidence {
				wins = false
			}
		}
		if len(overlapping) == 0 {
			kept = append(kept, ent)
			continue
		}
		if !wins {
			continue
		}
		// Candidate wins over every kept entity it overlaps.
		next := kept[:0]
		remove := make(map[int]bool, len(overlapping))
		for _, i := range overlapping {
			remove[i] = true
		}
		for i, k := range kept {
			if !remove[i] {
				next = append(next, k)
			}
		}
		kept = append(next, ent)
	}
	return kept
}

// dedupeFuzzyText treats two same-type entities as duplicates when their
// normalized similarity ratio meets the threshold. Similarity is not
// transitive: a replacement can be similar to a kept entity the replaced
// text was not, so passes repeat until no merge happens.
func dedupeFuzzyText(entities []model.Entity, threshold float64) []model.Entity {
	out := entities
	for {
		merged := fuzzyTextPass(out, threshold)
		if len(merged) == len(out) {
			return merged
		}
		out = merged
	}
}

func fuzzyTextPass(entities []model.Entity, threshold float64) []model.Entity {
	kept := make([]model.Entity, 0, len(entities))
	params := levenshtein.NewParams()

	for _, ent := range entities {
		duplicateOf := -1
		for i, k := range kept {
			if k.EntityType != ent.EntityType {
				continue
			}
			ratio := levenshtein.Similarity(
				strings.ToLower(strings.TrimSpace(k.Text)),
				strings.ToLower(strings.TrimSpace(ent.Text)),
				params,
			)
			if ratio >= threshold {
				duplicateOf = i
				break
			}
		}
		if duplicateOf == -1 {
			kept = append(kept, ent)
			continue
		}
		if ent.Confidence > kept[duplicateOf].Confidence {
			kept[duplicateOf] = ent
		}
	}
	return kept
}
