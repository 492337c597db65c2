package backend

import (
	"context"

	"github.com/agenthands/gavel/internal/core/common"
	"github.com/agenthands/gavel/internal/core/model"
)

// snippetRadius is how much surrounding text is stored with each match.
const snippetRadius = 40

// PatternBackend matches the compiled catalog against the wave's text.
// Deterministic and synchronous; it emits the catalog engine's native field
// names (type/value/start/end) which the schema enforcer canonicalizes.
type PatternBackend struct {
	catalog *Catalog
}

func NewPatternBackend(catalog *Catalog) *PatternBackend {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &PatternBackend{catalog: catalog}
}

func (b *PatternBackend) Name() string {
	return "pattern"
}

func (b *PatternBackend) Extract(ctx context.Context, req Request) (Result, error) {
	var records []model.RawRecord

	for _, rule := range b.catalog.Rules {
		if !req.InScope(model.EntityType(rule.EntityType)) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{Success: false}, err
		}

		for _, m := range rule.re.FindAllStringIndex(req.Text, -1) {
			records = append(records, model.RawRecord{
				"type":       rule.EntityType,
				"value":      req.Text[m[0]:m[1]],
				"start":      m[0],
				"end":        m[1],
				"confidence": rule.Confidence,
				"subtype":    rule.Subtype,
				"metadata": map[string]interface{}{
					model.MetaPatternName: rule.Name,
					model.MetaContext:     common.Snippet(req.Text, m[0], m[1], snippetRadius),
				},
			})
		}
	}

	return Result{Records: records, Success: true}, nil
}
