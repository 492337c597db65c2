package backend

import (
	"fmt"
	"os"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/agenthands/gavel/internal/core/model"
)

// Rule is one named match rule of the pattern catalog. The catalog content
// is data, not code: it ships as TOML and is compiled at load time.
type Rule struct {
	Name       string   `toml:"name"`
	EntityType string   `toml:"entity_type"`
	Pattern    string   `toml:"pattern"`
	Confidence float64  `toml:"confidence"`
	Subtype    string   `toml:"subtype,omitempty"`
	Examples   []string `toml:"examples,omitempty"`

	re *regexp.Regexp
}

type Catalog struct {
	Rules []Rule `toml:"rules"`
}

// LoadCatalog reads and compiles a TOML pattern catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern catalog '%s': %w", path, err)
	}

	var cat Catalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse pattern catalog: %w", err)
	}
	if err := cat.compile(); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Catalog) compile() error {
	for i := range c.Rules {
		re, err := regexp.Compile(c.Rules[i].Pattern)
		if err != nil {
			return fmt.Errorf("rule %q: invalid pattern: %w", c.Rules[i].Name, err)
		}
		c.Rules[i].re = re
	}
	return nil
}

// DefaultCatalog is the built-in rule set used when no catalog file is
// configured. It mirrors config/patterns.toml.
func DefaultCatalog() *Catalog {
	cat := &Catalog{Rules: []Rule{
		{
			Name:       "case_citation",
			EntityType: string(model.TypeCaseCitation),
			Pattern:    `\b[A-Z][A-Za-z'.&-]+(?: [A-Z][A-Za-z'.&-]+)* v\. [A-Z][A-Za-z'.&-]+(?: [A-Z][A-Za-z'.&-]+)*`,
			Confidence: 0.90,
			Subtype:    "party_caption",
			Examples:   []string{"Smith v. Jones", "Brown v. Board of Education"},
		},
		{
			Name:       "reporter_citation",
			EntityType: string(model.TypeCaseCitation),
			Pattern:    `\b\d{1,3} (?:U\.S\.|S\. Ct\.|F\.2d|F\.3d|F\.4th|F\. Supp\. 2d|F\. Supp\. 3d) \d{1,4}\b`,
			Confidence: 0.95,
			Subtype:    "reporter",
			Examples:   []string{"410 U.S. 113", "347 F.3d 672"},
		},
		{
			Name:       "statute_citation",
			EntityType: string(model.TypeStatuteCitation),
			Pattern:    `\b\d{1,3} U\.S\.C\. §{1,2} ?\d+[a-z]?(?:\([a-zA-Z0-9]+\))*`,
			Confidence: 0.95,
			Examples:   []string{"42 U.S.C. § 1983", "18 U.S.C. § 922(g)(1)"},
		},
		{
			Name:       "regulation_citation",
			EntityType: string(model.TypeRegulationCitation),
			Pattern:    `\b\d{1,3} C\.F\.R\. §? ?\d+(?:\.\d+)?`,
			Confidence: 0.95,
			Examples:   []string{"29 C.F.R. § 1630.2"},
		},
		{
			Name:       "docket_number",
			EntityType: string(model.TypeDocketNumber),
			Pattern:    `\bNo\. \d{1,2}-\d{3,5}\b`,
			Confidence: 0.90,
			Examples:   []string{"No. 22-6640"},
		},
		{
			Name:       "monetary_amount",
			EntityType: string(model.TypeMonetaryAmount),
			Pattern:    `\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?(?: (?:million|billion))?`,
			Confidence: 0.92,
			Examples:   []string{"$1,250,000.00", "$3 million"},
		},
		{
			Name:       "date_long_form",
			EntityType: string(model.TypeDate),
			Pattern:    `\b(?:January|February|March|April|May|June|July|August|September|October|November|December) \d{1,2}, \d{4}\b`,
			Confidence: 0.90,
			Subtype:    "long_form",
			Examples:   []string{"March 9, 2021"},
		},
		{
			Name:       "date_numeric",
			EntityType: string(model.TypeDate),
			Pattern:    `\b\d{1,2}/\d{1,2}/\d{4}\b`,
			Confidence: 0.80,
			Subtype:    "numeric",
			Examples:   []string{"03/09/2021"},
		},
		{
			Name:       "federal_court",
			EntityType: string(model.TypeCourt),
			Pattern:    `\b(?:Supreme Court of the United States|United States (?:District|Bankruptcy) Court[A-Za-z, ]*|United States Court of Appeals(?: for the [A-Z][a-z]+ Circuit)?)`,
			Confidence: 0.88,
			Examples:   []string{"United States Court of Appeals for the Ninth Circuit"},
		},
		{
			Name:       "judge_reference",
			EntityType: string(model.TypeJudge),
			Pattern:    `\b(?:Chief )?(?:Judge|Justice) [A-Z][a-z]+(?: [A-Z][a-z]+)?`,
			Confidence: 0.82,
			Examples:   []string{"Judge Alsup", "Justice Sotomayor"},
		},
		{
			Name:       "state_jurisdiction",
			EntityType: string(model.TypeJurisdiction),
			Pattern:    `\b(?:State|Commonwealth) of [A-Z][a-z]+(?: [A-Z][a-z]+)?`,
			Confidence: 0.75,
			Examples:   []string{"State of California", "Commonwealth of Virginia"},
		},
	}}
	// Built-in patterns are maintained alongside their tests; a compile
	// failure here is a programming error.
	if err := cat.compile(); err != nil {
		panic(err)
	}
	return cat
}
