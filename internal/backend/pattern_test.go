package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/gavel/internal/core/model"
)

func TestPatternBackendFindsDocketNumber(t *testing.T) {
	prefix := strings.Repeat("x", 69) + " "
	text := prefix + "No. 22-6640 is before the Court."
	require.Equal(t, 70, strings.Index(text, "No. 22-6640"))

	b := NewPatternBackend(nil)
	res, err := b.Extract(context.Background(), Request{
		Text:  text,
		Scope: []model.EntityType{model.TypeDocketNumber},
	})

	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "No. 22-6640", rec["value"])
	assert.Equal(t, 70, rec["start"])
	assert.Equal(t, 81, rec["end"])
	assert.GreaterOrEqual(t, rec["confidence"].(float64), 0.80)
}

func TestPatternBackendRespectsScope(t *testing.T) {
	text := "Smith v. Jones, No. 22-6640, seeks $1,000,000 in damages."

	b := NewPatternBackend(nil)
	res, err := b.Extract(context.Background(), Request{
		Text:  text,
		Scope: []model.EntityType{model.TypeMonetaryAmount},
	})

	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "MONETARY_AMOUNT", res.Records[0]["type"])
	assert.Equal(t, "$1,000,000", res.Records[0]["value"])
}

func TestPatternBackendMatchesCitations(t *testing.T) {
	text := "see Roe v. Wade, 410 U.S. 113, and 42 U.S.C. § 1983; compare 29 C.F.R. § 1630.2."

	b := NewPatternBackend(nil)
	res, err := b.Extract(context.Background(), Request{
		Text: text,
		Scope: []model.EntityType{
			model.TypeCaseCitation, model.TypeStatuteCitation, model.TypeRegulationCitation,
		},
	})

	require.NoError(t, err)
	byType := map[string][]string{}
	for _, rec := range res.Records {
		byType[rec["type"].(string)] = append(byType[rec["type"].(string)], rec["value"].(string))
	}

	assert.Contains(t, byType["CASE_CITATION"], "Roe v. Wade")
	assert.Contains(t, byType["CASE_CITATION"], "410 U.S. 113")
	assert.Contains(t, byType["STATUTE_CITATION"], "42 U.S.C. § 1983")
	assert.Contains(t, byType["REGULATION_CITATION"], "29 C.F.R. § 1630.2")
}

func TestPatternBackendRecordsContextSnippet(t *testing.T) {
	text := "The petition was docketed as No. 22-6640 on March 9, 2021 by the clerk."

	b := NewPatternBackend(nil)
	res, err := b.Extract(context.Background(), Request{
		Text:  text,
		Scope: []model.EntityType{model.TypeDocketNumber},
	})

	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	meta := res.Records[0]["metadata"].(map[string]interface{})
	assert.Equal(t, "docket_number", meta[model.MetaPatternName])
	assert.Contains(t, meta[model.MetaContext], "No. 22-6640")
}

func TestDefaultCatalogExamplesMatchTheirOwnRule(t *testing.T) {
	for _, rule := range DefaultCatalog().Rules {
		for _, example := range rule.Examples {
			assert.True(t, rule.re.MatchString(example), "rule %s should match example %q", rule.Name, example)
		}
	}
}

func TestLoadCatalogRejectsBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.toml")
	bad := `
[[rules]]
name = "broken"
entity_type = "DATE"
pattern = "([unclosed"
confidence = 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadCatalog(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestLoadCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.toml")
	src := `
[[rules]]
name = "docket"
entity_type = "DOCKET_NUMBER"
pattern = 'No\. \d{2}-\d{4}'
confidence = 0.9
examples = ["No. 22-6640"]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, cat.Rules, 1)
	assert.True(t, cat.Rules[0].re.MatchString("No. 22-6640"))
}
