package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/gavel/internal/core/common"
	"github.com/agenthands/gavel/internal/core/model"
	"github.com/agenthands/gavel/internal/llm"
)

// ModelBackend asks a generative model for entities under a structured JSON
// contract, then recovers character offsets by locating each reported
// mention in the source text (models do not return reliable offsets).
type ModelBackend struct {
	client llm.Client
}

func NewModelBackend(client llm.Client) *ModelBackend {
	return &ModelBackend{client: client}
}

func (b *ModelBackend) Name() string {
	return "model"
}

// modelResponse is the structured-output contract the prompt demands.
type modelResponse struct {
	Entities []map[string]interface{} `json:"entities"`
}

func (b *ModelBackend) Extract(ctx context.Context, req Request) (Result, error) {
	response, err := b.client.Generate(ctx, buildPrompt(req))
	if err != nil {
		return Result{Success: false}, fmt.Errorf("model call failed: %w", err)
	}

	parsed, err := common.ParseJSON[modelResponse](response)
	if err != nil {
		return Result{Success: false}, fmt.Errorf("malformed model output: %w", err)
	}

	result := Result{Success: true}
	// Tracks how far each repeated mention has been claimed so duplicates
	// of the same string land on successive occurrences.
	claimed := map[string]int{}

	for _, raw := range parsed.Entities {
		text, _ := raw["text"].(string)
		if text == "" {
			// Schema enforcement would reject it anyway; skip the locate.
			result.Records = append(result.Records, model.RawRecord(raw))
			continue
		}

		if model.EntityType(stringField(raw, "type", "entity_type")) == model.TypeRelationship {
			b.anchorRelationship(raw, req.Prior)
			result.Records = append(result.Records, model.RawRecord(raw))
			continue
		}

		from := claimed[text]
		idx := strings.Index(req.Text[from:], text)
		if idx == -1 && from > 0 {
			idx = strings.Index(req.Text, text)
			from = 0
		}
		if idx == -1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("model reported mention %q not found in text, dropped", truncate(text, 60)))
			continue
		}
		start := from + idx
		raw["start"] = start
		raw["end"] = start + len(text)
		claimed[text] = start + len(text)
		result.Records = append(result.Records, model.RawRecord(raw))
	}

	return result, nil
}

// anchorRelationship gives a relationship record a position: the span of the
// subject entity it connects, falling back to the first prior entity. The
// relation itself has no verbatim span of its own.
func (b *ModelBackend) anchorRelationship(raw map[string]interface{}, prior []model.Entity) {
	meta, _ := raw["metadata"].(map[string]interface{})
	if meta == nil {
		meta = map[string]interface{}{}
	}
	if subject, _ := raw["subject"].(string); subject != "" {
		meta["subject"] = subject
	}
	if object, _ := raw["object"].(string); object != "" {
		meta["object"] = object
	}
	raw["metadata"] = meta

	if len(prior) == 0 {
		return
	}
	anchor := prior[0]
	if subject, _ := raw["subject"].(string); subject != "" {
		for _, p := range prior {
			if strings.EqualFold(p.Text, subject) {
				anchor = p
				break
			}
		}
	}
	raw["start"] = anchor.StartPos
	raw["end"] = anchor.EndPos
}

func buildPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("Extract legal entities from the document below.\n\nEntity types to extract:\n")
	for _, t := range req.Scope {
		sb.WriteString(fmt.Sprintf("- %s\n", t))
	}
	sb.WriteString(fmt.Sprintf("\nOnly include entities you are at least %.0f%% confident in.\n", req.Floor*100))

	if len(req.Prior) > 0 {
		sb.WriteString("\nEntities already extracted from this document:\n")
		for _, p := range req.Prior {
			sb.WriteString(fmt.Sprintf("- [%s] %s\n", p.EntityType, p.Text))
		}
		sb.WriteString("\nFor RELATIONSHIP entities, connect the entities above; set \"subject\" and \"object\" to their exact texts.\n")
	}

	sb.WriteString(`
Respond with a JSON object of this exact shape and nothing else:
{"entities": [{"type": "<ENTITY_TYPE>", "text": "<verbatim text from the document>", "confidence": <0.0-1.0>, "subtype": "<optional>"}]}

Document:
`)
	sb.WriteString(req.Text)
	return sb.String()
}

func stringField(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
