package llm

import (
	"context"
)

// Client is the minimal surface the extraction pipeline needs from a
// generative model: prompt in, text out. Timeouts and cancellation travel
// through the context; every provider variant must honor them.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
