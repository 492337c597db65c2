package backend

import (
	"context"
	"sync"
)

type MockLLMClient struct {
	Response string
	Err      error

	mu      sync.Mutex
	Prompts []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// MockBackend replays a canned result; used by orchestrator tests as well.
// Safe for concurrent chunk workers.
type MockBackend struct {
	BackendName string
	Result      Result
	Err         error

	mu       sync.Mutex
	Requests []Request
}

func (m *MockBackend) Name() string {
	if m.BackendName == "" {
		return "mock"
	}
	return m.BackendName
}

func (m *MockBackend) Extract(ctx context.Context, req Request) (Result, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	if m.Err != nil {
		return Result{Success: false}, m.Err
	}
	return m.Result, nil
}
