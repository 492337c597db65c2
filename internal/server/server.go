package server

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/gavel/internal/backend"
	"github.com/agenthands/gavel/internal/config"
	"github.com/agenthands/gavel/internal/core"
	"github.com/agenthands/gavel/internal/core/dedupe"
	"github.com/agenthands/gavel/internal/core/routing"
	"github.com/agenthands/gavel/internal/llm"
)

type Server struct {
	Orchestrator *core.Orchestrator
}

func NewServer() *Server {
	// Load Config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using built-in defaults", cfgPath, err)
		cfg = &config.Config{}
	}

	// Override config with env vars if present (simple override logic)
	if envProvider := os.Getenv("LLM_PROVIDER"); envProvider != "" {
		cfg.LLM.Provider = envProvider
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if envAPIKey := os.Getenv("LLM_API_KEY"); envAPIKey != "" {
		cfg.LLM.APIKey = envAPIKey
	}
	if envBaseURL := os.Getenv("LLM_BASE_URL"); envBaseURL != "" {
		cfg.LLM.BaseURL = envBaseURL
	}
	if envPatterns := os.Getenv("PATTERNS_PATH"); envPatterns != "" {
		cfg.Patterns.Path = envPatterns
	}

	// Default to Ollama if provider is empty
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	// Pattern catalog: file if configured, built-in rules otherwise.
	var catalog *backend.Catalog
	if cfg.Patterns.Path != "" {
		catalog, err = backend.LoadCatalog(cfg.Patterns.Path)
		if err != nil {
			log.Fatalf("Failed to load pattern catalog: %v", err)
		}
	}
	patternBackend := backend.NewPatternBackend(catalog)

	// The model backend is optional: without it, hybrid waves run
	// pattern-only and model waves degrade with a warning per request.
	var modelBackend backend.Backend
	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Printf("Warning: no model backend available: %v", err)
	} else {
		modelBackend = backend.NewModelBackend(llmClient)
	}

	orchestrator := core.NewOrchestrator(
		routing.NewRouter(routing.Config{
			SinglePassMax: cfg.Routing.SinglePassMax,
			ThreeWaveMax:  cfg.Routing.ThreeWaveMax,
			FourWaveMax:   cfg.Routing.FourWaveMax,
			ChunkSize:     cfg.Chunking.Size,
			ChunkOverlap:  cfg.Chunking.Overlap,
		}),
		patternBackend,
		modelBackend,
		dedupe.NewEngine(cfg.Dedupe.Strategies, cfg.Dedupe.FuzzyThreshold),
		cfg.Concurrency.ChunkWorkers,
	)

	return &Server{
		Orchestrator: orchestrator,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/extract", s.Extract)
	r.GET("/healthz", s.Healthz)

	return r
}

type ExtractRequest struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text" binding:"required"`
	Options    struct {
		Strategy     string `json:"strategy"`
		ChunkSize    int    `json:"chunk_size"`
		ChunkOverlap int    `json:"chunk_overlap"`
	} `json:"options"`
}

func (s *Server) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	resp, err := s.Orchestrator.Extract(c.Request.Context(), core.Request{
		DocumentID:       req.DocumentID,
		Text:             req.Text,
		StrategyOverride: req.Options.Strategy,
		ChunkSize:        req.Options.ChunkSize,
		ChunkOverlap:     req.Options.ChunkOverlap,
	})
	if err != nil {
		// The only non-absorbed failure: empty/unreadable input.
		log.Printf("Extraction failed for document %q: %v", req.DocumentID, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     resp.Result.Success,
		"document_id": resp.DocumentID,
		"routing":     resp.Routing,
		"entities":    resp.Result.Entities,
		"warnings":    resp.Result.Warnings,
		"stats": gin.H{
			"duration_ms":      resp.Result.DurationMs,
			"entity_count":     len(resp.Result.Entities),
			"waves_executed":   resp.Result.WavesExecuted,
			"chunks_processed": resp.Result.ChunksProcessed,
			"wave_stats":       resp.Result.WaveStats,
		},
	})
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
