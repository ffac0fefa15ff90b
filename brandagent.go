// Package brandagent provides a convenience entry point for embedding the
// personal brand agent in another process with minimal boilerplate.
//
// Usage:
//
//	import "github.com/harvest7777/personal-brand-intern-project"
//
//	engine, err := brandagent.New(brandagent.Options{
//		OwnerID:  "owner-1",
//		Provider: provider,
//		Embedder: embedder,
//	})
//
// The returned engine keeps conversation state, knowledge and the review
// queue in memory; only the LLM and embedding providers are external. For
// durable storage wire the packages individually, the way cmd/brandagent
// does.
package brandagent

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/harvest7777/personal-brand-intern-project/agents"
	"github.com/harvest7777/personal-brand-intern-project/config"
	"github.com/harvest7777/personal-brand-intern-project/convstate"
	"github.com/harvest7777/personal-brand-intern-project/llm"
	"github.com/harvest7777/personal-brand-intern-project/llm/embedding"
	"github.com/harvest7777/personal-brand-intern-project/review"
	"github.com/harvest7777/personal-brand-intern-project/vector"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

// Options configures [New]. Provider and Embedder are required; everything
// else falls back to the package defaults from [config.DefaultConfig].
type Options struct {
	// OwnerID identifies the brand owner whose knowledge base this engine
	// serves.
	OwnerID string
	// Provider handles chat completions for routing, answering and fact
	// extraction.
	Provider llm.Provider
	// Embedder produces the vectors behind retrieval and deduplication.
	Embedder embedding.Embedder
	// Knowledge overrides the retrieval policy. Zero values take the
	// defaults.
	Knowledge config.KnowledgeConfig
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// New builds a ready-to-use in-memory turn engine.
func New(opts Options) (*workflow.Engine, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("brandagent: Provider is required")
	}
	if opts.Embedder == nil {
		return nil, fmt.Errorf("brandagent: Embedder is required")
	}
	if opts.OwnerID == "" {
		return nil, fmt.Errorf("brandagent: OwnerID is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	knowledge := opts.Knowledge
	defaults := config.DefaultKnowledgeConfig()
	if knowledge.TopK == 0 {
		knowledge.TopK = defaults.TopK
	}
	if knowledge.MaxFactDistance == 0 {
		knowledge.MaxFactDistance = defaults.MaxFactDistance
	}
	if knowledge.DuplicateDistance == 0 {
		knowledge.DuplicateDistance = defaults.DuplicateDistance
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("brandagent: open review store: %w", err)
	}
	reviewStore := review.NewStoreWithDB(db, logger)
	if err := reviewStore.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("brandagent: migrate review store: %w", err)
	}

	llmDefaults := config.DefaultLLMConfig()
	factStore := vector.NewFactStore(vector.NewInMemoryStore(logger), opts.Embedder, vector.FactStoreConfig{
		TopK:        knowledge.TopK,
		MaxDistance: knowledge.MaxFactDistance,
	}, logger)
	questionLog := vector.NewQuestionLog(vector.NewInMemoryStore(logger), opts.Embedder, vector.QuestionLogConfig{
		DuplicateDistance: knowledge.DuplicateDistance,
	}, logger)

	router := workflow.NewIntentRouter(llm.NewIntentClassifier(opts.Provider, "", logger), logger)
	graph := workflow.NewGraph(router, logger)
	agents.RegisterAll(graph, agents.Dependencies{
		Facts:     factStore,
		Questions: questionLog,
		Review:    reviewStore,
		Generator: llm.NewAnswerGenerator(opts.Provider, llm.AnswerGeneratorConfig{
			Temperature:     llmDefaults.Temperature,
			MaxTokens:       llmDefaults.MaxTokens,
			FactTokenBudget: llmDefaults.FactTokenBudget,
		}, logger),
		Extractor: llm.NewFactExtractor(opts.Provider, "", logger),
		Logger:    logger,
	})

	return workflow.NewEngine(graph, convstate.NewMemoryStore(), opts.OwnerID, nil, logger), nil
}
