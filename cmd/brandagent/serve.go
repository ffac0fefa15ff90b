package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/harvest7777/personal-brand-intern-project/agents"
	"github.com/harvest7777/personal-brand-intern-project/config"
	"github.com/harvest7777/personal-brand-intern-project/convstate"
	"github.com/harvest7777/personal-brand-intern-project/internal/cache"
	"github.com/harvest7777/personal-brand-intern-project/internal/metrics"
	httpserver "github.com/harvest7777/personal-brand-intern-project/internal/server"
	"github.com/harvest7777/personal-brand-intern-project/internal/telemetry"
	"github.com/harvest7777/personal-brand-intern-project/llm"
	"github.com/harvest7777/personal-brand-intern-project/llm/embedding"
	"github.com/harvest7777/personal-brand-intern-project/review"
	"github.com/harvest7777/personal-brand-intern-project/server"
	"github.com/harvest7777/personal-brand-intern-project/vector"
	"github.com/harvest7777/personal-brand-intern-project/workflow"
)

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("starting brandagent",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	otelProviders, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelProviders.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector("brandagent", logger)

	engine, reviewStore, err := buildEngine(cfg, collector, logger)
	if err != nil {
		logger.Fatal("failed to build orchestration stack", zap.Error(err))
	}
	defer reviewStore.Close()

	handler := server.NewHandler(engine, cfg.Server, collector, logger)

	serverCfg := httpserver.DefaultConfig()
	serverCfg.Addr = cfg.Server.Addr
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	serverCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	manager := httpserver.NewManager(handler.Routes(), serverCfg, logger)

	if err := manager.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	manager.WaitForShutdown()
	logger.Info("brandagent stopped")
}

// buildEngine wires the LLM providers, vector stores, state store and review
// queue into a turn-processing engine.
func buildEngine(cfg *config.Config, collector *metrics.Collector, logger *zap.Logger) (*workflow.Engine, *review.Store, error) {
	provider := llm.NewOpenAIProvider(llm.OpenAIConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)

	var embedder embedding.Embedder = embedding.NewOpenAIProvider(embedding.OpenAIConfig{
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     cfg.Embedding.APIKey,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    cfg.Embedding.Timeout,
	})

	cacheClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	embedder = cache.NewEmbeddings(embedder, cacheClient, cache.Config{TTL: 24 * time.Hour}, logger)

	factsBackend := vector.NewChromaStore(vector.ChromaConfig{
		BaseURL:    cfg.Chroma.BaseURL,
		APIKey:     cfg.Chroma.APIKey,
		Tenant:     cfg.Chroma.Tenant,
		Database:   cfg.Chroma.Database,
		Collection: cfg.Knowledge.FactsCollection,
		Timeout:    cfg.Chroma.Timeout,
	}, logger)

	questionsBackend := vector.NewChromaStore(vector.ChromaConfig{
		BaseURL:    cfg.Chroma.BaseURL,
		APIKey:     cfg.Chroma.APIKey,
		Tenant:     cfg.Chroma.Tenant,
		Database:   cfg.Chroma.Database,
		Collection: cfg.Knowledge.QuestionsCollection,
		Timeout:    cfg.Chroma.Timeout,
	}, logger)

	stateStore, err := convstate.NewRedisStore(convstate.RedisConfig{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		StateTTL:     cfg.Redis.StateTTL,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("conversation store: %w", err)
	}

	reviewStore, err := review.Open(cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("review store: %w", err)
	}
	if err := reviewStore.AutoMigrate(); err != nil {
		reviewStore.Close()
		return nil, nil, fmt.Errorf("review store migrate: %w", err)
	}

	engine := assembleEngine(cfg, assembleDeps{
		provider:    provider,
		embedder:    embedder,
		facts:       factsBackend,
		questions:   questionsBackend,
		stateStore:  stateStore,
		reviewStore: reviewStore,
		collector:   collector,
		logger:      logger,
	})
	return engine, reviewStore, nil
}

// assembleDeps carries the externally-owned backends into assembleEngine so
// serve and chat can share the wiring with different storage choices.
type assembleDeps struct {
	provider    llm.Provider
	embedder    embedding.Embedder
	facts       vector.Store
	questions   vector.Store
	stateStore  convstate.Store
	reviewStore *review.Store
	collector   *metrics.Collector
	logger      *zap.Logger
}

func assembleEngine(cfg *config.Config, d assembleDeps) *workflow.Engine {
	factStore := vector.NewFactStore(d.facts, d.embedder, vector.FactStoreConfig{
		TopK:        cfg.Knowledge.TopK,
		MaxDistance: cfg.Knowledge.MaxFactDistance,
	}, d.logger)

	questionLog := vector.NewQuestionLog(d.questions, d.embedder, vector.QuestionLogConfig{
		DuplicateDistance: cfg.Knowledge.DuplicateDistance,
	}, d.logger)

	generator := llm.NewAnswerGenerator(d.provider, llm.AnswerGeneratorConfig{
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		MaxTokens:       cfg.LLM.MaxTokens,
		FactTokenBudget: cfg.LLM.FactTokenBudget,
	}, d.logger)

	classifier := llm.NewIntentClassifier(d.provider, cfg.LLM.Model, d.logger)
	extractor := llm.NewFactExtractor(d.provider, cfg.LLM.Model, d.logger)

	router := workflow.NewIntentRouter(classifier, d.logger)
	graph := workflow.NewGraph(router, d.logger)
	agents.RegisterAll(graph, agents.Dependencies{
		Facts:     factStore,
		Questions: questionLog,
		Review:    d.reviewStore,
		Generator: generator,
		Extractor: extractor,
		Metrics:   d.collector,
		Logger:    d.logger,
	})

	return workflow.NewEngine(graph, d.stateStore, cfg.Knowledge.OwnerID, d.collector, d.logger)
}
