package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/harvest7777/personal-brand-intern-project/convstate"
	"github.com/harvest7777/personal-brand-intern-project/internal/metrics"
	"github.com/harvest7777/personal-brand-intern-project/llm"
	"github.com/harvest7777/personal-brand-intern-project/llm/embedding"
	"github.com/harvest7777/personal-brand-intern-project/review"
	"github.com/harvest7777/personal-brand-intern-project/types"
	"github.com/harvest7777/personal-brand-intern-project/vector"
)

// runChat starts a local terminal session against an in-memory stack. Only
// the LLM and embedding providers are remote; conversation state, knowledge
// and the review queue live in the process and are discarded on exit.
func runChat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	provider := llm.NewOpenAIProvider(llm.OpenAIConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	}, logger)

	embedder := embedding.NewOpenAIProvider(embedding.OpenAIConfig{
		BaseURL:    cfg.Embedding.BaseURL,
		APIKey:     cfg.Embedding.APIKey,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    cfg.Embedding.Timeout,
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open review store: %v\n", err)
		os.Exit(1)
	}
	reviewStore := review.NewStoreWithDB(db, logger)
	if err := reviewStore.AutoMigrate(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate review store: %v\n", err)
		os.Exit(1)
	}

	engine := assembleEngine(cfg, assembleDeps{
		provider:    provider,
		embedder:    embedder,
		facts:       vector.NewInMemoryStore(logger),
		questions:   vector.NewInMemoryStore(logger),
		stateStore:  convstate.NewMemoryStore(),
		reviewStore: reviewStore,
		collector:   metrics.NewCollector("brandagent", logger),
		logger:      logger,
	})

	conversationID := uuid.NewString()
	senderID := "local-user"

	fmt.Println("Personal brand agent. Type a message, or 'bye' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		result, err := engine.ProcessTurn(context.Background(), conversationID, senderID, text)
		if err != nil {
			if types.GetErrorCode(err) == types.ErrMissingTurnData {
				continue
			}
			fmt.Fprintf(os.Stderr, "turn failed: %v\n", err)
			continue
		}
		if result.Reply != "" {
			fmt.Println(result.Reply)
		}
	}
}
