package config

import "time"

// DefaultConfig returns the full default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Knowledge: DefaultKnowledgeConfig(),
		Redis:     DefaultRedisConfig(),
		Database:  DefaultDatabaseConfig(),
		Chroma:    DefaultChromaConfig(),
		LLM:       DefaultLLMConfig(),
		Embedding: DefaultEmbeddingConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultServerConfig returns the default chat server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		TurnRate:        1,
		TurnBurst:       5,
	}
}

// DefaultKnowledgeConfig returns the default retrieval policy.
//
// The distance cutoffs mirror the deployed policy: facts past 1.1 are
// irrelevant (strict), failed questions within 0.8 are duplicates
// (inclusive). The asymmetry is intentional and load-bearing.
func DefaultKnowledgeConfig() KnowledgeConfig {
	return KnowledgeConfig{
		FactsCollection:     "facts",
		QuestionsCollection: "failed_questions",
		TopK:                3,
		MaxFactDistance:     1.1,
		DuplicateDistance:   0.8,
	}
}

// DefaultRedisConfig returns the default state store configuration.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		StateTTL:     30 * 24 * time.Hour,
	}
}

// DefaultDatabaseConfig returns the default review-queue configuration.
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          "sqlite",
		DSN:             "brandagent.db",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DefaultChromaConfig returns the default vector store configuration.
func DefaultChromaConfig() ChromaConfig {
	return ChromaConfig{
		BaseURL:  "http://localhost:8000",
		Tenant:   "default_tenant",
		Database: "default_database",
		Timeout:  30 * time.Second,
	}
}

// DefaultLLMConfig returns the default completion provider configuration.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		BaseURL:         "https://api.openai.com/v1",
		Model:           "gpt-4o-mini",
		Temperature:     0.3,
		MaxTokens:       1024,
		Timeout:         60 * time.Second,
		FactTokenBudget: 2048,
	}
}

// DefaultEmbeddingConfig returns the default embedding provider configuration.
func DefaultEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		BaseURL:    "https://api.openai.com/v1",
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
		Timeout:    30 * time.Second,
	}
}

// DefaultLogConfig returns the default logger configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{"stdout"},
	}
}

// DefaultTelemetryConfig returns the default telemetry configuration.
// Telemetry is off unless explicitly enabled.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "brandagent",
		SampleRate:   1.0,
	}
}

// Validate checks invariants that would otherwise surface as confusing
// runtime behavior.
func Validate(cfg *Config) error {
	if cfg.Knowledge.TopK <= 0 {
		return &ValidationError{Field: "knowledge.top_k", Reason: "must be positive"}
	}
	if cfg.Knowledge.MaxFactDistance <= 0 {
		return &ValidationError{Field: "knowledge.max_fact_distance", Reason: "must be positive"}
	}
	if cfg.Knowledge.DuplicateDistance <= 0 {
		return &ValidationError{Field: "knowledge.duplicate_distance", Reason: "must be positive"}
	}
	if cfg.Knowledge.OwnerID == "" {
		return &ValidationError{Field: "knowledge.owner_id", Reason: "required"}
	}
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return &ValidationError{Field: "database.driver", Reason: "must be sqlite or postgres"}
	}
	return nil
}

// ValidationError reports a single invalid configuration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + e.Field + ": " + e.Reason
}
