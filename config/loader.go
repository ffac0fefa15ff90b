package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete platform configuration.
type Config struct {
	// Server is the chat transport HTTP server configuration.
	Server ServerConfig `yaml:"server" env:"SERVER"`

	// Knowledge holds the retrieval and deduplication policy.
	Knowledge KnowledgeConfig `yaml:"knowledge" env:"KNOWLEDGE"`

	// Redis backs the conversation state store.
	Redis RedisConfig `yaml:"redis" env:"REDIS"`

	// Database backs the unanswered-question review queue.
	Database DatabaseConfig `yaml:"database" env:"DATABASE"`

	// Chroma is the vector store connection.
	Chroma ChromaConfig `yaml:"chroma" env:"CHROMA"`

	// LLM is the chat completion provider used by the answer generator and
	// the intent classifier.
	LLM LLMConfig `yaml:"llm" env:"LLM"`

	// Embedding is the embedding provider used for vector search.
	Embedding EmbeddingConfig `yaml:"embedding" env:"EMBEDDING"`

	// Log is the zap logger configuration.
	Log LogConfig `yaml:"log" env:"LOG"`

	// Telemetry is the OpenTelemetry SDK configuration.
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
}

// ServerConfig configures the chat transport server.
type ServerConfig struct {
	// Listen address, e.g. ":8080".
	Addr string `yaml:"addr" env:"ADDR"`
	// Read timeout.
	ReadTimeout time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	// Write timeout.
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	// Graceful shutdown timeout.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	// Per-conversation inbound rate in turns per second.
	TurnRate float64 `yaml:"turn_rate" env:"TURN_RATE"`
	// Burst allowance for the turn rate limiter.
	TurnBurst int `yaml:"turn_burst" env:"TURN_BURST"`
}

// KnowledgeConfig holds the retrieval policy for the question-answering step.
type KnowledgeConfig struct {
	// OwnerID is the identity of the knowledge-base owner served by this
	// deployment. Fixed per instance, independent of any conversation.
	OwnerID string `yaml:"owner_id" env:"OWNER_ID"`
	// FactsCollection is the vector collection holding knowledge facts.
	FactsCollection string `yaml:"facts_collection" env:"FACTS_COLLECTION"`
	// QuestionsCollection is the vector collection holding failed questions.
	QuestionsCollection string `yaml:"questions_collection" env:"QUESTIONS_COLLECTION"`
	// TopK is the maximum number of facts retrieved per query.
	TopK int `yaml:"top_k" env:"TOP_K"`
	// MaxFactDistance is the hard relevance cutoff: results with distance
	// strictly greater than this are discarded.
	MaxFactDistance float64 `yaml:"max_fact_distance" env:"MAX_FACT_DISTANCE"`
	// DuplicateDistance is the dedup cutoff: a prior failed question at this
	// distance or closer suppresses re-logging.
	DuplicateDistance float64 `yaml:"duplicate_distance" env:"DUPLICATE_DISTANCE"`
}

// RedisConfig configures the conversation state store.
type RedisConfig struct {
	Addr         string `yaml:"addr" env:"ADDR"`
	Password     string `yaml:"password" env:"PASSWORD"`
	DB           int    `yaml:"db" env:"DB"`
	PoolSize     int    `yaml:"pool_size" env:"POOL_SIZE"`
	MinIdleConns int    `yaml:"min_idle_conns" env:"MIN_IDLE_CONNS"`
	// StateTTL bounds how long an idle conversation survives. Zero means
	// no expiry.
	StateTTL time.Duration `yaml:"state_ttl" env:"STATE_TTL"`
}

// DatabaseConfig configures the relational review-queue store.
type DatabaseConfig struct {
	// Driver selects the backend: postgres or sqlite.
	Driver string `yaml:"driver" env:"DRIVER"`
	// DSN is the connection string (or the file path for sqlite).
	DSN string `yaml:"dsn" env:"DSN"`
	// Maximum open connections.
	MaxOpenConns int `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	// Maximum idle connections.
	MaxIdleConns int `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	// Connection lifetime limit.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
}

// ChromaConfig configures the Chroma vector store connection.
type ChromaConfig struct {
	// BaseURL of the Chroma server, e.g. "http://localhost:8000".
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	// APIKey for hosted Chroma. Optional for a local server.
	APIKey string `yaml:"api_key" env:"API_KEY"`
	// Tenant and Database select the hosted Chroma scope.
	Tenant   string `yaml:"tenant" env:"TENANT"`
	Database string `yaml:"database" env:"DATABASE"`
	// Request timeout.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// LLMConfig configures the chat completion provider.
type LLMConfig struct {
	// BaseURL of an OpenAI-compatible endpoint.
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	// APIKey for the endpoint.
	APIKey string `yaml:"api_key" env:"API_KEY"`
	// Model name used for both answering and intent classification.
	Model string `yaml:"model" env:"MODEL"`
	// Sampling temperature for answer generation.
	Temperature float32 `yaml:"temperature" env:"TEMPERATURE"`
	// MaxTokens caps the completion length.
	MaxTokens int `yaml:"max_tokens" env:"MAX_TOKENS"`
	// Request timeout.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
	// FactTokenBudget caps how many prompt tokens retrieved facts may use.
	FactTokenBudget int `yaml:"fact_token_budget" env:"FACT_TOKEN_BUDGET"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	BaseURL    string        `yaml:"base_url" env:"BASE_URL"`
	APIKey     string        `yaml:"api_key" env:"API_KEY"`
	Model      string        `yaml:"model" env:"MODEL"`
	Dimensions int           `yaml:"dimensions" env:"DIMENSIONS"`
	Timeout    time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format: json or console.
	Format string `yaml:"format" env:"FORMAT"`
	// Output paths, e.g. stdout or file paths.
	OutputPaths []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
}

// TelemetryConfig configures the OpenTelemetry SDK.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled" env:"ENABLED"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	ServiceName  string  `yaml:"service_name" env:"SERVICE_NAME"`
	SampleRate   float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// Loader loads configuration with builder-style options.
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader creates a configuration loader with the default env prefix.
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "BRANDAGENT",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath sets the YAML config file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator appends a validation function run after loading.
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load resolves the configuration. Precedence: defaults, then YAML file,
// then environment variables.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing file falls back to defaults.
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}
		envKey := prefix + "_" + envTag

		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// MustLoad loads configuration from path, panicking on failure.
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
