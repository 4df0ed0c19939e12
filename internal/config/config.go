package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates the settings for both binaries. The server reads
// Server and Store; the chat client reads AI and Client.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Store  StoreConfig
	Client ClientConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	client, err := loadClientConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Store:  loadStoreConfig(),
		Client: client,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	if strings.Contains(port, ":") {
		// Accept ":5000" or "127.0.0.1:5000" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// ErrAPIKeyInvalid reports the missing-or-malformed provider key. The
// check runs before any network call is attempted.
var ErrAPIKeyInvalid = errors.New(`model API key missing or malformed: an "sk-" prefixed OPENROUTER_API_KEY is required`)

// AIConfig describes the external model provider (any endpoint
// speaking the OpenAI chat-completions surface).
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64
	MaxTokens   *int
	Timeout     time.Duration
}

// Enabled reports whether a plausible provider key is configured.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && strings.HasPrefix(c.APIKey, "sk-")
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	if !c.Enabled() {
		return nil, ErrAPIKeyInvalid
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &openai.ChatModelConfig{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		Model:       c.Model,
		Temperature: temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     c.Timeout,
	}

	return openai.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("MODEL_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		def := 0.7
		temperature = &def
	}

	maxTokens, err := parseOptionalIntEnv("MODEL_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	timeout, err := parseOptionalIntEnv("MODEL_TIMEOUT_SECONDS")
	if err != nil {
		return AIConfig{}, err
	}
	timeoutSeconds := 60
	if timeout != nil {
		timeoutSeconds = *timeout
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY")),
		BaseURL:     getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		Model:       getEnvOrDefault("MODEL", "openai/gpt-3.5-turbo"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// StoreConfig describes the document database connection.
type StoreConfig struct {
	URI      string
	Database string
}

// Enabled reports whether a connection string was supplied. Without
// one the server falls back to in-memory stores.
func (c StoreConfig) Enabled() bool {
	return c.URI != ""
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		URI:      strings.TrimSpace(os.Getenv("MONGO_URI")),
		Database: getEnvOrDefault("MONGO_DATABASE", "cyberboy"),
	}
}

// ClientConfig describes the terminal chat client.
type ClientConfig struct {
	BackendURL     string
	DataDir        string
	RevealInterval time.Duration
}

func loadClientConfig() (ClientConfig, error) {
	intervalMs, err := parseOptionalIntEnv("CHAT_REVEAL_INTERVAL_MS")
	if err != nil {
		return ClientConfig{}, err
	}
	interval := 5 * time.Millisecond
	if intervalMs != nil && *intervalMs > 0 {
		interval = time.Duration(*intervalMs) * time.Millisecond
	}

	return ClientConfig{
		BackendURL:     getEnvOrDefault("BACKEND_URL", "http://localhost:5000"),
		DataDir:        strings.TrimSpace(os.Getenv("CHAT_DATA_DIR")),
		RevealInterval: interval,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
