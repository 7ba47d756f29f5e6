package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// LLM providers understood by LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderArk    = "ark"
)

// Store drivers understood by STORE_DRIVER.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config aggregates every setting of the service.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Safety  SafetyConfig
	Storage StorageConfig
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

	safety, err := loadSafetyConfig()
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Safety: safety, Storage: storage}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// ":8080" and "127.0.0.1:8080" are passed through untouched.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the LLM gateway.
type AIConfig struct {
	Provider string
	Timeout  time.Duration

	GeminiAPIKey string
	GeminiModel  string

	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the selected provider has the credentials it needs.
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey != "" && c.GeminiModel != ""
	case ProviderArk:
		return c.ArkEnabled()
	default:
		return false
	}
}

// ArkEnabled reports whether Ark credentials and a model endpoint are present.
func (c AIConfig) ArkEnabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds an Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.ArkEnabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + Model or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	var timeout time.Duration
	if seconds, err := parseOptionalIntEnv("LLM_TIMEOUT"); err != nil {
		return AIConfig{}, err
	} else if seconds != nil && *seconds > 0 {
		timeout = time.Duration(*seconds) * time.Second
	}

	geminiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if geminiKey == "" {
		geminiKey = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	}

	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	switch provider {
	case "":
		provider = ProviderGemini
	case ProviderGemini, ProviderArk:
	default:
		return AIConfig{}, fmt.Errorf("invalid LLM_PROVIDER value: %q", provider)
	}

	return AIConfig{
		Provider:     provider,
		Timeout:      timeout,
		GeminiAPIKey: geminiKey,
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-flash-latest"),
		APIKey:       strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:    strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:    strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:        strings.TrimSpace(os.Getenv("Model")),
		BaseURL:      getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:       getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:  temperature,
		TopP:         topP,
		MaxTokens:    maxTokens,
	}, nil
}

// SafetyConfig controls the crisis classifier.
type SafetyConfig struct {
	// FailClosed reports classifier failures as crisis instead of safe.
	FailClosed bool
}

func loadSafetyConfig() (SafetyConfig, error) {
	failClosed, err := parseBoolEnv("CRISIS_FAIL_CLOSED", false)
	if err != nil {
		return SafetyConfig{}, err
	}
	return SafetyConfig{FailClosed: failClosed}, nil
}

// StorageConfig selects the persistence log backend.
type StorageConfig struct {
	Driver      string
	Path        string
	DatabaseURL string
}

// LoadStorage reads only the storage settings, for tools that never talk to a model.
func LoadStorage() (StorageConfig, error) {
	return loadStorageConfig()
}

func loadStorageConfig() (StorageConfig, error) {
	return ResolveStorage(
		os.Getenv("STORE_DRIVER"),
		os.Getenv("STORE_PATH"),
		os.Getenv("DATABASE_URL"),
	)
}

// ResolveStorage applies driver defaults and validates the combination.
// Empty values fall back to the defaults of the selected driver.
func ResolveStorage(driver, path, databaseURL string) (StorageConfig, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = DriverFile
	}
	path = strings.TrimSpace(path)

	cfg := StorageConfig{
		Driver:      driver,
		Path:        path,
		DatabaseURL: strings.TrimSpace(databaseURL),
	}

	switch driver {
	case DriverFile:
		if cfg.Path == "" {
			cfg.Path = "db.json"
		}
	case DriverSQLite:
		if cfg.Path == "" {
			cfg.Path = "sahaara.db"
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return StorageConfig{}, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return StorageConfig{}, fmt.Errorf("invalid STORE_DRIVER value: %q", driver)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
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
