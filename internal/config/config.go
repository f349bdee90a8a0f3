package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the hervoice configuration.
type Config struct {
	HTTP      HTTPConfig    `yaml:"http"`
	Auth      AuthConfig    `yaml:"auth"`
	CORS      CORSConfig    `yaml:"cors"`
	Corpus    CorpusConfig  `yaml:"corpus"`
	LLM       RemoteConfig  `yaml:"llm"`
	Embedding RemoteConfig  `yaml:"embedding"`
	Cache     CacheConfig   `yaml:"cache"`
	Budget    BudgetConfig  `yaml:"budget"`
	Logging   LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig holds cross-origin settings for browser clients.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"` // empty = "*"
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CorpusConfig points at the story dataset.
type CorpusConfig struct {
	Path string `yaml:"path"` // empty = embedded reference dataset
}

// RemoteConfig holds settings of an OpenAI-compatible remote provider.
// An empty or placeholder APIKey disables the provider.
type RemoteConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Dimensions  int     `yaml:"dimensions"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// CacheConfig selects the KV store behind the embedding cache and budget counters.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // memory (default), redis
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"` // 0 = no expiry
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// BudgetConfig holds the token budget shared by both remote providers.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// Enabled reports whether any limit is configured.
func (b BudgetConfig) Enabled() bool {
	return b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0
}

// Default provider endpoints and models.
const (
	DefaultLLMBaseURL       = "https://open.bigmodel.cn/api/paas/v4"
	DefaultLLMModel         = "glm-4"
	DefaultEmbeddingBaseURL = "https://api.openai.com/v1"
	DefaultEmbeddingModel   = "text-embedding-3-small"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
// A .env file in the working directory is loaded first, if present.
func LoadFile(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultLLMBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultLLMModel
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 15
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = DefaultEmbeddingBaseURL
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = DefaultEmbeddingModel
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("cache.driver must be \"memory\" or \"redis\", got %q", c.Cache.Driver)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("cache.ttl_sec must not be negative, got %d", c.Cache.TTLSec)
	}
	switch c.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("budget.action must be \"warn\" or \"reject\", got %q", c.Budget.Action)
	}
	if c.Budget.DailyTokenLimit < 0 || c.Budget.MonthlyTokenLimit < 0 {
		return fmt.Errorf("budget limits must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
