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
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the helpdesk API configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base"`
	Completion    CompletionConfig    `yaml:"completion"`
	Session       SessionConfig       `yaml:"session"`
	Cache         CacheConfig         `yaml:"cache"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Lexicon       LexiconConfig       `yaml:"lexicon"`
	Matching      MatchingConfig      `yaml:"matching"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// KnowledgeBaseConfig holds the question/answer feed settings.
type KnowledgeBaseConfig struct {
	Source             string `yaml:"source"` // http(s) URL of a published CSV or a local file path
	FetchTimeoutSec    int    `yaml:"fetch_timeout_sec"`
	RefreshIntervalSec int    `yaml:"refresh_interval_sec"` // 0 = load once at startup
}

// CompletionConfig holds the completion service settings.
type CompletionConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	TimeoutSec  int     `yaml:"timeout_sec"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// SessionConfig holds dialogue session settings.
type SessionConfig struct {
	IdleTimeoutSec   int `yaml:"idle_timeout_sec"`
	SweepIntervalSec int `yaml:"sweep_interval_sec"`
}

// Cache drivers.
const (
	CacheDriverNone   = "none"
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// CacheConfig holds ranking cache settings.
type CacheConfig struct {
	Driver string `yaml:"driver"` // none, memory, redis (default: memory)
	TTLSec int    `yaml:"ttl_sec"`
}

// DatabaseConfig holds Redis/Valkey connection settings for the shared cache.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// LexiconConfig points to an optional lexicon file replacing the embedded one.
type LexiconConfig struct {
	Path string `yaml:"path"`
}

// MatchingConfig holds ranking and answer thresholds.
type MatchingConfig struct {
	MinScore    float64 `yaml:"min_score"`
	DirectMatch float64 `yaml:"direct_match"`
	Fallback    float64 `yaml:"fallback"`
	TopK        int     `yaml:"top_k"`
	ContextSize int     `yaml:"context_size"`
}

// LoadDotEnv loads a .env file into the process environment when present.
// Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from a YAML file by environment name (local, dev, docker, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands environment placeholders, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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
		c.HTTP.Port = 10000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Must outlive a completion call.
		c.HTTP.WriteTimeoutSec = 45
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.KnowledgeBase.FetchTimeoutSec <= 0 {
		c.KnowledgeBase.FetchTimeoutSec = 10
	}
	if c.Completion.TimeoutSec <= 0 {
		c.Completion.TimeoutSec = 30
	}
	if c.Completion.MaxTokens <= 0 {
		c.Completion.MaxTokens = 4096
	}
	if c.Completion.Temperature == 0 {
		c.Completion.Temperature = 0.1
	}
	if c.Session.IdleTimeoutSec <= 0 {
		c.Session.IdleTimeoutSec = 30 * 60
	}
	if c.Session.SweepIntervalSec <= 0 {
		c.Session.SweepIntervalSec = 60
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheDriverMemory
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 10 * 60
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Matching.MinScore == 0 {
		c.Matching.MinScore = 0.15
	}
	if c.Matching.DirectMatch == 0 {
		c.Matching.DirectMatch = 0.8
	}
	if c.Matching.Fallback == 0 {
		c.Matching.Fallback = 0.45
	}
	if c.Matching.TopK <= 0 {
		c.Matching.TopK = 10
	}
	if c.Matching.ContextSize <= 0 {
		c.Matching.ContextSize = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.KnowledgeBase.Source == "" {
		return fmt.Errorf("knowledge_base.source is required")
	}
	if c.KnowledgeBase.RefreshIntervalSec < 0 {
		return fmt.Errorf("knowledge_base.refresh_interval_sec must not be negative")
	}
	if c.Completion.Model == "" {
		return fmt.Errorf("completion.model is required")
	}
	switch c.Cache.Driver {
	case CacheDriverNone, CacheDriverMemory:
		// ok
	case CacheDriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for cache driver %q", CacheDriverRedis)
		}
	default:
		return fmt.Errorf("cache.driver must be \"none\", \"memory\" or \"redis\", got %q", c.Cache.Driver)
	}
	m := c.Matching
	if m.MinScore < 0 || m.Fallback <= m.MinScore || m.DirectMatch <= m.Fallback {
		return fmt.Errorf(
			"matching thresholds must satisfy 0 <= min_score < fallback < direct_match, got %.2f, %.2f, %.2f",
			m.MinScore, m.Fallback, m.DirectMatch,
		)
	}
	if m.ContextSize > m.TopK {
		return fmt.Errorf("matching.context_size (%d) must not exceed matching.top_k (%d)", m.ContextSize, m.TopK)
	}
	return nil
}

// Seconds converts a *_sec setting into a duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
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
