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

	"github.com/kailas-cloud/vecrag/internal/db"
	"github.com/kailas-cloud/vecrag/internal/domain"
)

// Config holds the vecrag configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Index      IndexConfig      `yaml:"index"`
	Search     SearchConfig     `yaml:"search"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
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

// DatabaseConfig holds store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	DialTimeoutMS    int      `yaml:"dial_timeout_ms"`
	WriteTimeoutMS   int      `yaml:"write_timeout_ms"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	TimeoutSec          int    `yaml:"timeout_sec"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
	Cache               *bool  `yaml:"cache"`
	CacheTTLSec         int    `yaml:"cache_ttl_sec"` // 0 = no expiry
}

// CacheEnabled reports whether the embedding cache is on (default true).
func (e EmbeddingConfig) CacheEnabled() bool { return e.Cache == nil || *e.Cache }

// GenerationConfig holds chat completion settings.
type GenerationConfig struct {
	APIKey       string  `yaml:"api_key"`
	BaseURL      string  `yaml:"base_url"`
	Model        string  `yaml:"model"`
	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float32 `yaml:"temperature"`
	TopP         float32 `yaml:"top_p"`
	SystemPrompt string  `yaml:"system_prompt"`
	TimeoutSec   int     `yaml:"timeout_sec"`
}

// IndexConfig describes the search index and its HNSW parameters.
type IndexConfig struct {
	Name            string `yaml:"name"`
	KeyPrefix       string `yaml:"key_prefix"`
	TextField       string `yaml:"text_field"`
	VectorField     string `yaml:"vector_field"`
	ScoreAlias      string `yaml:"score_alias"`
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
	Dialect         int    `yaml:"dialect"`
}

// SearchConfig bounds k.
type SearchConfig struct {
	DefaultK int `yaml:"default_k"`
	MaxK     int `yaml:"max_k"`
}

// IngestConfig holds corpus and worker settings.
type IngestConfig struct {
	Includes     []string `yaml:"includes"`
	Excludes     []string `yaml:"excludes"`
	Concurrency  int      `yaml:"concurrency"`
	MaxBatchSize int      `yaml:"max_batch_size"`
}

// Schema converts the index section into the domain descriptor.
func (c *Config) Schema() domain.IndexSchema {
	return domain.IndexSchema{
		Name:           c.Index.Name,
		KeyPrefix:      c.Index.KeyPrefix,
		TextField:      c.Index.TextField,
		VectorField:    c.Index.VectorField,
		ScoreAlias:     c.Index.ScoreAlias,
		Dim:            c.Embedding.Dimensions,
		M:              c.Index.HNSWM,
		EFConstruction: c.Index.HNSWEFConstruct,
		Dialect:        c.Index.Dialect,
	}
}

// Seconds converts a *_sec setting.
func Seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// Load reads configuration by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path. A .env file in the
// working directory is loaded first; a missing one is not an error.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
		c.HTTP.Port = 8080
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
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.DialTimeoutMS <= 0 {
		c.Database.DialTimeoutMS = 5000
	}
	if c.Database.WriteTimeoutMS <= 0 {
		c.Database.WriteTimeoutMS = 10000
	}

	e := &c.Embedding
	if e.BaseURL == "" {
		e.BaseURL = "https://api.openai.com/v1"
	}
	if e.Model == "" {
		e.Model = "text-embedding-3-small"
	}
	if e.Dimensions == 0 {
		e.Dimensions = 1536
	}
	if e.TimeoutSec <= 0 {
		e.TimeoutSec = 30
	}

	g := &c.Generation
	if g.APIKey == "" {
		g.APIKey = e.APIKey
	}
	if g.BaseURL == "" {
		g.BaseURL = e.BaseURL
	}
	if g.Model == "" {
		g.Model = "gpt-4o-mini"
	}
	if g.MaxTokens <= 0 {
		g.MaxTokens = 350
	}
	if g.Temperature == 0 {
		g.Temperature = 0.1
	}
	if g.TopP == 0 {
		g.TopP = 0.9
	}
	if g.TimeoutSec <= 0 {
		g.TimeoutSec = 60
	}

	ix := &c.Index
	if ix.Name == "" {
		ix.Name = "idx:documents"
	}
	if ix.KeyPrefix == "" {
		ix.KeyPrefix = "doc:"
	}
	if ix.TextField == "" {
		ix.TextField = "text_field"
	}
	if ix.VectorField == "" {
		ix.VectorField = "vector_field"
	}
	if ix.ScoreAlias == "" {
		ix.ScoreAlias = "score"
	}
	if ix.HNSWM <= 0 {
		ix.HNSWM = 16
	}
	if ix.HNSWEFConstruct <= 0 {
		ix.HNSWEFConstruct = 200
	}
	if ix.Dialect == 0 {
		ix.Dialect = db.DefaultDialect
	}

	if c.Search.DefaultK <= 0 {
		c.Search.DefaultK = 2
	}
	if c.Search.MaxK <= 0 {
		c.Search.MaxK = 100
	}
	if c.Ingest.Concurrency <= 0 {
		c.Ingest.Concurrency = 4
	}
	if c.Ingest.MaxBatchSize <= 0 {
		c.Ingest.MaxBatchSize = 1000
	}
	if len(c.Ingest.Includes) == 0 {
		c.Ingest.Includes = []string{"**/*.txt", "**/*.md"}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return errors.New("database.addrs is required")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Index.Dialect < db.DefaultDialect {
		return fmt.Errorf("index.dialect must be >= %d, got %d", db.DefaultDialect, c.Index.Dialect)
	}

	for key, name := range map[string]string{
		"index.name":         c.Index.Name,
		"index.text_field":   c.Index.TextField,
		"index.vector_field": c.Index.VectorField,
		"index.score_alias":  c.Index.ScoreAlias,
	} {
		if !db.IsValidIdentifier(name) {
			return fmt.Errorf("%s %q is not a valid identifier", key, name)
		}
	}
	if c.Index.TextField == c.Index.VectorField ||
		c.Index.ScoreAlias == c.Index.TextField ||
		c.Index.ScoreAlias == c.Index.VectorField {
		return errors.New("index.text_field, index.vector_field and index.score_alias must be distinct")
	}

	if c.Search.DefaultK > c.Search.MaxK {
		return fmt.Errorf("search.default_k (%d) must not exceed search.max_k (%d)", c.Search.DefaultK, c.Search.MaxK)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

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
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
