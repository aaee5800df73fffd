package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the askora API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	LLM       LLMConfig       `yaml:"llm"`
	Speech    SpeechConfig    `yaml:"speech"`
	Search    SearchConfig    `yaml:"search"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	LipSync   LipSyncConfig   `yaml:"lipsync"`
	Routing   RoutingConfig   `yaml:"routing"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	History   HistoryConfig   `yaml:"history"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
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

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// LLMConfig holds text generation settings.
type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	JudgeModel  string  `yaml:"judge_model"` // defaults to Model
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// SpeechConfig holds speech synthesis settings, including the PCM layout
// the backend emits.
type SpeechConfig struct {
	Model         string `yaml:"model"`
	Voice         string `yaml:"voice"`
	SecondVoice   string `yaml:"second_voice"` // dual-speaker "podcast" variant
	TimeoutSec    int    `yaml:"timeout_sec"`
	SampleRate    int    `yaml:"sample_rate"`
	Channels      int    `yaml:"channels"`
	BitsPerSample int    `yaml:"bits_per_sample"`
}

// SearchConfig holds web fallback search settings.
type SearchConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RetrievalConfig holds document retrieval backend settings.
type RetrievalConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// LipSyncConfig holds lip-sync video generation settings.
type LipSyncConfig struct {
	BaseURL    string `yaml:"base_url"`
	BaseVideo  string `yaml:"base_video"`
	OutputDir  string `yaml:"output_dir"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Judge failure policies: what the router assumes when the relevance
// judge itself fails.
const (
	// JudgePolicyInternal assumes the internal answer is relevant.
	JudgePolicyInternal = "internal"
	// JudgePolicyWeb falls back to web search.
	JudgePolicyWeb = "web"
)

// RoutingConfig holds answer router settings.
type RoutingConfig struct {
	MinScoreThreshold  float64 `yaml:"min_score_threshold"`
	JudgeFailurePolicy string  `yaml:"judge_failure_policy"` // internal (default) | web
}

// DispatchConfig holds modality dispatch settings.
type DispatchConfig struct {
	// AudioFallback returns the synthesized audio as a degraded payload
	// when the lip-sync step fails, instead of discarding it.
	AudioFallback *bool `yaml:"audio_fallback"`
}

// AudioFallbackEnabled reports the audio fallback setting (default true).
func (d DispatchConfig) AudioFallbackEnabled() bool {
	return d.AudioFallback == nil || *d.AudioFallback
}

// HistoryConfig holds chat history settings.
type HistoryConfig struct {
	MaxTurns      int `yaml:"max_turns"`      // stored messages per session
	ContextWindow int `yaml:"context_window"` // recent messages sent to retrieval
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Media payloads (WAV audio) take longer to write than JSON.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.LLM.Temperature <= 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 512
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 60
	}
	if c.LLM.JudgeModel == "" {
		c.LLM.JudgeModel = c.LLM.Model
	}
	if c.Speech.TimeoutSec <= 0 {
		c.Speech.TimeoutSec = 120
	}
	if c.Speech.SampleRate <= 0 {
		c.Speech.SampleRate = 24000
	}
	if c.Speech.Channels <= 0 {
		c.Speech.Channels = 1
	}
	if c.Speech.BitsPerSample <= 0 {
		c.Speech.BitsPerSample = 16
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = "https://api.tavily.com"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 3
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 20
	}
	if c.Retrieval.TimeoutSec <= 0 {
		c.Retrieval.TimeoutSec = 120
	}
	if c.LipSync.TimeoutSec <= 0 {
		c.LipSync.TimeoutSec = 180
	}
	if c.Routing.MinScoreThreshold <= 0 {
		c.Routing.MinScoreThreshold = 0.4
	}
	if c.Routing.JudgeFailurePolicy == "" {
		c.Routing.JudgeFailurePolicy = JudgePolicyInternal
	}
	if c.History.MaxTurns <= 0 {
		c.History.MaxTurns = 200
	}
	if c.History.ContextWindow <= 0 {
		c.History.ContextWindow = 4
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "askora:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.Retrieval.BaseURL == "" {
		return fmt.Errorf("retrieval.base_url is required")
	}
	switch c.Routing.JudgeFailurePolicy {
	case JudgePolicyInternal, JudgePolicyWeb:
		// ok
	default:
		return fmt.Errorf(
			"routing.judge_failure_policy must be %q or %q, got %q",
			JudgePolicyInternal, JudgePolicyWeb, c.Routing.JudgeFailurePolicy,
		)
	}
	if c.Search.MaxResults > 10 {
		return fmt.Errorf("search.max_results must be at most 10, got %d", c.Search.MaxResults)
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
