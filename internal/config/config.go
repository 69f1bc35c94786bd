// Package config loads service configuration in layers: built-in defaults, an
// optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/jonathan/smile-fortune/internal/server/ratelimit"
)

// ConfigPathEnvVar is the environment variable that names the YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched when no path is given.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	LLM       LLMConfig       `koanf:"llm"`
	PokeAPI   PokeAPIConfig   `koanf:"pokeapi"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Environment     string        `koanf:"environment"`
	NodeEnv         string        `koanf:"node_env"`
	StaticDir       string        `koanf:"static_dir"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LLMConfig configures the generation service.
type LLMConfig struct {
	Provider     string  `koanf:"provider"`
	Model        string  `koanf:"model"`
	APIKey       string  `koanf:"api_key"`
	OpenAIAPIKey string  `koanf:"openai_api_key"`
	GeminiAPIKey string  `koanf:"gemini_api_key"`
	BaseURL      string  `koanf:"base_url"`
	Temperature  float64 `koanf:"temperature"`
	MaxTokens    int     `koanf:"max_tokens"`
}

// PokeAPIConfig configures the data source client.
type PokeAPIConfig struct {
	BaseURL         string        `koanf:"base_url"`
	Timeout         time.Duration `koanf:"timeout"`
	Language        string        `koanf:"language"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// RateLimitConfig configures per-client throttling.
type RateLimitConfig struct {
	Enabled       bool          `koanf:"enabled"`
	DefaultLimit  int           `koanf:"default_limit"`
	DefaultWindow time.Duration `koanf:"default_window"`
	FortuneLimit  int           `koanf:"fortune_limit"`
	FortuneWindow time.Duration `koanf:"fortune_window"`
	FortuneBurst  int           `koanf:"fortune_burst"`
	Whitelist     []string      `koanf:"whitelist"`
	Blacklist     []string      `koanf:"blacklist"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns the built-in defaults. Empty strings are resolved later
// where the default depends on another setting.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            3001,
			CORSOrigins:     []string{"*"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Temperature: 0.7,
			MaxTokens:   500,
		},
		PokeAPI: PokeAPIConfig{
			BaseURL:         "https://pokeapi.co/api/v2",
			Timeout:         30 * time.Second,
			Language:        "ja",
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       true,
			DefaultLimit:  300,
			DefaultWindow: time.Minute,
			FortuneLimit:  30,
			FortuneWindow: time.Minute,
			FortuneBurst:  5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// CONFIG_PATH and then DefaultConfigPaths are tried. A missing default file is
// not an error, but an explicit path that cannot be read is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit {
				return nil, fmt.Errorf("config file %s: %w", path, err)
			}
		} else if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// normalize resolves settings whose default depends on other settings.
func (c *Config) normalize() {
	env := strings.ToLower(strings.TrimSpace(c.Server.Environment))
	if env == "" {
		env = strings.ToLower(strings.TrimSpace(c.Server.NodeEnv))
	}
	if env == "" {
		env = EnvProduction
	}
	c.Server.Environment = env

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))

	if c.Log.Format == "" {
		if c.IsDevelopment() {
			c.Log.Format = "console"
		} else {
			c.Log.Format = "json"
		}
	}
}

// IsDevelopment reports whether error details may be shown to callers.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		return envPath
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"ratelimit.whitelist",
	"ratelimit.blacklist",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		list := ratelimit.ParseList(strVal)
		if list == nil {
			list = []string{}
		}
		if err := k.Set(path, list); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"server_host":             "server.host",
	"port":                    "server.port",
	"app_env":                 "server.environment",
	"node_env":                "server.node_env",
	"static_dir":              "server.static_dir",
	"cors_origins":            "server.cors_origins",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",

	"llm_provider":    "llm.provider",
	"llm_model":       "llm.model",
	"llm_api_key":     "llm.api_key",
	"openai_api_key":  "llm.openai_api_key",
	"gemini_api_key":  "llm.gemini_api_key",
	"openai_base_url": "llm.base_url",
	"llm_temperature": "llm.temperature",
	"llm_max_tokens":  "llm.max_tokens",

	"pokeapi_base_url":         "pokeapi.base_url",
	"pokeapi_timeout":          "pokeapi.timeout",
	"pokeapi_language":         "pokeapi.language",
	"pokeapi_breaker_failures": "pokeapi.breaker_failures",
	"pokeapi_breaker_timeout":  "pokeapi.breaker_timeout",

	"rate_limit_enabled":        "ratelimit.enabled",
	"rate_limit_default_limit":  "ratelimit.default_limit",
	"rate_limit_default_window": "ratelimit.default_window",
	"rate_limit_fortune_limit":  "ratelimit.fortune_limit",
	"rate_limit_fortune_window": "ratelimit.fortune_window",
	"rate_limit_fortune_burst":  "ratelimit.fortune_burst",
	"rate_limit_whitelist":      "ratelimit.whitelist",
	"rate_limit_blacklist":      "ratelimit.blacklist",

	"log_level":  "log.level",
	"log_format": "log.format",
}

// envTransformFunc maps a known, non-empty environment variable to its config
// path. Returning an empty key drops the variable.
func envTransformFunc(key, value string) (string, interface{}) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped, value
	}
	return "", nil
}
