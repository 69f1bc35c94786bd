package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smile-fortune/internal/llm"
)

// clearEnv blanks every mapped variable so the host environment cannot leak in.
// Empty values are ignored by the env layer.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
	}
	t.Setenv(ConfigPathEnvVar, "")
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, EnvProduction, cfg.Server.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.PokeAPI.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.PokeAPI.Timeout)
	assert.Equal(t, "ja", cfg.PokeAPI.Language)
	assert.Equal(t, uint32(5), cfg.PokeAPI.BreakerFailures)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":3001", cfg.Addr())
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("NODE_ENV", "development")
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("POKEAPI_TIMEOUT", "5s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, ,10.0.0.2,")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, "g-key", cfg.APIKey())
	assert.Equal(t, 5*time.Second, cfg.PokeAPI.Timeout)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.RateLimit.Whitelist)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoad_AppEnvWinsOverNodeEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("NODE_ENV", "development")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
server:
  port: 4000
  static_dir: ""
llm:
  model: gpt-4o
  max_tokens: 300
log:
  level: debug
`)
	t.Setenv("LLM_MAX_TOKENS", "200")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 200, cfg.LLM.MaxTokens, "env beats file")
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "server:\n  port: 5000\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "server: [unclosed\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		problem string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"provider", func(c *Config) { c.LLM.Provider = "claude" }, "unknown LLM provider"},
		{"temperature", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature"},
		{"base url", func(c *Config) { c.PokeAPI.BaseURL = "not a url" }, "pokeapi.base_url"},
		{"timeout", func(c *Config) { c.PokeAPI.Timeout = 0 }, "pokeapi.timeout"},
		{"static dir", func(c *Config) { c.Server.StaticDir = "/definitely/not/here" }, "server.static_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.normalize()
			tt.mutate(cfg)

			err := cfg.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Error(), tt.problem)
		})
	}
}

func TestValidateServe_RequiresKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.normalize()

	err := cfg.ValidateServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	cfg.LLM.OpenAIAPIKey = "sk-test"
	assert.NoError(t, cfg.ValidateServe())

	cfg.Server.Port = -1
	err = cfg.ValidateServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestAPIKey_Precedence(t *testing.T) {
	cfg := defaultConfig()
	cfg.LLM.OpenAIAPIKey = "openai"
	cfg.LLM.GeminiAPIKey = "gemini"
	assert.Equal(t, "openai", cfg.APIKey())

	cfg.LLM.Provider = "gemini"
	assert.Equal(t, "gemini", cfg.APIKey())

	cfg.LLM.APIKey = "generic"
	assert.Equal(t, "generic", cfg.APIKey())
}

func TestConversions(t *testing.T) {
	cfg := defaultConfig()
	cfg.normalize()
	cfg.PokeAPI.BaseURL = "http://localhost:9999/api/v2/"
	cfg.RateLimit.FortuneLimit = 7

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenAI, lc.Provider)
	assert.Equal(t, "gpt-4o-mini", lc.Model)
	assert.Equal(t, 500, lc.MaxTokens)

	cfg.LLM.Provider = "gemini"
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMConfig().Model)

	pc := cfg.PokeAPIClientConfig()
	assert.Equal(t, "http://localhost:9999/api/v2", pc.BaseURL)
	assert.Equal(t, uint32(5), pc.BreakerFailures)

	rc := cfg.RateLimiterConfig()
	require.Len(t, rc.Endpoints, 1)
	assert.Equal(t, "/api/getPokemon", rc.Endpoints[0].Path)
	assert.Equal(t, 7, rc.Endpoints[0].Limit)

	logCfg := cfg.LoggingConfig()
	assert.Equal(t, "info", logCfg.Level)
	assert.Equal(t, "json", logCfg.Format)
}
