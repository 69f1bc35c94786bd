package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jonathan/smile-fortune/internal/llm"
	"github.com/jonathan/smile-fortune/internal/logging"
	"github.com/jonathan/smile-fortune/internal/pokeapi"
	"github.com/jonathan/smile-fortune/internal/server/ratelimit"
)

// ValidationError lists every invalid setting found.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks the settings every command needs. Use ValidateServe before
// starting the HTTP server.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range 1-65535", c.Server.Port))
	}
	if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
		problems = append(problems, err.Error())
	}
	if c.LLM.MaxTokens < 0 {
		problems = append(problems, "llm.max_tokens must be non-negative")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("llm.temperature %.2f out of range 0-2", c.LLM.Temperature))
	}
	if u, err := url.Parse(c.PokeAPI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("pokeapi.base_url %q is not an absolute URL", c.PokeAPI.BaseURL))
	}
	if c.PokeAPI.Timeout <= 0 {
		problems = append(problems, "pokeapi.timeout must be positive")
	}
	if c.Server.StaticDir != "" {
		if fi, err := os.Stat(c.Server.StaticDir); err != nil || !fi.IsDir() {
			problems = append(problems, fmt.Sprintf("server.static_dir %q is not a directory", c.Server.StaticDir))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidateServe runs Validate and also requires an API key for the configured
// provider.
func (c *Config) ValidateServe() error {
	err := c.Validate()
	if c.APIKey() != "" {
		return err
	}

	missing := fmt.Sprintf("an API key is required for provider %q (set %s or LLM_API_KEY)", c.LLM.Provider, c.apiKeyEnv())
	var verr *ValidationError
	if errors.As(err, &verr) {
		verr.Problems = append(verr.Problems, missing)
		return verr
	}
	return &ValidationError{Problems: []string{missing}}
}

// APIKey returns the key for the configured provider. LLM_API_KEY wins over
// the provider-specific variable.
func (c *Config) APIKey() string {
	if c.LLM.APIKey != "" {
		return c.LLM.APIKey
	}
	if llm.Provider(c.LLM.Provider) == llm.ProviderGemini {
		return c.LLM.GeminiAPIKey
	}
	return c.LLM.OpenAIAPIKey
}

func (c *Config) apiKeyEnv() string {
	if llm.Provider(c.LLM.Provider) == llm.ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// LLMConfig converts to the llm package configuration.
func (c *Config) LLMConfig() *llm.Config {
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		provider = llm.ProviderOpenAI
	}
	model := c.LLM.Model
	if model == "" {
		model = llm.DefaultModel(provider)
	}
	return &llm.Config{
		Provider:    provider,
		Model:       model,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
		BaseURL:     c.LLM.BaseURL,
	}
}

// PokeAPIClientConfig converts to the pokeapi client configuration.
func (c *Config) PokeAPIClientConfig() pokeapi.Config {
	cfg := pokeapi.DefaultConfig()
	cfg.BaseURL = strings.TrimRight(c.PokeAPI.BaseURL, "/")
	cfg.Timeout = c.PokeAPI.Timeout
	if c.PokeAPI.BreakerFailures > 0 {
		cfg.BreakerFailures = c.PokeAPI.BreakerFailures
	}
	if c.PokeAPI.BreakerTimeout > 0 {
		cfg.BreakerTimeout = c.PokeAPI.BreakerTimeout
	}
	return cfg
}

// RateLimiterConfig converts to the ratelimit configuration.
func (c *Config) RateLimiterConfig() ratelimit.Config {
	cfg := ratelimit.DefaultConfig()
	cfg.Enabled = c.RateLimit.Enabled
	cfg.DefaultLimit = c.RateLimit.DefaultLimit
	cfg.DefaultWindow = c.RateLimit.DefaultWindow
	cfg.Whitelist = c.RateLimit.Whitelist
	cfg.Blacklist = c.RateLimit.Blacklist
	cfg.Endpoints = []ratelimit.EndpointConfig{{
		Path:   "/api/getPokemon",
		Method: "POST",
		Limit:  c.RateLimit.FortuneLimit,
		Window: c.RateLimit.FortuneWindow,
		Burst:  c.RateLimit.FortuneBurst,
	}}
	return cfg
}

// LoggingConfig converts to the logging configuration.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}
