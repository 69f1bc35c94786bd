package main

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/smile-fortune/internal/llm"
	"github.com/jonathan/smile-fortune/internal/personality"
	"github.com/jonathan/smile-fortune/internal/types"
)

var isolatedEnv = []string{
	"CONFIG_PATH", "APP_ENV", "NODE_ENV", "PORT", "SERVER_HOST",
	"LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENAI_BASE_URL",
	"POKEAPI_BASE_URL", "POKEAPI_LANGUAGE", "LOG_LEVEL", "LOG_FORMAT", "RATE_LIMIT_ENABLED",
}

// executeCommand runs the root command with args and returns its stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	for _, key := range isolatedEnv {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	configPath = ""
	classifyScore = math.NaN()
	classifyIndex = -1
	lookupLanguage = ""
	bandsJSON = false
	lookupJSON = false
	tellScore = math.NaN()
	tellExpression = ""
	tellJSON = false
	servePort = 0
	classifyCmd.Flags().Lookup("score").Changed = false
	tellCmd.Flags().Lookup("score").Changed = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// newPokeAPIServer serves the pokeapi package fixtures.
func newPokeAPIServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	fixtures := map[string][]byte{}
	for route, file := range map[string]string{
		"/pokemon/pikachu":         "pokemon_pikachu.json",
		"/pokemon-species/pikachu": "species_pikachu.json",
	} {
		data, err := os.ReadFile(filepath.Join("..", "..", "internal", "pokeapi", "testdata", file))
		require.NoError(t, err)
		fixtures[route] = data
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		data, ok := fixtures[strings.TrimSuffix(r.URL.Path, "/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBandsCommand(t *testing.T) {
	out, err := executeCommand(t, "bands")
	require.NoError(t, err)

	assert.Contains(t, out, "CHEERFUL")
	assert.Contains(t, out, "POWERFUL")
	assert.Contains(t, out, "PERSONALITY BANDS (10)")
	assert.Contains(t, out, fmt.Sprintf("%d distinct candidates", len(personality.CandidateUniverse())))
}

func TestBandsCommand_JSON(t *testing.T) {
	out, err := executeCommand(t, "bands", "--json")
	require.NoError(t, err)

	var bands []personality.Band
	require.NoError(t, json.Unmarshal([]byte(out), &bands))
	require.Len(t, bands, 10)
	assert.Equal(t, personality.KeyCheerful, bands[0].Key)
	assert.Equal(t, personality.KeyPowerful, bands[9].Key)
}

func TestClassifyCommand(t *testing.T) {
	tests := []struct {
		score string
		band  string
	}{
		{"0.95", personality.KeyCheerful},
		{"0.9", personality.KeyCheerful},
		{"0.5", personality.KeyGentle},
		{"0.05", personality.KeyPowerful},
	}

	for _, tt := range tests {
		t.Run(tt.score, func(t *testing.T) {
			out, err := executeCommand(t, "classify", "--score", tt.score)
			require.NoError(t, err)
			assert.Contains(t, out, tt.band+" [")

			band, ok := personality.Lookup(tt.band)
			require.True(t, ok)
			assert.Contains(t, out, band.Description)
		})
	}
}

func TestClassifyCommand_Index(t *testing.T) {
	out, err := executeCommand(t, "classify", "--score", "0.95", "--index", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Candidate:  pikachu")
}

func TestClassifyCommand_MissingScore(t *testing.T) {
	_, err := executeCommand(t, "classify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score")
}

func TestLookupCommand(t *testing.T) {
	srv := newPokeAPIServer(t, nil)
	path := writeConfig(t, fmt.Sprintf("pokeapi:\n  base_url: %s\nlog:\n  level: disabled\n", srv.URL))

	out, err := executeCommand(t, "--config", path, "lookup", "Pikachu", "--json")
	require.NoError(t, err)

	var attrs types.EntityAttributes
	require.NoError(t, json.Unmarshal([]byte(out), &attrs))
	assert.Equal(t, 25, attrs.ID)
	assert.Equal(t, "ピカチュウ", attrs.Name)
	assert.Contains(t, attrs.Types, "electric")
}

func TestLookupCommand_Box(t *testing.T) {
	srv := newPokeAPIServer(t, nil)
	path := writeConfig(t, fmt.Sprintf("pokeapi:\n  base_url: %s\nlog:\n  level: disabled\n", srv.URL))

	out, err := executeCommand(t, "--config", path, "lookup", "pikachu", "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "POKEMON")
	assert.Contains(t, out, "#25  Pikachu")
}

func TestLookupCommand_NotFound(t *testing.T) {
	srv := newPokeAPIServer(t, nil)
	path := writeConfig(t, fmt.Sprintf("pokeapi:\n  base_url: %s\nlog:\n  level: disabled\n", srv.URL))

	_, err := executeCommand(t, "--config", path, "lookup", "missingno")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missingno")
}

func TestLookupCommand_RequiresArg(t *testing.T) {
	_, err := executeCommand(t, "lookup")
	require.Error(t, err)
}

func TestServeCommand_RequiresAPIKey(t *testing.T) {
	path := writeConfig(t, "log:\n  level: disabled\n")

	_, err := executeCommand(t, "--config", path, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestTellCommand_RequiresAPIKey(t *testing.T) {
	path := writeConfig(t, "log:\n  level: disabled\n")

	_, err := executeCommand(t, "--config", path, "tell", "--score", "0.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestServeCommand_MissingConfigFile(t *testing.T) {
	_, err := executeCommand(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestServerConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  environment: development
  port: 4000
  static_dir: ./public
ratelimit:
  enabled: true
  fortune_limit: 10
log:
  level: disabled
`)
	for _, key := range isolatedEnv {
		t.Setenv(key, "")
	}
	configPath = path
	t.Cleanup(func() { configPath = "" })

	cfg, err := loadConfig()
	require.NoError(t, err)

	sc := serverConfig(cfg)
	assert.True(t, sc.Development)
	assert.True(t, strings.HasSuffix(sc.Addr, ":4000"))
	assert.Equal(t, "./public", sc.StaticDir)
	require.NotNil(t, sc.RateLimit)
	require.Len(t, sc.RateLimit.Endpoints, 1)
	assert.Equal(t, 10, sc.RateLimit.Endpoints[0].Limit)
}

type scriptedLLM struct {
	calls atomic.Int32
}

func (s *scriptedLLM) Complete(context.Context, llm.CompletionRequest) (string, error) {
	s.calls.Add(1)
	return "  ピカッと光る一日になりそうやで\n", nil
}

func (s *scriptedLLM) Close() error { return nil }

func TestNewFortuneService(t *testing.T) {
	var hits atomic.Int32
	srv := newPokeAPIServer(t, &hits)
	path := writeConfig(t, fmt.Sprintf("pokeapi:\n  base_url: %s\nlog:\n  level: disabled\n", srv.URL))
	for _, key := range isolatedEnv {
		t.Setenv(key, "")
	}
	configPath = path
	t.Cleanup(func() { configPath = "" })

	cfg, err := loadConfig()
	require.NoError(t, err)

	gen := &scriptedLLM{}
	svc, err := newFortuneService(cfg, gen, personality.NewSequencePicker(0))
	require.NoError(t, err)

	score := 0.97
	result, err := svc.Tell(context.Background(), types.FortuneRequest{SmileScore: &score})
	require.NoError(t, err)

	assert.Equal(t, "ピカチュウ", result.Entity.Name)
	assert.Equal(t, personality.KeyCheerful, result.BandKey)
	assert.Equal(t, "ピカッと光る一日になりそうやで", result.Narrative)
	assert.Equal(t, int32(1), gen.calls.Load())

	// Second request is served from the cache.
	before := hits.Load()
	_, err = svc.Tell(context.Background(), types.FortuneRequest{SmileScore: &score})
	require.NoError(t, err)
	assert.Equal(t, before, hits.Load())
}
