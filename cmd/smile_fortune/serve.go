package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/smile-fortune/internal/config"
	"github.com/jonathan/smile-fortune/internal/enrichment"
	"github.com/jonathan/smile-fortune/internal/fortune"
	"github.com/jonathan/smile-fortune/internal/llm"
	"github.com/jonathan/smile-fortune/internal/logging"
	"github.com/jonathan/smile-fortune/internal/narration"
	"github.com/jonathan/smile-fortune/internal/personality"
	"github.com/jonathan/smile-fortune/internal/pokeapi"
	"github.com/jonathan/smile-fortune/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes POST /api/getPokemon, /health and /metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx := cmd.Context()

	llmClient, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = llmClient.Close() }()

	svc, err := newFortuneService(cfg, llmClient, personality.NewRandomPicker())
	if err != nil {
		return err
	}

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("provider", cfg.LLM.Provider).
		Str("model", cfg.LLMConfig().Model).
		Str("pokeapi", cfg.PokeAPI.BaseURL).
		Bool("rate_limit", cfg.RateLimit.Enabled).
		Msg("configuration loaded")

	srv := server.New(serverConfig(cfg), svc)
	return srv.Start(ctx)
}

// newFortuneService wires classifier, enrichment and narration into one service.
func newFortuneService(cfg *config.Config, client llm.Client, picker personality.Picker) (*fortune.Service, error) {
	classifier, err := personality.NewClassifier(nil, picker)
	if err != nil {
		return nil, fmt.Errorf("invalid band table: %w", err)
	}

	source := pokeapi.NewClient(cfg.PokeAPIClientConfig(), nil)
	enricher := enrichment.NewEnricher(source, nil, cfg.PokeAPI.Language)
	narrator := narration.NewNarrator(client, cfg.LLM.Provider)

	return fortune.NewService(classifier, enricher, narrator), nil
}

func serverConfig(cfg *config.Config) server.Config {
	sc := server.Config{
		Addr:            cfg.Addr(),
		Development:     cfg.IsDevelopment(),
		StaticDir:       cfg.Server.StaticDir,
		CORSOrigins:     cfg.Server.CORSOrigins,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	if cfg.RateLimit.Enabled {
		rl := cfg.RateLimiterConfig()
		sc.RateLimit = &rl
	}
	return sc
}
