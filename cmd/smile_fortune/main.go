// Package main provides the entry point for the smile fortune HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/smile-fortune/internal/config"
	"github.com/jonathan/smile-fortune/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "smile_fortune",
	Short: "Smile fortune HTTP API server",
	Long:  "Smile fortune maps a smile score to a Pokemon personality band, enriches the chosen Pokemon from PokeAPI and narrates a short fortune with a language model.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: $CONFIG_PATH, then ./config.yaml)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and initializes the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Init(cfg.LoggingConfig())
	return cfg, nil
}
