package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jonathan/smile-fortune/internal/enrichment"
	"github.com/jonathan/smile-fortune/internal/observability"
	"github.com/jonathan/smile-fortune/internal/pokeapi"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <pokemon>",
	Short: "Fetch enriched attributes for one Pokemon",
	Long:  "Fetches a Pokemon and its species from PokeAPI and prints the derived attributes. No API key is needed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

var (
	lookupLanguage string
	lookupJSON     bool
)

func init() {
	lookupCmd.Flags().StringVarP(&lookupLanguage, "lang", "l", "", "Language for name and flavor text (default: config pokeapi.language)")
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "Print the attributes as JSON")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lang := cfg.PokeAPI.Language
	if lookupLanguage != "" {
		lang = lookupLanguage
	}

	enricher := enrichment.NewEnricher(pokeapi.NewClient(cfg.PokeAPIClientConfig(), nil), nil, lang)
	attrs, err := enricher.Fetch(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if !lookupJSON {
		observability.NewPrinter(cmd.OutOrStdout()).PrintEntity(attrs)
		return nil
	}

	data, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal attributes: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
