package main

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jonathan/smile-fortune/internal/fortune"
	"github.com/jonathan/smile-fortune/internal/llm"
	"github.com/jonathan/smile-fortune/internal/observability"
	"github.com/jonathan/smile-fortune/internal/personality"
	"github.com/jonathan/smile-fortune/internal/types"
)

var tellCmd = &cobra.Command{
	Use:   "tell",
	Short: "Tell one fortune from the command line",
	Long:  "Runs the full fortune flow once for a smile score: band selection, PokeAPI enrichment and narration. Requires an API key for the configured provider.",
	RunE:  runTell,
}

var (
	tellScore      float64
	tellExpression string
	tellJSON       bool
)

func init() {
	tellCmd.Flags().Float64VarP(&tellScore, "score", "s", math.NaN(), "Smile score between 0 and 1 (required)")
	tellCmd.Flags().StringVarP(&tellExpression, "expression", "e", "", "Detected facial expression label")
	tellCmd.Flags().BoolVar(&tellJSON, "json", false, "Print the API response body instead of boxes")

	if err := tellCmd.MarkFlagRequired("score"); err != nil {
		panic(fmt.Sprintf("failed to mark score flag as required: %v", err))
	}

	rootCmd.AddCommand(tellCmd)
}

func runTell(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	svc, err := newFortuneService(cfg, client, personality.NewRandomPicker())
	if err != nil {
		return err
	}

	score := tellScore
	result, err := svc.Tell(ctx, types.FortuneRequest{SmileScore: &score, UserExpression: tellExpression})
	if err != nil {
		return fmt.Errorf("%s: %w", fortune.UserMessage(err), err)
	}

	if tellJSON {
		data, err := json.MarshalIndent(types.NewFortuneResponse(result), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal fortune: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintFortune(result)
	return nil
}
