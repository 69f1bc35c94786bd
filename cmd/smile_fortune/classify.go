package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/jonathan/smile-fortune/internal/observability"
	"github.com/jonathan/smile-fortune/internal/personality"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Resolve a smile score to a personality band",
	Long:  "Resolves a smile score in [0, 1] to its personality band and draws one candidate Pokemon from it. No network access is needed.",
	RunE:  runClassify,
}

var (
	classifyScore float64
	classifyIndex int
)

func init() {
	classifyCmd.Flags().Float64VarP(&classifyScore, "score", "s", math.NaN(), "Smile score between 0 and 1 (required)")
	classifyCmd.Flags().IntVar(&classifyIndex, "index", -1, "Pick this candidate index instead of a random one")

	if err := classifyCmd.MarkFlagRequired("score"); err != nil {
		panic(fmt.Sprintf("failed to mark score flag as required: %v", err))
	}

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	var picker personality.Picker = personality.NewRandomPicker()
	if classifyIndex >= 0 {
		picker = personality.NewSequencePicker(classifyIndex)
	}

	classifier, err := personality.NewClassifier(nil, picker)
	if err != nil {
		return fmt.Errorf("invalid band table: %w", err)
	}

	sel := classifier.Select(classifyScore)
	observability.NewPrinter(cmd.OutOrStdout()).PrintSelection(classifyScore, sel)
	return nil
}
