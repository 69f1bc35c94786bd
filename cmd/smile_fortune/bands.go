package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jonathan/smile-fortune/internal/observability"
	"github.com/jonathan/smile-fortune/internal/personality"
)

var bandsCmd = &cobra.Command{
	Use:   "bands",
	Short: "Print and validate the personality band table",
	RunE:  runBands,
}

var bandsJSON bool

func init() {
	bandsCmd.Flags().BoolVar(&bandsJSON, "json", false, "Print the table as JSON")
	rootCmd.AddCommand(bandsCmd)
}

func runBands(cmd *cobra.Command, _ []string) error {
	bands := personality.Bands()
	if err := personality.ValidateBands(bands); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if bandsJSON {
		data, err := json.MarshalIndent(bands, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal bands: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	observability.NewPrinter(out).PrintBands(bands)
	_, _ = fmt.Fprintf(out, "%d distinct candidates\n", len(personality.CandidateUniverse()))
	return nil
}
