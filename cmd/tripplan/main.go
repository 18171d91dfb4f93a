// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Command tripplan runs one recommendation request from the command
// line and prints the ranked lists, using the same artifacts and
// engine as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wayfare-io/wayfare/internal/artifact"
	"github.com/wayfare-io/wayfare/internal/config"
	"github.com/wayfare-io/wayfare/internal/encode"
	"github.com/wayfare-io/wayfare/internal/kg"
	"github.com/wayfare-io/wayfare/internal/logging"
	"github.com/wayfare-io/wayfare/internal/recommend"
	"github.com/wayfare-io/wayfare/internal/validation"
)

var (
	flagSource      string
	flagDestination string
	flagStartDate   string
	flagEndDate     string
	flagDiet        string
	flagTimeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "tripplan",
	Short: "Plan a trip from the command line",
	Long: `tripplan loads the Wayfare artifacts, runs a single hybrid
recommendation query, and prints the ranked spots, hotels, food,
and cultural events for the destination.

Dates use the "20 Oct 2025" layout. Configuration is read the same
way the server reads it: config.yaml plus WAYFARE_* environment
variables.`,
	SilenceUsage: true,
	RunE:         runTrip,
}

func init() {
	rootCmd.Flags().StringVar(&flagSource, "source", "", "trip origin city (required)")
	rootCmd.Flags().StringVar(&flagDestination, "destination", "", "trip destination city (required)")
	rootCmd.Flags().StringVar(&flagStartDate, "start_date", "", `trip start date, e.g. "20 Oct 2025" (required)`)
	rootCmd.Flags().StringVar(&flagEndDate, "end_date", "", `trip end date, e.g. "25 Oct 2025" (required)`)
	rootCmd.Flags().StringVar(&flagDiet, "diet", "", "diet preference, e.g. Veg or Non-Veg")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "overall request timeout")

	_ = rootCmd.MarkFlagRequired("source")
	_ = rootCmd.MarkFlagRequired("destination")
	_ = rootCmd.MarkFlagRequired("start_date")
	_ = rootCmd.MarkFlagRequired("end_date")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTrip(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Keep the console clean; only warnings and errors surface.
	logging.Init(logging.Config{Level: "warn", Format: "console"})
	logger := logging.Logger()

	req := recommend.Request{
		Source:      flagSource,
		Destination: flagDestination,
		StartDate:   flagStartDate,
		EndDate:     flagEndDate,
		Diet:        flagDiet,
	}
	if err := validation.ValidateStruct(&req); err != nil {
		return err
	}

	store, err := artifact.Load(cfg.Artifacts.Paths())
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	graph, err := kg.Load(cfg.Artifacts.GraphPath())
	if err != nil {
		return fmt.Errorf("load knowledge graph: %w", err)
	}

	encoder, err := encode.NewHTTPEncoder(encode.HTTPEncoderConfig{
		BaseURL:          cfg.Encoder.URL,
		Timeout:          cfg.Encoder.Timeout,
		FailureThreshold: cfg.Encoder.FailureThreshold,
		BreakerTimeout:   cfg.Encoder.BreakerTimeout,
	}, nil)
	if err != nil {
		return fmt.Errorf("build encoder: %w", err)
	}

	engine, err := recommend.NewEngine(store, graph, encoder, &cfg.Recommend, logger)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	resp, err := engine.Recommend(ctx, req)
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	fmt.Printf("Trip from %s to %s, %s to %s (diet: %s)\n",
		req.Source, req.Destination, req.StartDate, req.EndDate, req.DietOrDefault())
	if !resp.Metadata.DestinationResolved {
		fmt.Println("note: destination not found in the knowledge graph; ranking by content only")
	}
	if !resp.Metadata.DateFilterApplied {
		fmt.Println("note: trip dates not recognized; events are not date-filtered")
	}

	printList("Recommended spots", resp.RecommendedSpots)
	printList("Hotels", resp.Hotels)
	printList("Food", resp.Food)
	printList("Cultural events", resp.CulturalEvents)

	fmt.Printf("\n%d candidates scored in %dms\n", resp.Metadata.Candidates, resp.Metadata.LatencyMS)
	return nil
}

func printList(title string, items []recommend.ScoredItem) {
	fmt.Printf("\n%s:\n", title)
	if len(items) == 0 {
		fmt.Println("  (none)")
		return
	}
	for i, it := range items {
		fmt.Printf("  %2d. %s (%s) [score=%.4f]\n", i+1, it.Item.Label, it.Item.QID, it.PriorityScore)
	}
}
