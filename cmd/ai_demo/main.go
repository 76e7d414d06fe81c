// README: Generates one itinerary from the command line and pretty-prints it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tidwall/pretty"

	"travelai/internal/ai"
	"travelai/internal/config"
	"travelai/internal/infra"
	"travelai/internal/modules/itinerary"
)

func main() {
	var (
		destination = flag.String("destination", "Paris", "trip destination")
		start       = flag.String("start", "2025-06-01", "start date (YYYY-MM-DD)")
		end         = flag.String("end", "2025-06-05", "end date (YYYY-MM-DD)")
		budget      = flag.String("budget", string(itinerary.DefaultBudget), "budget level")
		interests   = flag.String("interests", "Food,Culture", "comma-separated interest tags")
		timeout     = flag.Duration("timeout", 60*time.Second, "request timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	req, err := buildRequest(*destination, *start, *end, *budget, *interests)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	provider, err := ai.New(ctx, cfg.AI.Provider, ai.Keys{Gemini: cfg.AI.GeminiKey, OpenAI: cfg.AI.OpenAIKey})
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	fmt.Printf("Planning %s, %s to %s (%s)\n", req.Destination, *start, *end, req.Budget)

	it, err := itinerary.NewService(provider, logger).Generate(ctx, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Stdout.Write(pretty.Color(pretty.Pretty(it.JSON()), nil))
}

func buildRequest(destination, start, end, budget, interests string) (itinerary.TripRequest, error) {
	startDate, err := time.Parse(itinerary.DateLayout, start)
	if err != nil {
		return itinerary.TripRequest{}, fmt.Errorf("start: %w", err)
	}
	endDate, err := time.Parse(itinerary.DateLayout, end)
	if err != nil {
		return itinerary.TripRequest{}, fmt.Errorf("end: %w", err)
	}
	b, err := itinerary.ParseBudget(budget)
	if err != nil {
		return itinerary.TripRequest{}, err
	}
	return itinerary.TripRequest{
		Destination: strings.TrimSpace(destination),
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      b,
		Interests:   itinerary.NormalizeInterests(strings.Split(interests, ",")),
	}, nil
}
