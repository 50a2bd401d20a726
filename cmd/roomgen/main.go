package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/proSamik/airbnb-analytics/internal/adapters/observability"
	"github.com/proSamik/airbnb-analytics/internal/app"
	"github.com/proSamik/airbnb-analytics/internal/shared"
	"github.com/proSamik/airbnb-analytics/internal/storage/jsonfile"
)

func main() {
	cfg := shared.Load()

	// stdout carries the report; logs go to stderr
	log.Logger = observability.NewLogger(observability.LogConfig{
		Env: cfg.AppEnv, Level: cfg.LogLevel, Service: "roomgen", Out: os.Stderr,
	})

	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Logger()
	ctx := logger.WithContext(context.Background())

	clock := app.Clock(app.SystemClock)
	if !cfg.Today.IsZero() {
		clock = app.FixedClock(cfg.Today)
	}
	params := app.GenerationParams{
		Rooms:             cfg.Rooms,
		Days:              cfg.Days,
		RateMin:           cfg.RateMin,
		RateMax:           cfg.RateMax,
		VariationMin:      cfg.VariationMin,
		VariationMax:      cfg.VariationMax,
		BookedProbability: cfg.BookedProbability,
	}

	logger.Info().
		Str("output", cfg.OutputPath).
		Int("rooms", params.Rooms).
		Int("days", params.Days).
		Uint64("seed", cfg.Seed).
		Msg("generator starting")

	svc := app.NewGenerationService(jsonfile.NewWriter(cfg.OutputPath), params, clock, app.NewRand(cfg.Seed))
	ids, err := svc.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Str("output", cfg.OutputPath).Msg("generation failed")
	}

	if err := app.WriteReport(os.Stdout, cfg.OutputPath, ids); err != nil {
		logger.Error().Err(err).Msg("report failed")
	}

	if cfg.PushgatewayURL != "" {
		pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := observability.Push(pctx, cfg.PushgatewayURL, "roomgen", runID, observability.InitRegistry()); err != nil {
			logger.Warn().Err(err).Str("url", cfg.PushgatewayURL).Msg("metrics push failed")
		}
	}
}
