package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "github.com/proSamik/airbnb-analytics/internal/adapters/http_server"
	"github.com/proSamik/airbnb-analytics/internal/adapters/observability"
	redisad "github.com/proSamik/airbnb-analytics/internal/adapters/redis"
	"github.com/proSamik/airbnb-analytics/internal/app"
	"github.com/proSamik/airbnb-analytics/internal/domain"
	"github.com/proSamik/airbnb-analytics/internal/shared"
	"github.com/proSamik/airbnb-analytics/internal/storage/jsonfile"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(observability.LogConfig{
		Env: cfg.AppEnv, Level: cfg.LogLevel, Service: "roomgen-api", Out: os.Stdout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := jsonfile.Open(cfg.OutputPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.OutputPath).Msg("load dataset failed")
	}
	ids, _ := store.ListRoomIDs(ctx)
	log.Info().Str("path", cfg.OutputPath).Int("rooms", len(ids)).Msg("dataset loaded")

	// a nil interface disables caching
	var cache domain.Cache
	if cfg.RedisEnabled {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, serving without cache")
		} else {
			cache = rc
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ok")
		}
	}

	clock := app.Clock(app.SystemClock)
	if !cfg.Today.IsZero() {
		clock = app.FixedClock(cfg.Today)
	}
	q := app.NewQueryService(store, cache, cfg.CacheTTL, clock)

	// http
	srv := server.New(cfg.RateLimitRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return observability.Serve(gctx, cfg.MetricsAddr, observability.MetricsHandler(reg)) })
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("API stopped")
}
