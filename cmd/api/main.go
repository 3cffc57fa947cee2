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

	server "travel_planner/internal/adapters/http_server"
	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/app"
	"travel_planner/internal/catalog"
	"travel_planner/internal/shared"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.Serve(cfg.MetricsAddr)

	// catalog must be loadable before we accept traffic
	provider := catalog.NewProvider(cfg.RawDataPath, cfg.CleanedDataPath)
	cat, err := provider.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("raw", cfg.RawDataPath).Msg("catalog load failed")
	}
	log.Info().Int("destinations", cat.Len()).Str("version", cat.Version).Msg("catalog loaded")

	// deps
	store, closeStore, err := shared.OpenRatingStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.RatingsBackend).Msg("ratings store")
	}
	defer closeStore()
	if store == nil {
		log.Warn().Msg("no ratings store configured")
	}
	cache, closeCache := shared.OpenCache(ctx, cfg)
	defer closeCache()

	q := app.NewQueryService(provider, store, cache, cfg.CacheTTL())
	sub := app.NewSubmissionService(store, cache, cfg.RatingsBackend)

	// http
	srv := server.New(15 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(observability.Registry()))
	srv.MountHandlers(&server.Handlers{Q: q, S: sub})
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
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})
	if cfg.WatchData {
		g.Go(func() error {
			if err := catalog.Watch(gctx, provider); err != nil {
				// serving continues with the memoized catalog
				log.Error().Err(err).Msg("catalog watcher stopped")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("shutdown complete")
}
