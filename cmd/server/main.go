package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Skufu/bpfuel/internal/api"
	"github.com/Skufu/bpfuel/internal/bp"
	"github.com/Skufu/bpfuel/internal/config"
	"github.com/Skufu/bpfuel/internal/logging"
	"github.com/Skufu/bpfuel/internal/metrics"
	"github.com/Skufu/bpfuel/internal/recommend"
	"github.com/Skufu/bpfuel/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info", "json", os.Stderr)
		boot.Fatal().Err(err).Msg("config error")
	}

	gin.SetMode(cfg.GinMode)
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	for _, w := range cfg.Warnings {
		logger.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	m := metrics.New("bpfuel")

	gen, closeGen, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("recommendation backend setup failed")
	}
	defer closeGen()

	rng := bp.DefaultSource()
	srv := &api.Server{
		Estimator:    bp.NewBrightnessEstimator(rng, logger.With().Str("component", "estimator").Logger()),
		Detector:     bp.SimulatedDetector{Rand: rng},
		Rand:         rng,
		Provider:     recommend.NewProvider(gen, cfg.RecommendationTimeout, logger.With().Str("component", "recommend").Logger(), m),
		Metrics:      m,
		Limiter:      api.NewLimiter(cfg.RecommendationRate, cfg.RecommendationBurst),
		Log:          logger,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}

	if cfg.EnableDB {
		pool, err := store.Connect(ctx, cfg.DatabaseURL, store.PoolConfig{
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		}, logger.With().Str("component", "store").Logger())
		if err != nil {
			logger.Fatal().Err(err).Msg("database connection failed")
		}
		defer pool.Close()

		st := store.New(pool)
		if err := st.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("database migration failed")
		}
		srv.DB = st
		srv.Store = st
	}

	server := newHTTPServer(cfg, api.NewRouter(srv))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	logger.Info().Str("port", cfg.Port).Bool("db", cfg.EnableDB).Str("recommender", srv.Provider.Backend()).Msg("server listening")
	if err := waitForShutdown(ctx, server, shutdownTimeout, logger); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newGenerator picks the text generation backend from the resolved
// credentials. A nil generator means recommendations come from the static
// table.
func newGenerator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (recommend.Generator, func(), error) {
	noop := func() {}
	backend, key := cfg.ActiveBackend()
	if backend == "" {
		log.Info().Msg("no recommendation API key configured, serving static recommendations")
		return nil, noop, nil
	}
	log.Info().
		Str("backend", backend).
		Str("credential_source", string(cfg.Credentials.Key(backend).Source)).
		Msg("recommendation backend configured")

	switch backend {
	case config.BackendGemini:
		g, err := recommend.NewGeminiGenerator(ctx, key, cfg.GeminiModel)
		if err != nil {
			return nil, noop, err
		}
		return g, func() { _ = g.Close() }, nil
	default:
		return recommend.NewOpenAIGenerator(cfg.OpenAIBaseURL, key, cfg.OpenAIModel, nil), noop, nil
	}
}

// newHTTPServer leaves room in the write timeout for a full model call.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RecommendationTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

const shutdownTimeout = 5 * time.Second

// waitForShutdown blocks until ctx is done, then drains in-flight requests
// for at most timeout.
func waitForShutdown(ctx context.Context, server *http.Server, timeout time.Duration, log zerolog.Logger) error {
	<-ctx.Done()

	log.Info().Dur("timeout", timeout).Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
