package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/church-livestream/cls/internal/adapters/cache"
	"github.com/church-livestream/cls/internal/adapters/github"
	"github.com/church-livestream/cls/internal/adapters/httpapi"
	"github.com/church-livestream/cls/internal/adapters/memorybus"
	"github.com/church-livestream/cls/internal/adapters/sqlite"
	"github.com/church-livestream/cls/internal/adapters/youtube"
	"github.com/church-livestream/cls/internal/app"
	"github.com/church-livestream/cls/internal/buildinfo"
	"github.com/church-livestream/cls/internal/config"
	"github.com/church-livestream/cls/internal/metrics"
	"github.com/church-livestream/cls/internal/ports"
)

type statusCache interface {
	ports.Cache
	metrics.CacheStats
	Close() error
}

func main() {
	def := config.Load()
	addr := flag.String("addr", def.Addr, "Adresse d'écoute (ex: 127.0.0.1:8080)")
	dbPath := flag.String("db", def.DBPath, "Chemin SQLite (ex: cls.db)")
	redisAddr := flag.String("redis", def.RedisAddr, "Adresse Redis (vide = cache mémoire)")
	flag.Parse()

	logger := zerolog.New(os.Stdout).Level(def.LogLevel).With().Timestamp().Str("app", "cls-server").Logger()
	log.Logger = logger

	logger.Info().Interface("build", buildinfo.Current()).Str("db", *dbPath).Msg("starting")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open db")
	}
	defer func() { _ = db.Close() }()

	c, backend := openCache(ctx, logger, def, *redisAddr)
	defer func() { _ = c.Close() }()
	metrics.RegisterCache(prometheus.DefaultRegisterer, backend, c)

	bus := memorybus.New(0)
	defer bus.Close()

	yt := youtube.NewClient(
		youtube.WithBaseURL(def.YouTubeBaseURL),
		youtube.WithRateLimit(def.UpstreamRPS, int(max(1, def.UpstreamRPS))),
	)
	gh := github.NewClient(
		github.WithBaseURL(def.GitHubBaseURL),
		github.WithUserAgent("cls/"+buildinfo.Version),
	)

	settingsRepo := sqlite.NewSettingsRepository(db.SQL)
	settingsSvc := app.NewSettingsService(logger, settingsRepo, c, bus)
	resolver := app.NewLiveResolver(logger, yt, c)
	statusSvc := app.NewStatusService(logger, settingsRepo, resolver, c, bus)
	embedSvc := app.NewEmbedService(settingsSvc, statusSvc, def.PublicURL)
	updateSvc := app.NewUpdateService(logger, settingsRepo, gh, c, buildinfo.Version)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpapi.NewServer(logger, httpapi.Services{
		Status:   statusSvc,
		Settings: settingsSvc,
		Embed:    embedSvc,
		Updates:  updateSvc,
		Bus:      bus,
	}, httpapi.Options{
		AdminToken:      def.AdminToken,
		StatusRateLimit: def.StatusRateLimit,
		Metrics:         promhttp.Handler(),
	})
	if def.AdminToken == "" {
		logger.Warn().Msg("CLS_ADMIN_TOKEN is empty: admin routes are unauthenticated")
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", *addr).Str("cache", backend).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	// Ferme les flux SSE avant Shutdown, qui attend la fin des handlers.
	bus.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
}

// openCache préfère Redis (partagé entre réplicas) et retombe sur le cache mémoire.
func openCache(ctx context.Context, logger zerolog.Logger, cfg config.Config, addr string) (statusCache, string) {
	if addr != "" {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rc, err := cache.NewRedis(pctx, cache.RedisConfig{
			Addr:     addr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		}, logger)
		if err == nil {
			return rc, "redis"
		}
		logger.Warn().Err(err).Str("addr", addr).Msg("redis unavailable, using in-memory cache")
	}
	return cache.NewMemory(time.Minute), "memory"
}
