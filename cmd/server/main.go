package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/terraquest/terraquest-backend/internal/api"
	"github.com/terraquest/terraquest-backend/internal/auth"
	"github.com/terraquest/terraquest-backend/internal/cache"
	"github.com/terraquest/terraquest-backend/internal/config"
	"github.com/terraquest/terraquest-backend/internal/engine"
	"github.com/terraquest/terraquest-backend/internal/notify"
	"github.com/terraquest/terraquest-backend/internal/repository"
	"github.com/terraquest/terraquest-backend/internal/seed"
	"github.com/terraquest/terraquest-backend/internal/service/leaderboard"
	"github.com/terraquest/terraquest-backend/internal/service/reward"
	"github.com/terraquest/terraquest-backend/internal/service/scan"
	"github.com/terraquest/terraquest-backend/internal/service/user"
	"github.com/terraquest/terraquest-backend/pkg/logger"
)

// demoJWTSecret signs tokens when no secret is configured. Demo mode only;
// persistent mode refuses to start without auth.jwt_secret.
const demoJWTSecret = "terraquest-demo-secret"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting TerraQuest server")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	seedData, err := seed.Load()
	if err != nil {
		return fmt.Errorf("failed to load seed data: %w", err)
	}

	db, store, err := setupStorage(cfg, seedData, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close cache")
		}
	}()

	tiers, err := repository.NewLevelRepository(db).GetAll()
	if err != nil {
		return fmt.Errorf("failed to load level table: %w", err)
	}
	levels, err := engine.NewLevelTable(tiers)
	if err != nil {
		return fmt.Errorf("invalid level table: %w", err)
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secret = demoJWTSecret
		log.Warn().Msg("No JWT secret configured, using demo secret")
	}
	issuer := auth.NewTokenIssuer(secret, cfg.Auth.TokenTTL())

	notifier := notify.NewClient(&cfg.Community, log)

	scanService := scan.NewService(db, levels, cfg.Engine.LowCarbonThreshold, notifier, log)
	rewardService := reward.NewService(db, levels, cfg.Engine.RedemptionPolicy(), notifier, log)
	leaderboardService := leaderboard.NewService(
		repository.NewLeaderboardRepository(db), store, cfg.LeaderboardCacheTTL(), log)
	userService := user.NewService(
		repository.NewUserRepository(db), repository.NewBadgeRepository(db), issuer, levels, log)

	handler := api.NewHandler(
		scanService,
		rewardService,
		leaderboardService,
		userService,
		repository.NewProductRepository(db),
		repository.NewChallengeRepository(db),
		repository.NewBadgeRepository(db),
		db,
		log,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(handler, issuer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var metricsServer *http.Server
	if cfg.Metrics.Prometheus.Enabled {
		metricsServer = startMetricsServer(cfg.Metrics.Prometheus, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down metrics server")
		}
	}

	log.Info().Msg("Server stopped")
	return nil
}

// setupStorage opens the backing stores for the configured mode: an
// in-memory sqlite plus memory cache for demo, postgres plus redis for
// persistent. Both modes end up seeded; demo additionally gets the demo
// account.
func setupStorage(cfg *config.Config, seedData *seed.Data, log *logger.Logger) (*repository.DB, cache.Cache, error) {
	if cfg.Server.Mode == config.ModeDemo {
		db, err := repository.NewDemoDB(log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open demo database: %w", err)
		}
		if err := repository.SeedIfEmpty(db, seedData, repository.SeedOptions{DemoUser: true}); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo database: %w", err)
		}
		return db, cache.NewMemoryCache(), nil
	}

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.Migrate(log); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := repository.SeedIfEmpty(db, seedData, repository.SeedOptions{}); err != nil {
		return nil, nil, fmt.Errorf("failed to seed database: %w", err)
	}

	store, err := cache.NewRedisCache(&cfg.Database.Redis, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return db, store, nil
}

func startMetricsServer(cfg config.PrometheusConfig, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("path", cfg.Path).Msg("Metrics server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()

	return server
}
