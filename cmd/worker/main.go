package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pickstats/rankings/internal/aggregate"
	"pickstats/rankings/internal/cache"
	"pickstats/rankings/internal/config"
	"pickstats/rankings/internal/metrics"
	"pickstats/rankings/internal/period"
	"pickstats/rankings/internal/rebuild"
	"pickstats/rankings/internal/repository"
	"pickstats/rankings/internal/scheduler"
	"pickstats/rankings/internal/server"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting rankings rebuild worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Strs("leagues", cfg.LeagueList()).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize database connection
	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize Redis (lease + leaderboard cache); the worker runs without
	// it when unavailable
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without rebuild lease")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(strconv.Itoa(cfg.MetricsPort))
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create the rebuild engine
	engine := rebuild.NewEngine(
		db,
		redisCache,
		aggregate.NewRuleTableClassifier(),
		time.Duration(cfg.LeaseTTLMinutes)*time.Minute,
	)

	// Start scheduler
	sched := scheduler.NewScheduler(cfg, engine)
	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Start the on-demand trigger server
	triggerSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.TriggerPort),
		Handler: server.NewServer(engine, cfg.LeagueList()).Handler(),
	}
	go func() {
		log.Info().Int("port", cfg.TriggerPort).Msg("Starting trigger server")
		if err := triggerSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Trigger server failed")
		}
	}()

	// Optional catch-up rebuild on startup
	if cfg.RebuildOnStart {
		log.Info().Msg("Running startup rebuild...")
		now := time.Now()
		if _, err := engine.RebuildMonthly(ctx, now); err != nil {
			log.Error().Err(err).Msg("Startup monthly rebuild failed, continuing anyway...")
		}
		if err := engine.RebuildAllLeaderboards(ctx, period.Week, cfg.LeagueList(), now); err != nil {
			log.Error().Err(err).Msg("Startup leaderboard rebuild failed, continuing anyway...")
		}
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := triggerSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Trigger server shutdown failed")
	}

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
