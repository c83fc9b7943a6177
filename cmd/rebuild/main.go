// Command rebuild runs one rebuild for an explicit period kind and league set
// and exits. Used for manual backfills when a scheduled run failed or history
// needs regenerating.
package main

import (
	"context"
	"flag"
	"strconv"
	"time"

	"pickstats/rankings/internal/aggregate"
	"pickstats/rankings/internal/cache"
	"pickstats/rankings/internal/config"
	"pickstats/rankings/internal/period"
	"pickstats/rankings/internal/rebuild"
	"pickstats/rankings/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	kindFlag := flag.String("kind", "week", "period kind: week or month")
	leagueFlag := flag.String("league", "", "league id; empty means all configured leagues")
	monthlyStats := flag.Bool("monthly-stats", false, "also rebuild monthly user stats and global document")
	flag.Parse()

	ctx := context.Background()
	cfg := config.MustLoad()

	kind, err := period.ParseKind(*kindFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid kind flag")
	}

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

	// Validate database connectivity before doing any work
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

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

	engine := rebuild.NewEngine(
		db,
		redisCache,
		aggregate.NewRuleTableClassifier(),
		time.Duration(cfg.LeaseTTLMinutes)*time.Minute,
	)

	now := time.Now()

	if *monthlyStats {
		p, err := engine.RebuildMonthly(ctx, now)
		if err != nil {
			log.Fatal().Err(err).Msg("Monthly stats rebuild failed")
		}
		log.Info().Str("period_id", p.ID).Msg("Monthly stats rebuilt")
	}

	leagues := cfg.LeagueList()
	if *leagueFlag != "" {
		leagues = []string{*leagueFlag}
	}

	for _, league := range leagues {
		p, err := engine.RebuildLeaderboard(ctx, kind, league, now)
		if err != nil {
			log.Fatal().Err(err).Str("league", league).Msg("Leaderboard rebuild failed")
		}
		log.Info().
			Str("league", league).
			Str("period_id", p.ID).
			Msg("Leaderboard rebuilt")
	}

	log.Info().Msg("Manual rebuild complete.")
}
