package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"pickstats/rankings/internal/config"
	"pickstats/rankings/internal/period"
	"pickstats/rankings/internal/rebuild"
)

// Scheduler drives the periodic rebuilds:
// - weekly leaderboards every Monday 05:00 UTC+9
// - monthly stats plus monthly leaderboards on the 1st, 05:00 UTC+9
// Scheduled runs take no parameters and iterate all supported leagues.
type Scheduler struct {
	cfg    *config.Config
	engine *rebuild.Engine
	cron   *cron.Cron
}

// NewScheduler creates a new scheduler instance pinned to UTC+9.
func NewScheduler(cfg *config.Config, engine *rebuild.Engine) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		engine: engine,
		cron:   cron.New(cron.WithLocation(period.Zone)),
	}
}

// Start registers the cron entries and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.WeeklyBoardCron, func() {
		s.runWeeklyBoards(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule weekly leaderboard rebuild: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.MonthlyCron, func() {
		s.runMonthly(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule monthly rebuild: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("weekly", s.cfg.WeeklyBoardCron).
		Str("monthly", s.cfg.MonthlyCron).
		Msg("Rebuild jobs scheduled")

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	log.Info().Msg("Scheduler stopped")
}

// runWeeklyBoards rebuilds last week's leaderboard for every league. A
// failure surfaces only in the run history; the next scheduled run fully
// overwrites the period again, so partial rebuilds self-heal.
func (s *Scheduler) runWeeklyBoards(ctx context.Context) {
	log.Info().Msg("Running scheduled weekly leaderboard rebuild...")

	if err := s.engine.RebuildAllLeaderboards(ctx, period.Week, s.cfg.LeagueList(), time.Now()); err != nil {
		log.Error().Err(err).Msg("Weekly leaderboard rebuild failed")
	}
}

// runMonthly rebuilds last month's user stats and global document, then the
// monthly leaderboards for every league.
func (s *Scheduler) runMonthly(ctx context.Context) {
	log.Info().Msg("Running scheduled monthly rebuild...")

	now := time.Now()
	if _, err := s.engine.RebuildMonthly(ctx, now); err != nil {
		log.Error().Err(err).Msg("Monthly stats rebuild failed")
		return
	}

	if err := s.engine.RebuildAllLeaderboards(ctx, period.Month, s.cfg.LeagueList(), now); err != nil {
		log.Error().Err(err).Msg("Monthly leaderboard rebuild failed")
	}
}
