package rebuild

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"pickstats/rankings/internal/aggregate"
	"pickstats/rankings/internal/cache"
	"pickstats/rankings/internal/metrics"
	"pickstats/rankings/internal/models"
	"pickstats/rankings/internal/period"
	"pickstats/rankings/internal/repository"
)

// ErrRebuildInProgress is returned when another run holds the rebuild lease
// for the same period document.
var ErrRebuildInProgress = errors.New("rebuild already in progress for this period")

// Engine runs full-rebuild batch jobs: the monthly per-user/global pipeline
// and the leaderboard snapshot pipeline. Each invocation is a single
// sequential job; the only shared resource is the document store, and the
// engine never retries a failed run on its own.
type Engine struct {
	db         *repository.Database
	cache      *cache.Cache
	classifier aggregate.TypeClassifier
	leaseTTL   time.Duration
}

// NewEngine creates a rebuild engine. cache may be nil, which disables the
// rebuild lease and leaderboard cache invalidation.
func NewEngine(db *repository.Database, c *cache.Cache, classifier aggregate.TypeClassifier, leaseTTL time.Duration) *Engine {
	return &Engine{
		db:         db,
		cache:      c,
		classifier: classifier,
		leaseTTL:   leaseTTL,
	}
}

// RebuildMonthly recomputes the previous calendar month from scratch: every
// eligible user's composite document plus the cohort-wide global document.
// Nothing is patched incrementally - the period's outputs are overwritten
// whole, so re-running on unchanged inputs yields identical documents.
func (e *Engine) RebuildMonthly(ctx context.Context, now time.Time) (period.Period, error) {
	p := period.Previous(period.Month, now)
	start := time.Now()

	acquired, err := e.cache.AcquireLease(ctx, "monthly:"+p.ID, e.leaseTTL)
	if err != nil {
		log.Warn().Err(err).Str("period_id", p.ID).Msg("Lease check failed, proceeding without guard")
	} else if !acquired {
		return p, fmt.Errorf("%w: monthly %s", ErrRebuildInProgress, p.ID)
	} else {
		defer e.cache.ReleaseLease(ctx, "monthly:"+p.ID)
	}

	log.Info().
		Str("period_id", p.ID).
		Str("from", p.StartKey()).
		Str("to", p.EndKey()).
		Msg("Starting monthly stats rebuild")

	if err := e.rebuildMonthly(ctx, p, now); err != nil {
		metrics.RecordRebuild(string(period.Month), "failure", time.Since(start).Seconds())
		metrics.RecordError("rebuild", "monthly")
		return p, err
	}

	metrics.RecordRebuild(string(period.Month), "success", time.Since(start).Seconds())
	log.Info().
		Str("period_id", p.ID).
		Dur("duration", time.Since(start)).
		Msg("Monthly stats rebuild complete")

	return p, nil
}

func (e *Engine) rebuildMonthly(ctx context.Context, p period.Period, now time.Time) error {
	// First pass: daily aggregates for the window.
	daily, err := e.db.DailyStats.ListRange(ctx, p.StartKey(), p.EndKey())
	if err != nil {
		return fmt.Errorf("failed to read daily stats for %s: %w", p.ID, err)
	}

	accs := aggregate.Fold(daily)
	metrics.CohortSize.WithLabelValues(string(period.Month)).Set(float64(len(accs)))
	if len(accs) == 0 {
		log.Warn().Str("period_id", p.ID).Msg("Empty cohort, nothing to rebuild")
		return nil
	}

	// Second pass: settled posts for the behavioral profile.
	posts, err := e.db.Posts.ListSettledBetween(ctx, p.Start, p.End)
	if err != nil {
		return fmt.Errorf("failed to read settled posts for %s: %w", p.ID, err)
	}
	behaviors := aggregate.AggregateBehavior(posts)

	stats := BuildMonthlyStats(accs, behaviors, e.classifier, p.ID, now.UTC())
	if err := e.db.MonthlyStats.ReplaceForPeriod(ctx, p.ID, stats); err != nil {
		return fmt.Errorf("failed to write monthly stats for %s: %w", p.ID, err)
	}

	// Global document: two independent count queries plus the per-user rows.
	settledGames, err := e.db.Games.CountSettledBetween(ctx, p.Start, p.End)
	if err != nil {
		return fmt.Errorf("failed to count settled games for %s: %w", p.ID, err)
	}
	upsetGames, err := e.db.Games.CountUpsetsBetween(ctx, p.Start, p.End)
	if err != nil {
		return fmt.Errorf("failed to count upset games for %s: %w", p.ID, err)
	}

	global := BuildGlobalStat(stats, settledGames, upsetGames, p.ID, now.UTC())
	if err := e.db.GlobalStats.Upsert(ctx, &global); err != nil {
		return fmt.Errorf("failed to write global stat for %s: %w", p.ID, err)
	}

	return nil
}

// RebuildLeaderboard recomputes one (kind, league, period) board: metadata
// merge, full row wipe, then recomputed rows for users clearing the gate.
func (e *Engine) RebuildLeaderboard(ctx context.Context, kind period.Kind, league string, now time.Time) (period.Period, error) {
	p := period.Previous(kind, now)
	docID := fmt.Sprintf("%s_%s_%s", kind, league, p.ID)
	start := time.Now()

	acquired, err := e.cache.AcquireLease(ctx, "board:"+docID, e.leaseTTL)
	if err != nil {
		log.Warn().Err(err).Str("board_id", docID).Msg("Lease check failed, proceeding without guard")
	} else if !acquired {
		return p, fmt.Errorf("%w: board %s", ErrRebuildInProgress, docID)
	} else {
		defer e.cache.ReleaseLease(ctx, "board:"+docID)
	}

	log.Info().
		Str("board_id", docID).
		Str("league", league).
		Str("kind", string(kind)).
		Msg("Starting leaderboard rebuild")

	daily, err := e.db.DailyStats.ListLeagueRange(ctx, p.StartKey(), p.EndKey(), league)
	if err != nil {
		metrics.RecordRebuild(string(kind), "failure", time.Since(start).Seconds())
		metrics.RecordError("rebuild", "leaderboard_read")
		return p, fmt.Errorf("failed to read league daily stats for %s: %w", docID, err)
	}

	accs := aggregate.FoldLeague(daily)

	minPosts := WeeklyBoardMinPosts
	if kind == period.Month {
		minPosts = MonthlyBoardMinPosts
	}
	boardRows := BuildLeaderboardRows(accs, docID, minPosts)

	snap := &models.LeaderboardSnapshot{
		DocID:       docID,
		Kind:        string(kind),
		League:      league,
		PeriodID:    p.ID,
		PeriodStart: p.Start,
		PeriodEnd:   p.End,
		RebuiltAt:   now.UTC(),
	}

	if err := e.db.Leaderboards.ReplaceSnapshot(ctx, snap, boardRows); err != nil {
		metrics.RecordRebuild(string(kind), "failure", time.Since(start).Seconds())
		metrics.RecordError("rebuild", "leaderboard_write")
		return p, fmt.Errorf("failed to write leaderboard %s: %w", docID, err)
	}

	e.cache.InvalidateBoard(ctx, docID)

	metrics.RecordRebuild(string(kind), "success", time.Since(start).Seconds())
	log.Info().
		Str("board_id", docID).
		Int("rows", len(boardRows)).
		Dur("duration", time.Since(start)).
		Msg("Leaderboard rebuild complete")

	return p, nil
}

// RebuildAllLeaderboards runs the board pipeline for every league in turn.
// Boards write disjoint documents, but the reference behavior is one
// sequential job, so failures stop the sweep and propagate.
func (e *Engine) RebuildAllLeaderboards(ctx context.Context, kind period.Kind, leagues []string, now time.Time) error {
	for _, league := range leagues {
		if _, err := e.RebuildLeaderboard(ctx, kind, league, now); err != nil {
			return err
		}
	}
	return nil
}
