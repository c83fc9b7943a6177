package repository

import (
	"context"
	"fmt"

	"pickstats/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// DailyStatRepository reads the per-user-per-day outcome records written by
// the settlement process. This engine never writes to them.
type DailyStatRepository struct {
	db *Database
}

// ListRange fetches every daily stat row whose date key falls inside
// [fromKey, toKey]. Keys are YYYY-MM-DD strings in UTC+9 and the comparison
// is a string range, matching how the settlement process keys the rows.
// Missing numeric fields are zero-filled rather than failing the run.
func (r *DailyStatRepository) ListRange(ctx context.Context, fromKey, toKey string) ([]models.DailyUserStat, error) {
	query := `
		SELECT uid, stat_date, scope,
		       COALESCE(posts, 0), COALESCE(wins, 0),
		       COALESCE(brier_sum, 0), COALESCE(precision_sum, 0),
		       COALESCE(upset_hit, 0), COALESCE(upset_opportunity, 0), COALESCE(upset_pick, 0)
		FROM daily_user_stats
		WHERE stat_date >= $1 AND stat_date <= $2
		ORDER BY uid, stat_date, scope
	`

	rows, err := r.db.Pool.Query(ctx, query, fromKey, toKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyUserStat
	for rows.Next() {
		var s models.DailyUserStat
		err := rows.Scan(
			&s.UID, &s.StatDate, &s.Scope,
			&s.Posts, &s.Wins,
			&s.BrierSum, &s.PrecisionSum,
			&s.UpsetHit, &s.UpsetOpportunity, &s.UpsetPick,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily stats: %w", err)
	}

	log.Debug().
		Str("from", fromKey).
		Str("to", toKey).
		Int("count", len(stats)).
		Msg("Daily stats fetched")

	return stats, nil
}

// ListLeagueRange fetches the rows of a single league scope in the window,
// for the leaderboard pipeline.
func (r *DailyStatRepository) ListLeagueRange(ctx context.Context, fromKey, toKey, league string) ([]models.DailyUserStat, error) {
	query := `
		SELECT uid, stat_date, scope,
		       COALESCE(posts, 0), COALESCE(wins, 0),
		       COALESCE(brier_sum, 0), COALESCE(precision_sum, 0),
		       COALESCE(upset_hit, 0), COALESCE(upset_opportunity, 0), COALESCE(upset_pick, 0)
		FROM daily_user_stats
		WHERE stat_date >= $1 AND stat_date <= $2 AND scope = $3
		ORDER BY uid, stat_date
	`

	rows, err := r.db.Pool.Query(ctx, query, fromKey, toKey, league)
	if err != nil {
		return nil, fmt.Errorf("failed to query league daily stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyUserStat
	for rows.Next() {
		var s models.DailyUserStat
		err := rows.Scan(
			&s.UID, &s.StatDate, &s.Scope,
			&s.Posts, &s.Wins,
			&s.BrierSum, &s.PrecisionSum,
			&s.UpsetHit, &s.UpsetOpportunity, &s.UpsetPick,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating league daily stats: %w", err)
	}

	return stats, nil
}
