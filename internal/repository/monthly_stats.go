package repository

import (
	"context"
	"fmt"

	"pickstats/rankings/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// MonthlyStatRepository persists the composite per-user period documents.
type MonthlyStatRepository struct {
	db *Database
}

const upsertMonthlyStatSQL = `
	INSERT INTO monthly_user_stats (
		doc_id, uid, period_id, main_league,
		raw, percentiles, radar10, analysis_levels, analysis_type_id,
		home_away, market_bias, team_stats, streak,
		rebuilt_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (doc_id) DO UPDATE SET
		main_league = EXCLUDED.main_league,
		raw = EXCLUDED.raw,
		percentiles = EXCLUDED.percentiles,
		radar10 = EXCLUDED.radar10,
		analysis_levels = EXCLUDED.analysis_levels,
		analysis_type_id = EXCLUDED.analysis_type_id,
		home_away = EXCLUDED.home_away,
		market_bias = EXCLUDED.market_bias,
		team_stats = EXCLUDED.team_stats,
		streak = EXCLUDED.streak,
		rebuilt_at = EXCLUDED.rebuilt_at
`

// ReplaceForPeriod overwrites the period's per-user documents in chunked
// batch transactions. Every document is rewritten whole; nothing is patched.
func (r *MonthlyStatRepository) ReplaceForPeriod(ctx context.Context, periodID string, stats []models.MonthlyUserStat) error {
	queued := make([]batchOp, 0, len(stats))
	for i := range stats {
		s := &stats[i]
		queued = append(queued, batchOp{
			sql: upsertMonthlyStatSQL,
			args: []interface{}{
				s.DocID, s.UID, s.PeriodID, s.MainLeague,
				s.Raw, s.Percentiles, s.Radar, s.Levels, s.AnalysisTypeID,
				s.HomeAway, s.MarketBias, s.Teams, s.Streak,
				s.RebuiltAt,
			},
		})
	}

	if err := r.db.sendChunked(ctx, "monthly_user_stats", queued); err != nil {
		return err
	}

	log.Info().
		Str("period_id", periodID).
		Int("users", len(stats)).
		Msg("Monthly user stats written")

	return nil
}

// GetByUserAndPeriod retrieves one user's document for a period.
func (r *MonthlyStatRepository) GetByUserAndPeriod(ctx context.Context, uid, periodID string) (*models.MonthlyUserStat, error) {
	query := `
		SELECT doc_id, uid, period_id, main_league,
		       raw, percentiles, radar10, analysis_levels, analysis_type_id,
		       home_away, market_bias, team_stats, streak,
		       rebuilt_at
		FROM monthly_user_stats
		WHERE uid = $1 AND period_id = $2
	`

	var s models.MonthlyUserStat
	err := r.db.Pool.QueryRow(ctx, query, uid, periodID).Scan(
		&s.DocID, &s.UID, &s.PeriodID, &s.MainLeague,
		&s.Raw, &s.Percentiles, &s.Radar, &s.Levels, &s.AnalysisTypeID,
		&s.HomeAway, &s.MarketBias, &s.Teams, &s.Streak,
		&s.RebuiltAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("monthly stat not found: uid=%s, period=%s", uid, periodID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly stat: %w", err)
	}

	return &s, nil
}

// CountForPeriod returns how many user documents exist for a period.
func (r *MonthlyStatRepository) CountForPeriod(ctx context.Context, periodID string) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM monthly_user_stats WHERE period_id = $1`, periodID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count monthly stats: %w", err)
	}
	return count, nil
}
