package repository

import (
	"context"
	"fmt"

	"pickstats/rankings/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GlobalStatRepository persists the cohort-wide period document.
type GlobalStatRepository struct {
	db *Database
}

// Upsert overwrites the global document for its period.
func (r *GlobalStatRepository) Upsert(ctx context.Context, stat *models.MonthlyGlobalStat) error {
	query := `
		INSERT INTO monthly_global_stats (
			period_id, cohort_size, eligible_count,
			average, top_decile,
			settled_games, upset_games, upset_rate,
			rebuilt_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (period_id) DO UPDATE SET
			cohort_size = EXCLUDED.cohort_size,
			eligible_count = EXCLUDED.eligible_count,
			average = EXCLUDED.average,
			top_decile = EXCLUDED.top_decile,
			settled_games = EXCLUDED.settled_games,
			upset_games = EXCLUDED.upset_games,
			upset_rate = EXCLUDED.upset_rate,
			rebuilt_at = EXCLUDED.rebuilt_at
	`

	_, err := r.db.Pool.Exec(ctx, query,
		stat.PeriodID, stat.CohortSize, stat.EligibleCount,
		stat.Average, stat.TopDecile,
		stat.SettledGames, stat.UpsetGames, stat.UpsetRate,
		stat.RebuiltAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert global stat: %w", err)
	}

	log.Info().
		Str("period_id", stat.PeriodID).
		Int("cohort", stat.CohortSize).
		Msg("Global stat written")

	return nil
}

// GetByPeriod retrieves the global document for a period.
func (r *GlobalStatRepository) GetByPeriod(ctx context.Context, periodID string) (*models.MonthlyGlobalStat, error) {
	query := `
		SELECT period_id, cohort_size, eligible_count,
		       average, top_decile,
		       settled_games, upset_games, upset_rate,
		       rebuilt_at
		FROM monthly_global_stats
		WHERE period_id = $1
	`

	var s models.MonthlyGlobalStat
	err := r.db.Pool.QueryRow(ctx, query, periodID).Scan(
		&s.PeriodID, &s.CohortSize, &s.EligibleCount,
		&s.Average, &s.TopDecile,
		&s.SettledGames, &s.UpsetGames, &s.UpsetRate,
		&s.RebuiltAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("global stat not found: period=%s", periodID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global stat: %w", err)
	}

	return &s, nil
}
