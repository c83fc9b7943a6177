package repository

import (
	"context"
	"fmt"
	"time"

	"pickstats/rankings/internal/models"
)

// GameRepository issues the two independent count queries behind the
// league-wide upset occurrence rate.
type GameRepository struct {
	db *Database
}

// CountSettledBetween returns how many games settled inside the window.
func (r *GameRepository) CountSettledBetween(ctx context.Context, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM settled_games
		WHERE status = $1 AND settled_at >= $2 AND settled_at <= $3
	`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, models.StatusFinal, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count settled games: %w", err)
	}

	return count, nil
}

// CountUpsetsBetween returns how many settled games in the window were
// flagged as upsets.
func (r *GameRepository) CountUpsetsBetween(ctx context.Context, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM settled_games
		WHERE status = $1 AND is_upset = TRUE AND settled_at >= $2 AND settled_at <= $3
	`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, models.StatusFinal, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count upset games: %w", err)
	}

	return count, nil
}
