package repository

import (
	"context"
	"fmt"
	"time"

	"pickstats/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// PostRepository reads settled prediction posts for the behavioral pass.
type PostRepository struct {
	db *Database
}

// ListSettledBetween fetches final posts whose settlement time falls inside
// the window. Text fields are zero-filled when absent so a malformed row
// degrades one profile instead of aborting the run.
func (r *PostRepository) ListSettledBetween(ctx context.Context, from, to time.Time) ([]models.SettledPost, error) {
	query := `
		SELECT id, uid, COALESCE(league, ''),
		       COALESCE(pick_side, ''), COALESCE(pick_team_id, ''),
		       COALESCE(majority_side, ''), COALESCE(majority_ratio, 0),
		       COALESCE(is_win, FALSE), status, settled_at
		FROM settled_posts
		WHERE status = $1 AND settled_at >= $2 AND settled_at <= $3
		ORDER BY settled_at
	`

	rows, err := r.db.Pool.Query(ctx, query, models.StatusFinal, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled posts: %w", err)
	}
	defer rows.Close()

	var posts []models.SettledPost
	for rows.Next() {
		var p models.SettledPost
		err := rows.Scan(
			&p.ID, &p.UID, &p.League,
			&p.PickSide, &p.PickTeamID,
			&p.MajoritySide, &p.MajorityRatio,
			&p.IsWin, &p.Status, &p.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settled post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settled posts: %w", err)
	}

	log.Debug().
		Time("from", from).
		Time("to", to).
		Int("count", len(posts)).
		Msg("Settled posts fetched")

	return posts, nil
}
