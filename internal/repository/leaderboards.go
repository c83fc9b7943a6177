package repository

import (
	"context"
	"fmt"

	"pickstats/rankings/internal/models"

	"github.com/rs/zerolog/log"
)

// LeaderboardRepository persists board snapshots and their ranked rows.
type LeaderboardRepository struct {
	db *Database
}

const insertLeaderboardRowSQL = `
	INSERT INTO leaderboard_rows (
		board_id, uid, rank, posts, wins,
		win_rate, accuracy, avg_precision, avg_upset, consistency
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// ReplaceSnapshot upserts the board metadata, deletes every existing row
// under it, then writes the recomputed rows in chunked batches. The row set
// is always rebuilt whole; there is no merge path.
func (r *LeaderboardRepository) ReplaceSnapshot(ctx context.Context, snap *models.LeaderboardSnapshot, boardRows []models.LeaderboardRow) error {
	metaQuery := `
		INSERT INTO leaderboards (
			doc_id, kind, league, period_id, period_start, period_end, rebuilt_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (doc_id) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			rebuilt_at = EXCLUDED.rebuilt_at
	`

	_, err := r.db.Pool.Exec(ctx, metaQuery,
		snap.DocID, snap.Kind, snap.League, snap.PeriodID,
		snap.PeriodStart, snap.PeriodEnd, snap.RebuiltAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert leaderboard snapshot: %w", err)
	}

	result, err := r.db.Pool.Exec(ctx, `DELETE FROM leaderboard_rows WHERE board_id = $1`, snap.DocID)
	if err != nil {
		return fmt.Errorf("failed to clear leaderboard rows: %w", err)
	}
	log.Debug().
		Str("board_id", snap.DocID).
		Int64("deleted", result.RowsAffected()).
		Msg("Existing leaderboard rows cleared")

	queued := make([]batchOp, 0, len(boardRows))
	for i := range boardRows {
		row := &boardRows[i]
		queued = append(queued, batchOp{
			sql: insertLeaderboardRowSQL,
			args: []interface{}{
				snap.DocID, row.UID, row.Rank, row.Posts, row.Wins,
				row.WinRate, row.Accuracy, row.AvgPrecision, row.AvgUpset, row.Consistency,
			},
		})
	}

	if err := r.db.sendChunked(ctx, "leaderboard_rows", queued); err != nil {
		return err
	}

	log.Info().
		Str("board_id", snap.DocID).
		Int("rows", len(boardRows)).
		Msg("Leaderboard snapshot written")

	return nil
}

// GetSnapshot retrieves board metadata by document id.
func (r *LeaderboardRepository) GetSnapshot(ctx context.Context, docID string) (*models.LeaderboardSnapshot, error) {
	query := `
		SELECT doc_id, kind, league, period_id, period_start, period_end, rebuilt_at
		FROM leaderboards
		WHERE doc_id = $1
	`

	var s models.LeaderboardSnapshot
	err := r.db.Pool.QueryRow(ctx, query, docID).Scan(
		&s.DocID, &s.Kind, &s.League, &s.PeriodID,
		&s.PeriodStart, &s.PeriodEnd, &s.RebuiltAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard snapshot: %w", err)
	}

	return &s, nil
}

// ListRows retrieves a board's rows in rank order.
func (r *LeaderboardRepository) ListRows(ctx context.Context, docID string) ([]models.LeaderboardRow, error) {
	query := `
		SELECT board_id, uid, rank, posts, wins,
		       win_rate, accuracy, avg_precision, avg_upset, consistency
		FROM leaderboard_rows
		WHERE board_id = $1
		ORDER BY rank
	`

	rows, err := r.db.Pool.Query(ctx, query, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard rows: %w", err)
	}
	defer rows.Close()

	var boardRows []models.LeaderboardRow
	for rows.Next() {
		var row models.LeaderboardRow
		err := rows.Scan(
			&row.BoardID, &row.UID, &row.Rank, &row.Posts, &row.Wins,
			&row.WinRate, &row.Accuracy, &row.AvgPrecision, &row.AvgUpset, &row.Consistency,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		boardRows = append(boardRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	return boardRows, nil
}
