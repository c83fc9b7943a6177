package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"pickstats/rankings/internal/metrics"
)

// maxBatchOps is the cap on logical operations per batch transaction, a
// safety margin under the platform hard limit of 500. Batches commit
// sequentially with no cross-batch atomicity: a failure mid-sequence leaves
// earlier batches applied until the next full rebuild overwrites the period.
const maxBatchOps = 450

// Database holds the connection pool and provides access to repositories
type Database struct {
	Pool *pgxpool.Pool

	// Repositories
	DailyStats   *DailyStatRepository
	Posts        *PostRepository
	Games        *GameRepository
	MonthlyStats *MonthlyStatRepository
	GlobalStats  *GlobalStatRepository
	Leaderboards *LeaderboardRepository
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewDatabase creates a new database connection pool and initializes repositories
func NewDatabase(ctx context.Context, cfg Config) (*Database, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Successfully connected to database")

	db := &Database{
		Pool: pool,
	}

	db.DailyStats = &DailyStatRepository{db: db}
	db.Posts = &PostRepository{db: db}
	db.Games = &GameRepository{db: db}
	db.MonthlyStats = &MonthlyStatRepository{db: db}
	db.GlobalStats = &GlobalStatRepository{db: db}
	db.Leaderboards = &LeaderboardRepository{db: db}

	return db, nil
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Info().Msg("Database connection pool closed")
	}
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// PoolStats returns database pool statistics
func (db *Database) PoolStats() map[string]interface{} {
	stat := db.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"acquired_conns": stat.AcquiredConns(),
		"idle_conns":     stat.IdleConns(),
		"max_conns":      stat.MaxConns(),
	}
}

// batchOp is one queued write inside a chunked batch.
type batchOp struct {
	sql  string
	args []interface{}
}

// sendChunked commits queued statements in batch transactions of at most
// maxBatchOps each. Each chunk is its own transaction; on failure the error
// propagates with earlier chunks already committed.
func (db *Database) sendChunked(ctx context.Context, table string, queued []batchOp) error {
	for start := 0; start < len(queued); start += maxBatchOps {
		end := start + maxBatchOps
		if end > len(queued) {
			end = len(queued)
		}

		batch := &pgx.Batch{}
		for _, op := range queued[start:end] {
			batch.Queue(op.sql, op.args...)
		}

		tx, err := db.Pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin batch transaction: %w", err)
		}

		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to commit batch for %s: %w", table, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit batch transaction for %s: %w", table, err)
		}

		metrics.RecordBatchCommit(table, end-start)
		log.Debug().
			Str("table", table).
			Int("ops", end-start).
			Msg("Batch committed")
	}

	return nil
}

// ChunkBounds returns the [start, end) offsets batched writes use for a
// payload of n operations. Exposed for tests of the chunking arithmetic.
func ChunkBounds(n int) [][2]int {
	var bounds [][2]int
	for start := 0; start < n; start += maxBatchOps {
		end := start + maxBatchOps
		if end > n {
			end = n
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}
