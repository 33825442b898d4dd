package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/repository"
	"telegram-group-guardian/internal/infra/metrics"
)

var _ repository.UsageRepository = (*PostgresUsageRepo)(nil)

type PostgresUsageRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUsageRepo(pool *pgxpool.Pool) *PostgresUsageRepo {
	return &PostgresUsageRepo{pool: pool}
}

// RecordMessage is a single atomic statement: first message for a pair
// inserts the row with count 1, later ones bump the counter. Concurrent
// workers for the same pair serialize on the unique index, nothing is lost.
func (r *PostgresUsageRepo) RecordMessage(ctx context.Context, userID, chatID int64) error {
	const q = `
INSERT INTO stats (user_id, chat_id, message_count, last_used)
VALUES ($1, $2, 1, NOW())
ON CONFLICT (user_id, chat_id)
DO UPDATE SET message_count = stats.message_count + 1, last_used = NOW();
`
	if _, err := r.pool.Exec(ctx, q, userID, chatID); err != nil {
		metrics.IncStatsUpsert("error")
		return fmt.Errorf("record message: %w", err)
	}
	metrics.IncStatsUpsert("ok")
	return nil
}

func (r *PostgresUsageRepo) Find(ctx context.Context, userID, chatID int64) (*model.UsageRecord, error) {
	const q = `
SELECT id, user_id, chat_id, message_count, last_used
  FROM stats WHERE user_id=$1 AND chat_id=$2;
`
	var rec model.UsageRecord
	row := r.pool.QueryRow(ctx, q, userID, chatID)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.ChatID, &rec.MessageCount, &rec.LastUsed); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find usage record: %w", err)
	}
	return &rec, nil
}

func (r *PostgresUsageRepo) Totals(ctx context.Context) (int, int64, error) {
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(message_count), 0) FROM stats;`)
	var pairs int
	var messages int64
	if err := row.Scan(&pairs, &messages); err != nil {
		return 0, 0, fmt.Errorf("usage totals: %w", err)
	}
	return pairs, messages, nil
}

func (r *PostgresUsageRepo) TopTalkers(ctx context.Context, limit int) ([]*model.UsageRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT id, user_id, chat_id, message_count, last_used
  FROM stats ORDER BY message_count DESC, last_used DESC LIMIT $1;
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("top talkers: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *PostgresUsageRepo) ByChat(ctx context.Context, chatID int64, limit int) ([]*model.UsageRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT id, user_id, chat_id, message_count, last_used
  FROM stats WHERE chat_id=$1 ORDER BY message_count DESC, last_used DESC LIMIT $2;
`
	rows, err := r.pool.Query(ctx, q, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("usage by chat: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]*model.UsageRecord, error) {
	var out []*model.UsageRecord
	for rows.Next() {
		var rec model.UsageRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ChatID, &rec.MessageCount, &rec.LastUsed); err != nil {
			return nil, fmt.Errorf("scan usage record: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage records: %w", err)
	}
	return out, nil
}
