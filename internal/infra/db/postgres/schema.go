package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// schemaDDL is idempotent so every startup can apply it. The unique index on
// (user_id, chat_id) is the arbiter for the message-count upsert.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS stats (
    id            BIGSERIAL PRIMARY KEY,
    user_id       BIGINT NOT NULL,
    chat_id       BIGINT NOT NULL,
    message_count INTEGER NOT NULL DEFAULT 0,
    last_used     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS stats_user_chat_idx ON stats (user_id, chat_id);
`

// EnsureSchema creates the stats table and its upsert index if missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
