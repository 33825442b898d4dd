package repository

import (
	"context"

	"telegram-group-guardian/internal/domain/model"
)

// -----------------------------
// Usage stats
// -----------------------------

// UsageRepository persists per-(user, chat) message counters.
type UsageRepository interface {
	// RecordMessage increments the counter for the pair and refreshes
	// last_used in a single atomic statement, creating the row on first use.
	RecordMessage(ctx context.Context, userID, chatID int64) error
	Find(ctx context.Context, userID, chatID int64) (*model.UsageRecord, error)
	// Totals returns the number of (user, chat) pairs and the message sum.
	Totals(ctx context.Context) (pairs int, messages int64, err error)
	TopTalkers(ctx context.Context, limit int) ([]*model.UsageRecord, error)
	ByChat(ctx context.Context, chatID int64, limit int) ([]*model.UsageRecord, error)
}
