package usecase

import (
	"context"

	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ UsageUseCase = (*usageUC)(nil)

// UsageUseCase wraps the per-(user, chat) message counters.
type UsageUseCase interface {
	// Record bumps the counter for the pair (atomic upsert underneath).
	Record(ctx context.Context, userID, chatID int64) error
	Lookup(ctx context.Context, userID, chatID int64) (*model.UsageRecord, error)
	Totals(ctx context.Context) (pairs int, messages int64, err error)
	TopTalkers(ctx context.Context, limit int) ([]*model.UsageRecord, error)
	ByChat(ctx context.Context, chatID int64, limit int) ([]*model.UsageRecord, error)
}

type usageUC struct {
	repo repository.UsageRepository
	log  *zerolog.Logger
}

func NewUsageUseCase(repo repository.UsageRepository, logger *zerolog.Logger) *usageUC {
	return &usageUC{repo: repo, log: logger}
}

func (u *usageUC) Record(ctx context.Context, userID, chatID int64) error {
	if err := u.repo.RecordMessage(ctx, userID, chatID); err != nil {
		u.log.Error().Err(err).Int64("user_id", userID).Int64("chat_id", chatID).Msg("record message failed")
		return err
	}
	return nil
}

func (u *usageUC) Lookup(ctx context.Context, userID, chatID int64) (*model.UsageRecord, error) {
	return u.repo.Find(ctx, userID, chatID)
}

func (u *usageUC) Totals(ctx context.Context) (int, int64, error) {
	return u.repo.Totals(ctx)
}

func (u *usageUC) TopTalkers(ctx context.Context, limit int) ([]*model.UsageRecord, error) {
	return u.repo.TopTalkers(ctx, limit)
}

func (u *usageUC) ByChat(ctx context.Context, chatID int64, limit int) ([]*model.UsageRecord, error) {
	return u.repo.ByChat(ctx, chatID, limit)
}
