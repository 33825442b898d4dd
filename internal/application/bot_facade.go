package application

import (
	"context"
	"fmt"

	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands.
// Methods return ready-to-send strings so the Telegram adapter just forwards
// them; failures come back as errors (sentinels where they matter) for the
// adapter to localize.
type BotFacade struct {
	ModerationUC usecase.ModerationUseCase
	RewriteUC    usecase.RewriteUseCase
	UsageUC      usecase.UsageUseCase
	Chat         adapter.ChatActions
	Texts        usecase.Texts
}

func NewBotFacade(
	moderationUC usecase.ModerationUseCase,
	rewriteUC usecase.RewriteUseCase,
	usageUC usecase.UsageUseCase,
	chat adapter.ChatActions,
	texts usecase.Texts,
) *BotFacade {
	return &BotFacade{
		ModerationUC: moderationUC,
		RewriteUC:    rewriteUC,
		UsageUC:      usageUC,
		Chat:         chat,
		Texts:        texts,
	}
}

// HandleStart returns the static greeting.
func (b *BotFacade) HandleStart(ctx context.Context) string {
	return b.Texts.T("start_welcome")
}

// HandleInfo answers the member-count question for the chat the command came
// from. Groups report members, channels report subscribers, anything else
// gets the group/channel-only notice.
func (b *BotFacade) HandleInfo(ctx context.Context, chatID int64, chatType string) (string, error) {
	switch chatType {
	case model.ChatTypeGroup, model.ChatTypeSupergroup:
		count, err := b.Chat.MemberCount(ctx, chatID)
		if err != nil {
			return "", fmt.Errorf("member count: %w", err)
		}
		return b.Texts.T("info_group", count), nil
	case model.ChatTypeChannel:
		count, err := b.Chat.MemberCount(ctx, chatID)
		if err != nil {
			return "", fmt.Errorf("member count: %w", err)
		}
		return b.Texts.T("info_channel", count), nil
	default:
		return b.Texts.T("info_unsupported"), nil
	}
}

// HandleEdit rewrites the given text and returns the finished private-message
// body. The admin gate and the empty-argument gate live in the adapter.
func (b *BotFacade) HandleEdit(ctx context.Context, text string) (string, error) {
	polished, err := b.RewriteUC.Rewrite(ctx, text)
	if err != nil {
		return "", err
	}
	return b.Texts.T("edit_result", polished), nil
}

// HandleModeration runs the profanity policy and usage counting over one
// non-command message.
func (b *BotFacade) HandleModeration(ctx context.Context, msg model.IncomingMessage) usecase.ModerationResult {
	return b.ModerationUC.HandleMessage(ctx, msg)
}
