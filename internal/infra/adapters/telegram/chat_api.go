package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/infra/metrics"
)

var _ adapter.ChatActions = (*ChatAPI)(nil)

// ChatAPI implements the outbound chat port over the Bot API client. The
// polling adapter shares the same client, so construct this first and hand
// it to both the usecases and NewBotAdapter.
type ChatAPI struct {
	api *tgbotapi.BotAPI
	log *zerolog.Logger
}

func NewChatAPI(token string, logger *zerolog.Logger) (*ChatAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	logger.Info().Str("bot", api.Self.UserName).Msg("telegram authorized")
	return &ChatAPI{api: api, log: logger}, nil
}

func (c *ChatAPI) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.send(ctx, chatID, text, "")
}

func (c *ChatAPI) SendHTML(ctx context.Context, chatID int64, text string) error {
	return c.send(ctx, chatID, text, tgbotapi.ModeHTML)
}

func (c *ChatAPI) send(ctx context.Context, chatID int64, text, parseMode string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	if _, err := c.api.Send(msg); err != nil {
		metrics.IncTelegramSendError()
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (c *ChatAPI) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (c *ChatAPI) BanUntil(ctx context.Context, chatID, userID int64, until time.Time) error {
	cfg := tgbotapi.BanChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: chatID,
			UserID: userID,
		},
		// Telegram lifts the ban automatically at this timestamp.
		UntilDate: until.Unix(),
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("ban member: %w", err)
	}
	return nil
}

func (c *ChatAPI) GetChat(ctx context.Context, chatID int64) (adapter.ChatSummary, error) {
	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return adapter.ChatSummary{}, fmt.Errorf("get chat: %w", err)
	}
	return adapter.ChatSummary{ID: chat.ID, Type: chat.Type, Title: chat.Title}, nil
}

func (c *ChatAPI) MemberCount(ctx context.Context, chatID int64) (int, error) {
	count, err := c.api.GetChatMembersCount(tgbotapi.ChatMemberCountConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return 0, fmt.Errorf("member count: %w", err)
	}
	return count, nil
}

func (c *ChatAPI) MemberRole(ctx context.Context, chatID, userID int64) (string, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: userID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("member role: %w", err)
	}
	return member.Status, nil
}
