package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/application"
	"telegram-group-guardian/internal/config"
	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/infra/i18n"
	"telegram-group-guardian/internal/infra/logging"
	"telegram-group-guardian/internal/infra/metrics"
	"telegram-group-guardian/internal/usecase"
)

// BotAdapter polls updates and delegates to BotFacade. Commands are routed
// by name; everything else falls through to the moderation pipeline.
type BotAdapter struct {
	api        *tgbotapi.BotAPI
	chat       adapter.ChatActions
	facade     *application.BotFacade
	translator *i18n.Translator

	adminIDsMap   map[int64]struct{}
	pollTimeout   int
	updateWorkers int

	log           *zerolog.Logger
	cancelPolling context.CancelFunc
}

func NewBotAdapter(chat *ChatAPI, facade *application.BotFacade, translator *i18n.Translator, cfg *config.BotConfig, logger *zerolog.Logger) (*BotAdapter, error) {
	if chat == nil {
		return nil, errors.New("chat api is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	return &BotAdapter{
		api:           chat.api,
		chat:          chat,
		facade:        facade,
		translator:    translator,
		adminIDsMap:   adminMap,
		pollTimeout:   pollTimeout,
		updateWorkers: workers,
		log:           logger,
	}, nil
}

// StartPolling long-polls the Bot API and fans updates out to a fixed worker
// pool. It blocks until the context is cancelled or StopPolling is called.
func (b *BotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	b.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < b.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case up, ok := <-updateChan:
					if !ok {
						return
					}
					if err := b.handleUpdate(ctx, up); err != nil {
						b.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				case <-ctx.Done():
					return
				}
			}
		}(i)
	}

	b.log.Info().Int("workers", b.updateWorkers).Int("poll_timeout_s", b.pollTimeout).Msg("polling started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (b *BotAdapter) StopPolling() {
	if b.cancelPolling != nil {
		b.cancelPolling()
	}
}

func (b *BotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil {
		// /info must also answer in channels, where posts arrive separately.
		msg = update.ChannelPost
	}
	if msg == nil {
		metrics.IncTelegramUpdate("other")
		return nil
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	if msg.From != nil {
		ctx = logging.WithUserID(ctx, msg.From.ID)
	}
	ctx = logging.WithChatID(ctx, msg.Chat.ID)

	if msg.IsCommand() {
		metrics.IncTelegramUpdate("command")
		return b.dispatchCommand(ctx, msg)
	}

	metrics.IncTelegramUpdate("text")
	if msg.From == nil {
		// Anonymous posts carry no sender to moderate or count.
		return nil
	}
	res := b.facade.HandleModeration(ctx, incomingFromMessage(msg))
	b.observeModeration(ctx, res)
	return nil
}

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

func (b *BotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": b.handleStartCommand,
		"info":  b.handleInfoCommand,
		"edit":  b.adminOnly(b.handleEditCommand),
	}
}

func (b *BotAdapter) dispatchCommand(ctx context.Context, message *tgbotapi.Message) error {
	cmd := message.Command()
	handler, ok := b.commandRoutes()[cmd]
	if !ok {
		metrics.IncTelegramCommand(cmd, "unknown")
		return nil
	}
	if err := handler(ctx, message); err != nil {
		metrics.IncTelegramCommand(cmd, "error")
		return err
	}
	metrics.IncTelegramCommand(cmd, "ok")
	return nil
}

// adminOnly rejects callers outside the configured admin set before the
// wrapped handler runs.
func (b *BotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if message.From == nil || !b.isAdmin(message.From.ID) {
			metrics.IncAdminGate(message.Command(), "unauthorized")
			return b.chat.SendMessage(ctx, message.Chat.ID, b.translator.T("edit_admin_only"))
		}
		metrics.IncAdminGate(message.Command(), "authorized")
		return next(ctx, message)
	}
}

func (b *BotAdapter) isAdmin(userID int64) bool {
	_, ok := b.adminIDsMap[userID]
	return ok
}

func (b *BotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	return b.chat.SendMessage(ctx, message.Chat.ID, b.facade.HandleStart(ctx))
}

func (b *BotAdapter) handleInfoCommand(ctx context.Context, message *tgbotapi.Message) error {
	text, err := b.facade.HandleInfo(ctx, message.Chat.ID, message.Chat.Type)
	if err != nil {
		logging.With(ctx, b.log).Error().Err(err).Msg("info lookup failed")
		return b.chat.SendMessage(ctx, message.Chat.ID, b.translator.T("error_generic", err))
	}
	return b.chat.SendHTML(ctx, message.Chat.ID, text)
}

func (b *BotAdapter) handleEditCommand(ctx context.Context, message *tgbotapi.Message) error {
	args := strings.TrimSpace(message.CommandArguments())
	if args == "" {
		return b.chat.SendMessage(ctx, message.Chat.ID, b.translator.T("edit_usage"))
	}
	text, err := b.facade.HandleEdit(ctx, args)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			return b.chat.SendMessage(ctx, message.Chat.ID, b.translator.T("edit_usage"))
		}
		logging.With(ctx, b.log).Error().Err(err).Msg("edit failed")
		return b.chat.SendMessage(ctx, message.Chat.ID, b.translator.T("edit_error", err))
	}
	// The finished text goes to the invoking admin's private chat; the group
	// never sees it.
	return b.chat.SendMessage(ctx, message.From.ID, text)
}

// observeModeration turns one moderation result into metrics and a log line.
// Only attempted actions are counted, so a failed delete does not also show
// up as a failed ban.
func (b *BotAdapter) observeModeration(ctx context.Context, res usecase.ModerationResult) {
	if !res.Matched {
		return
	}
	metrics.IncModerationFlagged(res.Term)
	if res.Exempt {
		metrics.IncModerationExempt()
		return
	}

	outcome := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "error"
	}
	metrics.IncModerationAction("delete", outcome(res.Deleted))
	if res.Deleted {
		metrics.IncModerationAction("ban", outcome(res.Banned))
	}
	if res.Banned {
		metrics.IncModerationAction("notice", outcome(res.Noticed))
	}

	logging.With(ctx, b.log).Info().
		Str("term", res.Term).
		Bool("deleted", res.Deleted).
		Bool("banned", res.Banned).
		Bool("noticed", res.Noticed).
		Msg("message flagged")
}

func incomingFromMessage(m *tgbotapi.Message) model.IncomingMessage {
	in := model.IncomingMessage{
		MessageID: m.MessageID,
		ChatID:    m.Chat.ID,
		ChatType:  m.Chat.Type,
		Text:      m.Text,
	}
	if m.From != nil {
		in.UserID = m.From.ID
		in.Username = m.From.UserName
		in.FirstName = m.From.FirstName
	}
	return in
}
