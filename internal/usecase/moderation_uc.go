package usecase

import (
	"context"
	"time"

	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ModerationUseCase = (*moderationUC)(nil)

// ModerationResult reports what the policy did with one message. The
// Telegram adapter turns it into metrics; tests assert against it.
type ModerationResult struct {
	Matched bool
	Term    string
	Exempt  bool
	Deleted bool
	Banned  bool
	Noticed bool
	Counted bool
}

// ModerationUseCase runs the profanity policy over group messages.
type ModerationUseCase interface {
	// HandleMessage scans the text, enforces against non-exempt senders and
	// records usage. Enforcement and persistence failures are logged and
	// swallowed so the update loop keeps moving; the result says how far
	// handling got.
	HandleMessage(ctx context.Context, msg model.IncomingMessage) ModerationResult
}

type moderationUC struct {
	words  *model.Wordlist
	chat   adapter.ChatActions
	usage  UsageUseCase
	texts  Texts
	banFor time.Duration

	log *zerolog.Logger
}

func NewModerationUseCase(
	words *model.Wordlist,
	chat adapter.ChatActions,
	usage UsageUseCase,
	texts Texts,
	banFor time.Duration,
	logger *zerolog.Logger,
) *moderationUC {
	return &moderationUC{
		words:  words,
		chat:   chat,
		usage:  usage,
		texts:  texts,
		banFor: banFor,
		log:    logger,
	}
}

func (uc *moderationUC) HandleMessage(ctx context.Context, msg model.IncomingMessage) ModerationResult {
	var res ModerationResult
	// Messages without text carry nothing to scan or count.
	if !msg.HasText() {
		return res
	}
	log := logging.With(ctx, uc.log)

	if term, ok := uc.words.Match(msg.Text); ok {
		res.Matched = true
		res.Term = term

		role, err := uc.chat.MemberRole(ctx, msg.ChatID, msg.UserID)
		switch {
		case err != nil:
			// Without the role we cannot tell admin from member; enforcing
			// here could ban a moderator, so skip and keep counting.
			log.Error().Err(err).Msg("member role lookup failed; skipping enforcement")
		case role == adapter.RoleAdministrator || role == adapter.RoleCreator:
			res.Exempt = true
		default:
			uc.enforce(ctx, msg, &res, log)
		}
	}

	// Every text message counts, flagged or not.
	if err := uc.usage.Record(ctx, msg.UserID, msg.ChatID); err == nil {
		res.Counted = true
	}
	return res
}

// enforce deletes, bans and posts the notice in order. The first failure
// stops the chain: a notice about an undeleted message would be misleading.
func (uc *moderationUC) enforce(ctx context.Context, msg model.IncomingMessage, res *ModerationResult, log *zerolog.Logger) {
	if err := uc.chat.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		log.Error().Err(err).Int("message_id", msg.MessageID).Str("term", res.Term).Msg("delete message failed")
		return
	}
	res.Deleted = true

	until := time.Now().Add(uc.banFor)
	if err := uc.chat.BanUntil(ctx, msg.ChatID, msg.UserID, until); err != nil {
		log.Error().Err(err).Time("until", until).Msg("ban failed")
		return
	}
	res.Banned = true

	notice := uc.texts.T("ban_notice", msg.DisplayName(), formatBanDuration(uc.texts, uc.banFor))
	if err := uc.chat.SendMessage(ctx, msg.ChatID, notice); err != nil {
		log.Error().Err(err).Msg("ban notice failed")
		return
	}
	res.Noticed = true
}
