package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ RewriteUseCase = (*rewriteUC)(nil)

// RewriteUseCase turns raw text into the AI-polished version behind /edit.
type RewriteUseCase interface {
	Rewrite(ctx context.Context, text string) (string, error)
}

type rewriteUC struct {
	ai    adapter.AIServiceAdapter
	texts Texts
	model string

	log *zerolog.Logger
}

func NewRewriteUseCase(ai adapter.AIServiceAdapter, texts Texts, model string, logger *zerolog.Logger) *rewriteUC {
	return &rewriteUC{ai: ai, texts: texts, model: model, log: logger}
}

func (r *rewriteUC) Rewrite(ctx context.Context, text string) (string, error) {
	defer logging.TraceDuration(r.log, "RewriteUC.Rewrite")()

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrEmptyInput
	}

	msgs := []adapter.Message{{
		Role:    "user",
		Content: r.texts.T("ai_rewrite_prompt", text),
	}}

	// Best-effort sizing before the call; counting failures are not worth
	// blocking the rewrite for.
	if n, err := r.ai.CountTokens(ctx, r.model, msgs); err == nil {
		r.log.Debug().Int("prompt_tokens", n).Str("model", r.model).Msg("rewrite request sized")
	}

	reply, usage, err := r.ai.ChatWithUsage(ctx, r.model, msgs)
	if err != nil {
		return "", fmt.Errorf("ai rewrite: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", errors.New("ai rewrite: empty completion")
	}

	r.log.Info().
		Str("provider", r.ai.Provider()).
		Str("model", r.model).
		Int("tokens_total", usage.TotalTokens).
		Msg("rewrite completed")
	return reply, nil
}
