package ai

import (
	"context"
	"time"

	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/infra/metrics"
)

var _ adapter.AIServiceAdapter = (*meteredAI)(nil)

// meteredAI decorates any adapter with token and latency metrics so the
// usecases stay observability-free.
type meteredAI struct {
	inner adapter.AIServiceAdapter
}

func NewMeteredAI(inner adapter.AIServiceAdapter) adapter.AIServiceAdapter {
	return &meteredAI{inner: inner}
}

func (m *meteredAI) Provider() string { return m.inner.Provider() }

func (m *meteredAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return m.inner.CountTokens(ctx, model, messages)
}

func (m *meteredAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	start := time.Now()
	text, u, err := m.inner.ChatWithUsage(ctx, model, messages)
	latency := int(time.Since(start).Milliseconds())
	metrics.ObserveAIUsage(m.inner.Provider(), model, u.PromptTokens, u.CompletionTokens, u.TotalTokens, latency, err == nil)
	return text, u, err
}
