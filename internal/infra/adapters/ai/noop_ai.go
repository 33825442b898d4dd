package ai

import (
	"context"
	"time"

	"telegram-group-guardian/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIServiceAdapter for local/dev runs
// without an API key. It echoes the last user message back.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

func (a *NoopAIAdapter) Provider() string { return "noop" }

func (a *NoopAIAdapter) CountTokens(ctx context.Context, _ string, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		// Rough whitespace-token estimate; good enough for log output in dev.
		n += len(m.Content) / 4
	}
	return n, nil
}

func (a *NoopAIAdapter) ChatWithUsage(ctx context.Context, _ string, messages []adapter.Message) (string, adapter.Usage, error) {
	// Simulate slight processing time and respect ctx.
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", adapter.Usage{}, ctx.Err()
	}
	if len(messages) == 0 {
		return "", adapter.Usage{}, nil
	}
	last := messages[len(messages)-1].Content
	return last, adapter.Usage{}, nil
}
