//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/domain/ports/repository"
	"telegram-group-guardian/internal/infra/i18n"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func now() time.Time { return time.Now().Truncate(time.Millisecond) }

// =============================
// Adapters
// =============================

// ---- Mock ChatActions ----

type sentMessage struct {
	ChatID int64
	Text   string
	HTML   bool
}

type banCall struct {
	ChatID int64
	UserID int64
	Until  time.Time
}

type deleteCall struct {
	ChatID    int64
	MessageID int
}

// MockChatActions captures outgoing Telegram calls; individual methods can be
// overridden per test through the *Func fields.
type MockChatActions struct {
	mu      sync.Mutex
	Sent    []sentMessage
	Deleted []deleteCall
	Bans    []banCall

	SendMessageFunc   func(ctx context.Context, chatID int64, text string) error
	SendHTMLFunc      func(ctx context.Context, chatID int64, text string) error
	DeleteMessageFunc func(ctx context.Context, chatID int64, messageID int) error
	BanUntilFunc      func(ctx context.Context, chatID, userID int64, until time.Time) error
	GetChatFunc       func(ctx context.Context, chatID int64) (adapter.ChatSummary, error)
	MemberCountFunc   func(ctx context.Context, chatID int64) (int, error)
	MemberRoleFunc    func(ctx context.Context, chatID, userID int64) (string, error)
}

var _ adapter.ChatActions = (*MockChatActions)(nil)

func (m *MockChatActions) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, chatID, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *MockChatActions) SendHTML(ctx context.Context, chatID int64, text string) error {
	if m.SendHTMLFunc != nil {
		return m.SendHTMLFunc(ctx, chatID, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMessage{ChatID: chatID, Text: text, HTML: true})
	return nil
}

func (m *MockChatActions) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, chatID, messageID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, deleteCall{ChatID: chatID, MessageID: messageID})
	return nil
}

func (m *MockChatActions) BanUntil(ctx context.Context, chatID, userID int64, until time.Time) error {
	if m.BanUntilFunc != nil {
		return m.BanUntilFunc(ctx, chatID, userID, until)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bans = append(m.Bans, banCall{ChatID: chatID, UserID: userID, Until: until})
	return nil
}

func (m *MockChatActions) GetChat(ctx context.Context, chatID int64) (adapter.ChatSummary, error) {
	if m.GetChatFunc != nil {
		return m.GetChatFunc(ctx, chatID)
	}
	return adapter.ChatSummary{ID: chatID, Type: model.ChatTypeGroup, Title: "test group"}, nil
}

func (m *MockChatActions) MemberCount(ctx context.Context, chatID int64) (int, error) {
	if m.MemberCountFunc != nil {
		return m.MemberCountFunc(ctx, chatID)
	}
	return 0, nil
}

func (m *MockChatActions) MemberRole(ctx context.Context, chatID, userID int64) (string, error) {
	if m.MemberRoleFunc != nil {
		return m.MemberRoleFunc(ctx, chatID, userID)
	}
	return adapter.RoleMember, nil
}

// ---- Mock AIServiceAdapter ----

type MockAI struct {
	mu sync.Mutex

	ProviderName      string
	CountTokensFunc   func(ctx context.Context, model string, msgs []adapter.Message) (int, error)
	ChatWithUsageFunc func(ctx context.Context, model string, msgs []adapter.Message) (string, adapter.Usage, error)

	// tracing of invocations
	Calls struct {
		Count   int
		Prompts []string
	}
}

var _ adapter.AIServiceAdapter = (*MockAI)(nil)

func (m *MockAI) Provider() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

func (m *MockAI) CountTokens(ctx context.Context, model string, msgs []adapter.Message) (int, error) {
	m.mu.Lock()
	m.Calls.Count++
	m.mu.Unlock()
	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(ctx, model, msgs)
	}
	n := 0
	for _, x := range msgs {
		n += len(x.Content)
	}
	return n, nil
}

func (m *MockAI) ChatWithUsage(ctx context.Context, model string, msgs []adapter.Message) (string, adapter.Usage, error) {
	m.mu.Lock()
	for _, x := range msgs {
		m.Calls.Prompts = append(m.Calls.Prompts, x.Content)
	}
	m.mu.Unlock()
	if m.ChatWithUsageFunc != nil {
		return m.ChatWithUsageFunc(ctx, model, msgs)
	}
	return "ok", adapter.Usage{PromptTokens: 1, CompletionTokens: 1, TotalTokens: 2}, nil
}

// =============================
// Repositories
// =============================

// ---- Mock UsageRepository ----

type pairKey struct {
	UserID int64
	ChatID int64
}

// MockUsageRepo is an in-memory counter store with per-method overrides.
type MockUsageRepo struct {
	mu   sync.Mutex
	data map[pairKey]*model.UsageRecord
	next int64

	RecordMessageFunc func(ctx context.Context, userID, chatID int64) error
	FindFunc          func(ctx context.Context, userID, chatID int64) (*model.UsageRecord, error)
	TotalsFunc        func(ctx context.Context) (int, int64, error)
	TopTalkersFunc    func(ctx context.Context, limit int) ([]*model.UsageRecord, error)
	ByChatFunc        func(ctx context.Context, chatID int64, limit int) ([]*model.UsageRecord, error)
}

var _ repository.UsageRepository = (*MockUsageRepo)(nil)

func NewMockUsageRepo() *MockUsageRepo {
	return &MockUsageRepo{data: map[pairKey]*model.UsageRecord{}}
}

func (r *MockUsageRepo) RecordMessage(ctx context.Context, userID, chatID int64) error {
	if r.RecordMessageFunc != nil {
		return r.RecordMessageFunc(ctx, userID, chatID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{UserID: userID, ChatID: chatID}
	if rec, ok := r.data[key]; ok {
		rec.MessageCount++
		rec.LastUsed = now()
		return nil
	}
	r.next++
	r.data[key] = &model.UsageRecord{ID: r.next, UserID: userID, ChatID: chatID, MessageCount: 1, LastUsed: now()}
	return nil
}

func (r *MockUsageRepo) Find(ctx context.Context, userID, chatID int64) (*model.UsageRecord, error) {
	if r.FindFunc != nil {
		return r.FindFunc(ctx, userID, chatID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.data[pairKey{UserID: userID, ChatID: chatID}]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *MockUsageRepo) Totals(ctx context.Context) (int, int64, error) {
	if r.TotalsFunc != nil {
		return r.TotalsFunc(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, rec := range r.data {
		sum += int64(rec.MessageCount)
	}
	return len(r.data), sum, nil
}

func (r *MockUsageRepo) TopTalkers(ctx context.Context, limit int) ([]*model.UsageRecord, error) {
	if r.TopTalkersFunc != nil {
		return r.TopTalkersFunc(ctx, limit)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.UsageRecord, 0, len(r.data))
	for _, rec := range r.data {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MessageCount > out[j].MessageCount })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MockUsageRepo) ByChat(ctx context.Context, chatID int64, limit int) ([]*model.UsageRecord, error) {
	if r.ByChatFunc != nil {
		return r.ByChatFunc(ctx, chatID, limit)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.UsageRecord
	for _, rec := range r.data {
		if rec.ChatID == chatID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MessageCount > out[j].MessageCount })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// =============================
// Infra helpers for tests
// =============================

// newTestLogger creates a silent zerolog.Logger so test output stays clean.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// newTestTranslator builds a Translator from an in-memory filesystem so the
// tests are self-contained. The strings mirror the shipped Turkish locale
// where assertions depend on exact output.
func newTestTranslator() *i18n.Translator {
	testFS := fstest.MapFS{
		"locales/tr.yaml": {
			Data: []byte(`ban_notice: "⚠️ %s küfür ettiği için %s banlandı."
duration_hours: "%d saat"
duration_minutes: "%d dakika"
ai_rewrite_prompt: "Şu yazıyı düzenle, akıcı yap, emoji ekle:\n\n%s"
`),
		},
	}
	translator, _ := i18n.NewTranslator(testFS, "tr")
	return translator
}
