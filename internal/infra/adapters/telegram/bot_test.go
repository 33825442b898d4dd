//go:build !integration

package telegram

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/application"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/infra/i18n"
	"telegram-group-guardian/internal/usecase"
)

type fakeSent struct {
	ChatID int64
	Text   string
	HTML   bool
}

type fakeChat struct {
	sent        []fakeSent
	memberCount int
	role        string
}

var _ adapter.ChatActions = (*fakeChat)(nil)

func (f *fakeChat) SendMessage(ctx context.Context, chatID int64, text string) error {
	f.sent = append(f.sent, fakeSent{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeChat) SendHTML(ctx context.Context, chatID int64, text string) error {
	f.sent = append(f.sent, fakeSent{ChatID: chatID, Text: text, HTML: true})
	return nil
}

func (f *fakeChat) DeleteMessage(ctx context.Context, chatID int64, messageID int) error { return nil }
func (f *fakeChat) BanUntil(ctx context.Context, chatID, userID int64, until time.Time) error {
	return nil
}
func (f *fakeChat) GetChat(ctx context.Context, chatID int64) (adapter.ChatSummary, error) {
	return adapter.ChatSummary{ID: chatID}, nil
}
func (f *fakeChat) MemberCount(ctx context.Context, chatID int64) (int, error) {
	return f.memberCount, nil
}
func (f *fakeChat) MemberRole(ctx context.Context, chatID, userID int64) (string, error) {
	if f.role == "" {
		return adapter.RoleMember, nil
	}
	return f.role, nil
}

type fakeRewrite struct {
	result string
	err    error
	inputs []string
}

func (f *fakeRewrite) Rewrite(ctx context.Context, text string) (string, error) {
	f.inputs = append(f.inputs, text)
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeModeration struct {
	res  usecase.ModerationResult
	seen []model.IncomingMessage
}

func (f *fakeModeration) HandleMessage(ctx context.Context, msg model.IncomingMessage) usecase.ModerationResult {
	f.seen = append(f.seen, msg)
	return f.res
}

func testTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	testFS := fstest.MapFS{
		"locales/tr.yaml": {
			Data: []byte(`start_welcome: "Merhaba! Ben senin asistan botunum 🚀"
info_group: "👥 Bu grupta <b>%d</b> kişi var."
info_channel: "📢 Bu kanalda <b>%d</b> abone var."
info_unsupported: "ℹ️ Bu komut sadece grup veya kanalda çalışır."
error_generic: "❌ Hata: %s"
edit_admin_only: "❌ Bu komut sadece yöneticiler içindir."
edit_usage: "Lütfen düzenlenecek bir metin girin."
edit_result: "📑 Düzenlenmiş metin:\n\n%s"
edit_error: "❌ Düzenleme hatası: %s"
`),
		},
	}
	tr, err := i18n.NewTranslator(testFS, "tr")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	return tr
}

type botFixture struct {
	bot        *BotAdapter
	chat       *fakeChat
	rewrite    *fakeRewrite
	moderation *fakeModeration
}

func newBotFixture(t *testing.T, adminIDs ...int64) *botFixture {
	t.Helper()
	logger := zerolog.New(io.Discard)
	chat := &fakeChat{memberCount: 12}
	rewrite := &fakeRewrite{result: "Düzgün metin ✨"}
	moderation := &fakeModeration{}
	tr := testTranslator(t)
	facade := application.NewBotFacade(moderation, rewrite, nil, chat, tr)

	adminMap := map[int64]struct{}{}
	for _, id := range adminIDs {
		adminMap[id] = struct{}{}
	}
	bot := &BotAdapter{
		chat:        chat,
		facade:      facade,
		translator:  tr,
		adminIDsMap: adminMap,
		log:         &logger,
	}
	return &botFixture{bot: bot, chat: chat, rewrite: rewrite, moderation: moderation}
}

func newMessage(userID, chatID int64, chatType, text string) *tgbotapi.Message {
	m := &tgbotapi.Message{
		MessageID: 5,
		From:      &tgbotapi.User{ID: userID, FirstName: "Test"},
		Chat:      &tgbotapi.Chat{ID: chatID, Type: chatType},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		end := strings.IndexByte(text, ' ')
		if end == -1 {
			end = len(text)
		}
		m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}}
	}
	return m
}

func TestDispatchStart(t *testing.T) {
	fx := newBotFixture(t)

	if err := fx.bot.dispatchCommand(context.Background(), newMessage(7, -500, "group", "/start")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(fx.chat.sent) != 1 {
		t.Fatalf("sent = %+v", fx.chat.sent)
	}
	if got := fx.chat.sent[0]; got.ChatID != -500 || got.Text != "Merhaba! Ben senin asistan botunum 🚀" || got.HTML {
		t.Errorf("start reply = %+v", got)
	}
}

func TestDispatchInfoGroup(t *testing.T) {
	fx := newBotFixture(t)

	if err := fx.bot.dispatchCommand(context.Background(), newMessage(7, -500, "supergroup", "/info")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(fx.chat.sent) != 1 {
		t.Fatalf("sent = %+v", fx.chat.sent)
	}
	got := fx.chat.sent[0]
	if !got.HTML {
		t.Errorf("info reply must use HTML parse mode: %+v", got)
	}
	if got.Text != "👥 Bu grupta <b>12</b> kişi var." {
		t.Errorf("info reply = %q", got.Text)
	}
}

func TestDispatchInfoPrivateChat(t *testing.T) {
	fx := newBotFixture(t)

	if err := fx.bot.dispatchCommand(context.Background(), newMessage(7, 7, "private", "/info")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(fx.chat.sent) != 1 || fx.chat.sent[0].Text != "ℹ️ Bu komut sadece grup veya kanalda çalışır." {
		t.Errorf("sent = %+v", fx.chat.sent)
	}
}

func TestDispatchEditNonAdminRejected(t *testing.T) {
	fx := newBotFixture(t, 99)

	if err := fx.bot.dispatchCommand(context.Background(), newMessage(7, -500, "group", "/edit selam")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(fx.rewrite.inputs) != 0 {
		t.Errorf("AI must not be called for non-admins, got %v", fx.rewrite.inputs)
	}
	if len(fx.chat.sent) != 1 {
		t.Fatalf("sent = %+v", fx.chat.sent)
	}
	if got := fx.chat.sent[0]; got.ChatID != -500 || got.Text != "❌ Bu komut sadece yöneticiler içindir." {
		t.Errorf("rejection = %+v", got)
	}
}

func TestDispatchEditEmptyArgs(t *testing.T) {
	fx := newBotFixture(t, 99)

	if err := fx.bot.dispatchCommand(context.Background(), newMessage(99, -500, "group", "/edit")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(fx.rewrite.inputs) != 0 {
		t.Errorf("AI must not be called without text, got %v", fx.rewrite.inputs)
	}
	if len(fx.chat.sent) != 1 || fx.chat.sent[0].Text != "Lütfen düzenlenecek bir metin girin." {
		t.Errorf("sent = %+v", fx.chat.sent)
	}
}

func TestDispatchEditDMsResultToAdmin(t *testing.T) {
	fx := newBotFixture(t, 99)

	if err := fx.bot.dispatchCommand(context.Background(), newMessage(99, -500, "group", "/edit selam dünya")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(fx.rewrite.inputs) != 1 || fx.rewrite.inputs[0] != "selam dünya" {
		t.Fatalf("rewrite inputs = %v", fx.rewrite.inputs)
	}
	if len(fx.chat.sent) != 1 {
		t.Fatalf("sent = %+v", fx.chat.sent)
	}
	got := fx.chat.sent[0]
	if got.ChatID != 99 {
		t.Errorf("result must go to the admin's private chat, went to %d", got.ChatID)
	}
	if got.Text != "📑 Düzenlenmiş metin:\n\nDüzgün metin ✨" {
		t.Errorf("result = %q", got.Text)
	}
}

func TestDispatchEditErrorRepliesInChat(t *testing.T) {
	fx := newBotFixture(t, 99)
	fx.rewrite.err = errors.New("gemini: overloaded")

	if err := fx.bot.dispatchCommand(context.Background(), newMessage(99, -500, "group", "/edit selam")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(fx.chat.sent) != 1 {
		t.Fatalf("sent = %+v", fx.chat.sent)
	}
	got := fx.chat.sent[0]
	if got.ChatID != -500 {
		t.Errorf("error reply must stay in the invoking chat, went to %d", got.ChatID)
	}
	if !strings.HasPrefix(got.Text, "❌ Düzenleme hatası: ") || !strings.Contains(got.Text, "overloaded") {
		t.Errorf("error reply = %q", got.Text)
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	fx := newBotFixture(t)

	if err := fx.bot.dispatchCommand(context.Background(), newMessage(7, -500, "group", "/unknown")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(fx.chat.sent) != 0 {
		t.Errorf("unknown commands must be ignored, sent %+v", fx.chat.sent)
	}
}

func TestHandleUpdateRoutesTextToModeration(t *testing.T) {
	fx := newBotFixture(t)
	fx.moderation.res = usecase.ModerationResult{Matched: true, Term: "salak", Deleted: true, Banned: true, Noticed: true, Counted: true}

	update := tgbotapi.Update{Message: newMessage(7, -500, "group", "çok salak bir fikir")}
	if err := fx.bot.handleUpdate(context.Background(), update); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	if len(fx.moderation.seen) != 1 {
		t.Fatalf("moderation saw %v", fx.moderation.seen)
	}
	in := fx.moderation.seen[0]
	if in.UserID != 7 || in.ChatID != -500 || in.Text != "çok salak bir fikir" || in.ChatType != "group" {
		t.Errorf("incoming = %+v", in)
	}
}

func TestHandleUpdateIgnoresCommandsForModeration(t *testing.T) {
	fx := newBotFixture(t)

	update := tgbotapi.Update{Message: newMessage(7, -500, "group", "/start")}
	if err := fx.bot.handleUpdate(context.Background(), update); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	if len(fx.moderation.seen) != 0 {
		t.Errorf("commands must bypass moderation, saw %v", fx.moderation.seen)
	}
	if len(fx.chat.sent) != 1 {
		t.Errorf("command should have been dispatched, sent %+v", fx.chat.sent)
	}
}

func TestHandleUpdateIgnoresEmptyUpdate(t *testing.T) {
	fx := newBotFixture(t)

	if err := fx.bot.handleUpdate(context.Background(), tgbotapi.Update{}); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
	if len(fx.chat.sent) != 0 || len(fx.moderation.seen) != 0 {
		t.Errorf("empty update must be a no-op")
	}
}

func TestIncomingFromMessageMapsFields(t *testing.T) {
	m := newMessage(42, -900, "supergroup", "merhaba")
	m.From.UserName = "kedi"

	in := incomingFromMessage(m)
	if in.MessageID != 5 || in.UserID != 42 || in.ChatID != -900 {
		t.Errorf("ids = %+v", in)
	}
	if in.Username != "kedi" || in.FirstName != "Test" {
		t.Errorf("names = %+v", in)
	}
	if in.ChatType != "supergroup" || in.Text != "merhaba" {
		t.Errorf("payload = %+v", in)
	}
}
