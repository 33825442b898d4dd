package adapter

import (
	"context"
	"time"
)

// Member roles as reported by getChatMember.
const (
	RoleCreator       = "creator"
	RoleAdministrator = "administrator"
	RoleMember        = "member"
)

// ChatSummary describes a chat for /info replies.
type ChatSummary struct {
	ID    int64
	Type  string
	Title string
}

// ChatActions is the port for everything the bot does against the Telegram
// API besides receiving updates.
type ChatActions interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	// SendHTML sends with HTML parse mode (used for bold counters).
	SendHTML(ctx context.Context, chatID int64, text string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// BanUntil bans a member until the given time (time-bounded, not permanent).
	BanUntil(ctx context.Context, chatID, userID int64, until time.Time) error
	GetChat(ctx context.Context, chatID int64) (ChatSummary, error)
	MemberCount(ctx context.Context, chatID int64) (int, error)
	// MemberRole returns one of the Role* constants for the user in the chat.
	MemberRole(ctx context.Context, chatID, userID int64) (string, error)
}
