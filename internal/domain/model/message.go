package model

// Chat types as reported by the Telegram Bot API.
const (
	ChatTypePrivate    = "private"
	ChatTypeGroup      = "group"
	ChatTypeSupergroup = "supergroup"
	ChatTypeChannel    = "channel"
)

// IncomingMessage carries the update fields the handlers care about,
// decoupled from the transport library's update type.
type IncomingMessage struct {
	MessageID int
	UserID    int64
	Username  string
	FirstName string
	ChatID    int64
	ChatType  string
	Text      string
}

func (m IncomingMessage) HasText() bool { return m.Text != "" }

func (m IncomingMessage) IsGroup() bool {
	return m.ChatType == ChatTypeGroup || m.ChatType == ChatTypeSupergroup
}

// DisplayName picks the best human-readable name for notices.
func (m IncomingMessage) DisplayName() string {
	if m.FirstName != "" {
		return m.FirstName
	}
	return m.Username
}
