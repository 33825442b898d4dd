package model

import "time"

// UsageRecord is the per-(user, chat) message counter persisted in the stats
// table. It is the only durable entity in the system.
type UsageRecord struct {
	ID           int64
	UserID       int64
	ChatID       int64
	MessageCount int
	LastUsed     time.Time
}

func (u *UsageRecord) IsZero() bool { return u == nil || u.ID == 0 }
func (u *UsageRecord) Touch()       { u.LastUsed = time.Now() }
