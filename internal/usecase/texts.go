package usecase

import "time"

// Texts resolves localized reply strings. *i18n.Translator satisfies it;
// tests plug in a map-backed fake.
type Texts interface {
	T(key string, args ...interface{}) string
}

// formatBanDuration renders a ban length in locale terms: whole hours and
// whole minutes read naturally, anything else falls back to Go notation.
func formatBanDuration(t Texts, d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return t.T("duration_hours", int(d/time.Hour))
	}
	if d >= time.Minute && d%time.Minute == 0 {
		return t.T("duration_minutes", int(d/time.Minute))
	}
	return d.String()
}
