// Package models defines the typed records persisted by the server. Each
// entity is decoded once at the store boundary; no dynamic row access.
package models

import "time"

// User is a Telegram user known to the bot. Identity is the externally
// assigned Telegram ID; IsPremium is a persisted projection of the
// entitlement state and is mutated only by the entitlement service.
type User struct {
	ID        int64
	TgID      int64
	Name      string
	IsPremium bool
	JoinedAt  time.Time
}
