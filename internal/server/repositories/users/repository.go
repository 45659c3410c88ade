package users

import "context"

// Repository persists bot users and their premium flag.
type Repository interface {
	// EnsureUser inserts the user if absent. Existing rows are left
	// untouched, so repeat calls are safe on every interaction.
	EnsureUser(ctx context.Context, tgID int64, name string) error

	// IsPremium reports the persisted premium flag. Unknown users are
	// simply not premium.
	IsPremium(ctx context.Context, tgID int64) (bool, error)

	// SetPremium flips the premium flag to true and reports whether a row
	// actually changed, so callers can distinguish first activation from
	// a replay. The flag is never set back to false here.
	SetPremium(ctx context.Context, tgID int64) (bool, error)

	// Counts returns total and premium user counts.
	Counts(ctx context.Context) (total int64, premium int64, err error)
}
