package domain

import "time"

// Identity is the authenticated caller attached to a request after the
// session cookie has been verified. TokenID and ExpiresAt identify the
// presented token so it can be revoked before its natural expiry.
type Identity struct {
	ID        string
	Email     string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}

// RemainingTTL returns how long the presented token stays valid. Used to
// size the denylist entry on logout.
func (i Identity) RemainingTTL(reference time.Time) time.Duration {
	if reference.IsZero() {
		reference = time.Now()
	}
	return i.ExpiresAt.Sub(reference)
}
