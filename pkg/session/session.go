package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side record of a successful login.
type Session struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New starts a session for accountID that expires after ttl.
func New(accountID uuid.UUID, ttl time.Duration) Session {
	now := time.Now().UTC().Truncate(time.Second)
	return Session{
		ID:        uuid.New(),
		AccountID: accountID,
		StartedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session is past its expiry time.
// Expiry is only enforced by callers that ask for it.
func (s Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// TTL returns the time left before expiry, never negative.
func (s Session) TTL() time.Duration {
	if d := time.Until(s.ExpiresAt); d > 0 {
		return d
	}
	return 0
}

// Key implements store.Entity.
func (s Session) Key() string {
	return s.ID.String()
}

// Field implements store.Entity for the "id" and "account_id" fields.
func (s Session) Field(name string) (any, bool) {
	switch name {
	case "id":
		return s.ID.String(), true
	case "account_id":
		return s.AccountID.String(), true
	default:
		return nil, false
	}
}
