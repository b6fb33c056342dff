package session

import "errors"

var (
	// ErrSessionExpired indicates the session has expired
	ErrSessionExpired = errors.New("session.expired")

	// ErrNoSession indicates the request carries no session
	ErrNoSession = errors.New("session.none")
)
