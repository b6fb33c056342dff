package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidHash        = errors.New("auth: invalid password hash")
	ErrIncompatibleHash   = errors.New("auth: incompatible argon2 version")
	ErrNoSession          = errors.New("auth: no session attached")
	ErrMissingSecret      = errors.New("auth: token secret is required")
)
