package jwt

import "errors"

// Key errors.
var (
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrInvalidSigningKey = errors.New("jwt: signing key too short")
)

// Token errors. Parse failures wrap ErrInvalidToken unless a more specific
// error below applies.
var (
	ErrInvalidToken            = errors.New("jwt: malformed token")
	ErrUnexpectedSigningMethod = errors.New("jwt: alg is not HS256")
	ErrInvalidSignature        = errors.New("jwt: signature mismatch")
	ErrMissingClaims           = errors.New("jwt: no claims target")
	ErrInvalidClaims           = errors.New("jwt: claims rejected")
	ErrExpiredToken            = errors.New("jwt: token expired")
)
