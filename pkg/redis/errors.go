package redis

import "errors"

var (
	ErrParseURL           = errors.New("redis: failed to parse connection url")
	ErrNotReady           = errors.New("redis: server did not become ready")
	ErrEmptyConnectionURL = errors.New("redis: empty connection url")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
)
