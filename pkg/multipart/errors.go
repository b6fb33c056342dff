package multipart

import "errors"

var (
	ErrMissingBoundary   = errors.New("multipart: missing boundary")
	ErrInvalidBoundary   = errors.New("multipart: invalid boundary")
	ErrMalformedStart    = errors.New("multipart: body does not start with a boundary line")
	ErrMalformedHeader   = errors.New("multipart: malformed part header")
	ErrUnexpectedEOF     = errors.New("multipart: body ended before closing boundary")
	ErrTrailingData      = errors.New("multipart: data after closing boundary")
	ErrBoundaryInContent = errors.New("multipart: part content contains the boundary")
	ErrMissingField      = errors.New("multipart: missing field")
	ErrNoParts           = errors.New("multipart: no parts to encode")
)
