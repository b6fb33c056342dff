package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest marks every malformed request: request line, headers,
	// body framing or body encoding.
	ErrBadRequest = errors.New("wire: bad request")
	// ErrBodyTooLarge is returned when Content-Length exceeds the reader limit.
	ErrBodyTooLarge = errors.New("wire: request body too large")
	// ErrMalformedResponse is returned by ReadResponse.
	ErrMalformedResponse = errors.New("wire: malformed response")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}
