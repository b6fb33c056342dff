package requestid

import (
	"regexp"

	"github.com/google/uuid"

	"github.com/dmitrymomot/wirekit/pkg/header"
)

const (
	Header      = "X-Request-Id"
	maxIDLength = 128
)

var validID = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// New returns a fresh random id.
func New() string {
	return uuid.NewString()
}

// FromHeader returns the client-supplied request id when it is well formed,
// otherwise a fresh one.
func FromHeader(h header.Header) string {
	if id := h.Get(Header); isValid(id) {
		return id
	}
	return New()
}

func isValid(id string) bool {
	return id != "" && len(id) <= maxIDLength && validID.MatchString(id)
}
