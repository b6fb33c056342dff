package auth

import (
	"time"

	"github.com/dmitrymomot/wirekit/pkg/cookie"
)

// Config holds the authentication settings.
type Config struct {
	TokenSecret   string        `env:"AUTH_TOKEN_SECRET,required"`
	SessionTTL    time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`
	CookiePrefix  string        `env:"AUTH_COOKIE_NAME" envDefault:"_id"`
	EnforceExpiry bool          `env:"AUTH_ENFORCE_EXPIRY" envDefault:"false"`
	Cookie        cookie.Config
}

// DefaultConfig returns defaults for everything but the secret.
func DefaultConfig(secret string) Config {
	return Config{
		TokenSecret:  secret,
		SessionTTL:   24 * time.Hour,
		CookiePrefix: DefaultCookieName,
		Cookie:       cookie.DefaultConfig(),
	}
}

// DefaultCookieName is the session cookie name and the prefix the gateway
// matches cookies against.
const DefaultCookieName = "_id"

func (c Config) cookieName() string {
	if c.CookiePrefix == "" {
		return DefaultCookieName
	}
	return c.CookiePrefix
}
