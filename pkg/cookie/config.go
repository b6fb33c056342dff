package cookie

import "strings"

// Config holds the attributes applied to cookies set by the server.
type Config struct {
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN" envDefault:""`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"None"`
}

// DefaultConfig returns the defaults used for session cookies.
func DefaultConfig() Config {
	return Config{
		Path:     "/",
		HttpOnly: true,
		SameSite: string(SameSiteNone),
	}
}

// Options converts the config into cookie options. Only non-zero values
// are applied.
func (c Config) Options() []Option {
	opts := make([]Option, 0, 5)
	if c.Path != "" {
		opts = append(opts, WithPath(c.Path))
	}
	if c.Domain != "" {
		opts = append(opts, WithDomain(c.Domain))
	}
	if c.Secure {
		opts = append(opts, WithSecure(true))
	}
	opts = append(opts, WithHTTPOnly(c.HttpOnly))
	switch strings.ToLower(c.SameSite) {
	case "lax":
		opts = append(opts, WithSameSite(SameSiteLax))
	case "strict":
		opts = append(opts, WithSameSite(SameSiteStrict))
	case "none":
		opts = append(opts, WithSameSite(SameSiteNone))
	}
	return opts
}
