package server

import "time"

// Config holds the listener and request limits.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"10485760"`
	MaxHeaderBytes  int           `env:"HTTP_MAX_HEADER_BYTES" envDefault:"8192"`
	MaxHeaders      int           `env:"HTTP_MAX_HEADERS" envDefault:"100"`
	TrustProxy      bool          `env:"HTTP_TRUST_PROXY" envDefault:"false"`
	CORS            CORSConfig
}

// CORSConfig configures the CORS headers added to every response.
type CORSConfig struct {
	AllowedHeaders []string      `env:"CORS_ALLOWED_HEADERS" envDefault:"Authorization,Content-Type,Cookie,X-Request-Id" envSeparator:","`
	AllowedMethods []string      `env:"CORS_ALLOWED_METHODS" envSeparator:","`
	MaxAge         time.Duration `env:"CORS_MAX_AGE" envDefault:"10m"`
}

// Options converts cfg into server options.
func (cfg Config) Options() []Option {
	return []Option{
		WithAddr(cfg.Addr),
		WithReadTimeout(cfg.ReadTimeout),
		WithWriteTimeout(cfg.WriteTimeout),
		WithShutdownTimeout(cfg.ShutdownTimeout),
		WithMaxBodyBytes(cfg.MaxBodyBytes),
		WithMaxHeaderBytes(cfg.MaxHeaderBytes),
		WithMaxHeaders(cfg.MaxHeaders),
		WithTrustProxyHeaders(cfg.TrustProxy),
		WithCORS(NewCORS(
			WithAllowedHeaders(cfg.CORS.AllowedHeaders...),
			WithAllowedMethods(cfg.CORS.AllowedMethods...),
			WithMaxAge(cfg.CORS.MaxAge),
		)),
	}
}
