package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/wirekit/pkg/logger"
)

// Probe checks one dependency.
type Probe struct {
	Name  string
	Check func(context.Context) error
}

type readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Routes returns the ops router: /healthz answers while the process is up,
// /readyz runs every probe and answers 503 when one fails.
func Routes(log *slog.Logger, timeout time.Duration, probes ...Probe) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ALIVE"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		res := readiness{Status: "ready", Checks: make(map[string]string, len(probes))}
		code := http.StatusOK
		for _, p := range probes {
			if err := p.Check(ctx); err != nil {
				log.WarnContext(ctx, "readiness probe failed", slog.String("probe", p.Name), logger.Error(err))
				res.Checks[p.Name] = err.Error()
				res.Status = "not_ready"
				code = http.StatusServiceUnavailable
				continue
			}
			res.Checks[p.Name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(res)
	})

	return r
}
