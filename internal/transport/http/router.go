package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"safetrail/internal/transport/http/shared"
)

// Registrar is implemented by every domain handler. Each one mounts its own
// sub-router with its own middleware chain, so the aggregate router stays a
// plain assembly step with no business wiring.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter assembles the public API surface. All domain routes live under
// /v1; /healthz and /metrics are unversioned operational endpoints.
func NewRouter(handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		for _, h := range handlers {
			h.Register(v1)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
