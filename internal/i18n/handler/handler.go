package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"safetrail/internal/i18n"
	"safetrail/internal/platform/metrics"
	"safetrail/internal/platform/middleware"
	"safetrail/internal/transport/http/shared"
	dErrors "safetrail/pkg/domain-errors"
)

// Handler serves the translation tables. These routes are public: the client
// needs strings before the user logs in.
type Handler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, metrics: m}
}

// Register mounts the i18n routes.
func (h *Handler) Register(r chi.Router) {
	i18nRouter := chi.NewRouter()
	i18nRouter.Use(middleware.Recovery(h.logger))
	i18nRouter.Use(middleware.RequestID)
	i18nRouter.Use(middleware.Logger(h.logger))
	i18nRouter.Use(middleware.Timeout(10 * time.Second))
	i18nRouter.Use(middleware.LatencyMiddleware(h.metrics))
	i18nRouter.Get("/languages", h.handleLanguages)
	i18nRouter.Get("/{lang}", h.handleTable)

	r.Mount("/i18n", i18nRouter)
}

func (h *Handler) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"languages": i18n.Languages(),
		"default":   i18n.DefaultLanguage,
	})
}

// handleTable returns the full table for one language. Unknown languages are
// a 404 here (rather than the silent fallback Translate does) so a client
// typo is visible.
func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !i18n.Supported(lang) {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "unsupported language %q", lang))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"language":     lang,
		"translations": i18n.Table(lang),
	})
}
