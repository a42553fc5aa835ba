package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"safetrail/internal/audit"
	"safetrail/internal/platform/metrics"
	"safetrail/internal/platform/middleware"
	"safetrail/internal/transport/http/shared"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

// Store is the read side of the audit trail.
type Store interface {
	ListByUser(ctx context.Context, userID string) ([]audit.Event, error)
}

// Handler serves the caller's own audit trail.
type Handler struct {
	store     Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

func New(store Store, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{store: store, logger: logger, metrics: m, validator: validator}
}

// Register mounts the audit routes.
func (h *Handler) Register(r chi.Router) {
	auditRouter := chi.NewRouter()
	auditRouter.Use(middleware.Recovery(h.logger))
	auditRouter.Use(middleware.RequestID)
	auditRouter.Use(middleware.Logger(h.logger))
	auditRouter.Use(middleware.Timeout(30 * time.Second))
	auditRouter.Use(middleware.LatencyMiddleware(h.metrics))
	auditRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	auditRouter.Get("/events", h.handleList)

	r.Mount("/audit", auditRouter)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	events, err := h.store.ListByUser(ctx, requestcontext.UserID(ctx).String())
	if err != nil {
		h.logger.ErrorContext(ctx, "list audit events failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
