package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"safetrail/internal/platform/metrics"
	"safetrail/internal/platform/middleware"
	"safetrail/internal/settings/models"
	"safetrail/internal/transport/http/shared"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

// Service defines the settings operations the handler needs.
type Service interface {
	Get(ctx context.Context, userID id.UserID) (*models.Settings, error)
	Save(ctx context.Context, userID id.UserID, settings models.Settings) (*models.Settings, error)
	Reset(ctx context.Context, userID id.UserID) (*models.Settings, error)
}

// Handler serves the user settings endpoints.
type Handler struct {
	settings  Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

func New(settings Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{settings: settings, logger: logger, metrics: m, validator: validator}
}

// Register mounts the settings routes.
func (h *Handler) Register(r chi.Router) {
	settingsRouter := chi.NewRouter()
	settingsRouter.Use(middleware.Recovery(h.logger))
	settingsRouter.Use(middleware.RequestID)
	settingsRouter.Use(middleware.RequestTime)
	settingsRouter.Use(middleware.Logger(h.logger))
	settingsRouter.Use(middleware.Timeout(30 * time.Second))
	settingsRouter.Use(middleware.ContentTypeJSON)
	settingsRouter.Use(middleware.LatencyMiddleware(h.metrics))
	settingsRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	settingsRouter.Get("/", h.handleGet)
	settingsRouter.Put("/", h.handleSave)
	settingsRouter.Delete("/", h.handleReset)

	r.Mount("/settings", settingsRouter)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.settings.Get(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logError(ctx, "get settings", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, settings)
}

// handleSave replaces the caller's settings blob wholesale.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	saved, err := h.settings.Save(ctx, requestcontext.UserID(ctx), req)
	if err != nil {
		h.logError(ctx, "save settings", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, saved)
}

// handleReset discards the saved settings and returns the defaults.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defaults, err := h.settings.Reset(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logError(ctx, "reset settings", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, defaults)
}

func (h *Handler) logError(ctx context.Context, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "settings operation failed",
			"op", op,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}
