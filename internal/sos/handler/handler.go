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
	"safetrail/internal/sos/models"
	"safetrail/internal/sos/service"
	"safetrail/internal/transport/http/shared"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

// Service defines the alert operations the handler needs.
type Service interface {
	Send(ctx context.Context, userID id.UserID, input service.SendInput) (*models.Alert, error)
	Resolve(ctx context.Context, resolverID id.UserID, alertID id.AlertID, outcome models.Status) (*models.Alert, error)
	ListActive(ctx context.Context, userID id.UserID) ([]*models.Alert, error)
	List(ctx context.Context, userID id.UserID) ([]*models.Alert, error)
}

// Handler serves the emergency alert endpoints.
type Handler struct {
	sos       Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

func New(sos Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{sos: sos, logger: logger, metrics: m, validator: validator}
}

// Register mounts the sos routes. Send gets a short timeout on purpose: an
// emergency dispatch that cannot finish quickly should fail fast and let the
// client retry, not hang.
func (h *Handler) Register(r chi.Router) {
	sosRouter := chi.NewRouter()
	sosRouter.Use(middleware.Recovery(h.logger))
	sosRouter.Use(middleware.RequestID)
	sosRouter.Use(middleware.RequestTime)
	sosRouter.Use(middleware.Logger(h.logger))
	sosRouter.Use(middleware.Timeout(10 * time.Second))
	sosRouter.Use(middleware.ContentTypeJSON)
	sosRouter.Use(middleware.LatencyMiddleware(h.metrics))
	sosRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	sosRouter.Post("/", h.handleSend)
	sosRouter.Get("/", h.handleList)
	sosRouter.Get("/active", h.handleListActive)
	sosRouter.Post("/{alertID}/resolve", h.handleResolve)

	r.Mount("/sos", sosRouter)
}

type sendRequest struct {
	AlertType string  `json:"alert_type"`
	Message   *string `json:"message"`
	TripID    *string `json:"trip_id"`
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	input := service.SendInput{
		AlertType: id.AlertType(req.AlertType),
		Message:   req.Message,
	}
	if req.TripID != nil {
		tripID, err := id.ParseTripID(*req.TripID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		input.TripID = &tripID
	}

	alert, err := h.sos.Send(ctx, requestcontext.UserID(ctx), input)
	if err != nil {
		h.logError(ctx, "send alert", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, alert)
}

type resolveRequest struct {
	Outcome string `json:"outcome"`
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	alertID, err := id.ParseAlertID(chi.URLParam(r, "alertID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	outcome, ok := models.ParseOutcome(req.Outcome)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "outcome must be resolved or false_alarm"))
		return
	}

	alert, err := h.sos.Resolve(ctx, requestcontext.UserID(ctx), alertID, outcome)
	if err != nil {
		h.logError(ctx, "resolve alert", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, alert)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alerts, err := h.sos.List(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logError(ctx, "list alerts", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alerts, err := h.sos.ListActive(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logError(ctx, "list active alerts", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (h *Handler) logError(ctx context.Context, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "sos operation failed",
			"op", op,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}
