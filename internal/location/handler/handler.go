package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	locmodel "safetrail/internal/location/models"
	"safetrail/internal/location/service"
	"safetrail/internal/platform/metrics"
	"safetrail/internal/platform/middleware"
	"safetrail/internal/transport/http/shared"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

// Service defines the location operations the handler needs.
type Service interface {
	Log(ctx context.Context, userID id.UserID, input service.LogInput) (*locmodel.Log, error)
	Ingest(ctx context.Context, userID id.UserID, positions []locmodel.Position) (int, error)
	SafeCheckIn(ctx context.Context, userID id.UserID, notes *string) (*locmodel.Log, error)
	History(ctx context.Context, userID id.UserID, limit int) ([]*locmodel.Log, error)
	Latest(ctx context.Context, userID id.UserID) (*locmodel.Sample, error)
}

// Handler serves the location logging endpoints.
type Handler struct {
	locations Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

func New(locations Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{locations: locations, logger: logger, metrics: m, validator: validator}
}

// Register mounts the location routes.
func (h *Handler) Register(r chi.Router) {
	locRouter := chi.NewRouter()
	locRouter.Use(middleware.Recovery(h.logger))
	locRouter.Use(middleware.RequestID)
	locRouter.Use(middleware.RequestTime)
	locRouter.Use(middleware.Logger(h.logger))
	locRouter.Use(middleware.Timeout(30 * time.Second))
	locRouter.Use(middleware.ContentTypeJSON)
	locRouter.Use(middleware.LatencyMiddleware(h.metrics))
	locRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	locRouter.Post("/", h.handleLog)
	locRouter.Post("/samples", h.handleIngest)
	locRouter.Post("/checkin", h.handleCheckIn)
	locRouter.Get("/", h.handleHistory)
	locRouter.Get("/latest", h.handleLatest)

	r.Mount("/locations", locRouter)
}

type logRequest struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
	Altitude  *float64 `json:"altitude"`
	Address   *string  `json:"address"`
	Notes     *string  `json:"notes"`
	TripID    *string  `json:"trip_id"`
}

func (h *Handler) handleLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	input := service.LogInput{
		Position: locmodel.Position{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Accuracy:  req.Accuracy,
			Altitude:  req.Altitude,
		},
		Address: req.Address,
		Notes:   req.Notes,
	}
	if req.TripID != nil {
		tripID, err := id.ParseTripID(*req.TripID)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		input.TripID = &tripID
	}

	log, err := h.locations.Log(ctx, requestcontext.UserID(ctx), input)
	if err != nil {
		h.logError(ctx, "log location", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, log)
}

type ingestRequest struct {
	Positions []struct {
		Latitude  float64  `json:"latitude"`
		Longitude float64  `json:"longitude"`
		Accuracy  *float64 `json:"accuracy"`
		Altitude  *float64 `json:"altitude"`
	} `json:"positions"`
}

// handleIngest accepts a batch of streamed device positions and hands them to
// the throttled sampler. The response reports only how many were queued.
func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	positions := make([]locmodel.Position, 0, len(req.Positions))
	for _, p := range req.Positions {
		positions = append(positions, locmodel.Position{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			Accuracy:  p.Accuracy,
			Altitude:  p.Altitude,
		})
	}

	queued, err := h.locations.Ingest(ctx, requestcontext.UserID(ctx), positions)
	if err != nil {
		h.logError(ctx, "ingest positions", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusAccepted, map[string]any{"queued": queued})
}

type checkInRequest struct {
	Notes *string `json:"notes"`
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	log, err := h.locations.SafeCheckIn(ctx, requestcontext.UserID(ctx), req.Notes)
	if err != nil {
		h.logError(ctx, "safe check-in", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, log)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	logs, err := h.locations.History(ctx, requestcontext.UserID(ctx), limit)
	if err != nil {
		h.logError(ctx, "location history", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

// handleLatest returns the cached sample; 204 when nothing fresh is cached.
func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sample, err := h.locations.Latest(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logError(ctx, "latest location", err)
		shared.WriteError(w, err)
		return
	}
	if sample == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sample)
}

func (h *Handler) logError(ctx context.Context, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "location operation failed",
			"op", op,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}
