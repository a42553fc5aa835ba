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
	"safetrail/internal/transport/http/shared"
	tripmodel "safetrail/internal/trip/models"
	"safetrail/internal/trip/service"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

// Service defines the trip operations the handler needs.
type Service interface {
	Create(ctx context.Context, userID id.UserID, in service.CreateTripInput) (*tripmodel.Trip, error)
	List(ctx context.Context, userID id.UserID) ([]*tripmodel.Trip, error)
	ListEligible(ctx context.Context, userID id.UserID) ([]*tripmodel.Trip, error)
	Get(ctx context.Context, userID id.UserID, tripID id.TripID) (*tripmodel.Trip, error)
	Update(ctx context.Context, userID id.UserID, tripID id.TripID, in service.UpdateTripInput) (*tripmodel.Trip, error)
	CreateActivity(ctx context.Context, userID id.UserID, tripID id.TripID, in service.CreateActivityInput) (*tripmodel.Activity, error)
	ListActivities(ctx context.Context, userID id.UserID, tripID id.TripID) ([]*tripmodel.Activity, error)
}

// Handler serves the trip and itinerary endpoints.
type Handler struct {
	trips     Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

func New(trips Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{trips: trips, logger: logger, metrics: m, validator: validator}
}

// Register mounts the trip routes.
func (h *Handler) Register(r chi.Router) {
	tripRouter := chi.NewRouter()
	tripRouter.Use(middleware.Recovery(h.logger))
	tripRouter.Use(middleware.RequestID)
	tripRouter.Use(middleware.RequestTime)
	tripRouter.Use(middleware.Logger(h.logger))
	tripRouter.Use(middleware.Timeout(30 * time.Second))
	tripRouter.Use(middleware.ContentTypeJSON)
	tripRouter.Use(middleware.LatencyMiddleware(h.metrics))
	tripRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	tripRouter.Post("/", h.handleCreate)
	tripRouter.Get("/", h.handleList)
	tripRouter.Get("/eligible", h.handleListEligible)
	tripRouter.Get("/{tripID}", h.handleGet)
	tripRouter.Patch("/{tripID}", h.handleUpdate)
	tripRouter.Post("/{tripID}/activities", h.handleCreateActivity)
	tripRouter.Get("/{tripID}/activities", h.handleListActivities)

	r.Mount("/trips", tripRouter)
}

type createTripRequest struct {
	Title       string  `json:"title"`
	Destination string  `json:"destination"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	trip, err := h.trips.Create(ctx, requestcontext.UserID(ctx), service.CreateTripInput{
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		Status:      tripmodel.TripStatus(req.Status),
	})
	if err != nil {
		h.logError(ctx, "create trip", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, trip)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	trips, err := h.trips.List(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logError(ctx, "list trips", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"trips": trips})
}

// handleListEligible returns only trips that can back credential issuance.
func (h *Handler) handleListEligible(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	trips, err := h.trips.ListEligible(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logError(ctx, "list eligible trips", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"trips": trips})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tripID, err := id.ParseTripID(chi.URLParam(r, "tripID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	trip, err := h.trips.Get(ctx, requestcontext.UserID(ctx), tripID)
	if err != nil {
		h.logError(ctx, "get trip", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, trip)
}

type updateTripRequest struct {
	Title       *string `json:"title"`
	Destination *string `json:"destination"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tripID, err := id.ParseTripID(chi.URLParam(r, "tripID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req updateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	in := service.UpdateTripInput{
		Title:       req.Title,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	}
	if req.Status != nil {
		status := tripmodel.TripStatus(*req.Status)
		in.Status = &status
	}

	trip, err := h.trips.Update(ctx, requestcontext.UserID(ctx), tripID, in)
	if err != nil {
		h.logError(ctx, "update trip", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, trip)
}

type createActivityRequest struct {
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	Location        *string    `json:"location"`
	ScheduledTime   *time.Time `json:"scheduled_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	ActivityType    string     `json:"activity_type"`
}

func (h *Handler) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tripID, err := id.ParseTripID(chi.URLParam(r, "tripID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	activity, err := h.trips.CreateActivity(ctx, requestcontext.UserID(ctx), tripID, service.CreateActivityInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		ScheduledTime:   req.ScheduledTime,
		DurationMinutes: req.DurationMinutes,
		ActivityType:    tripmodel.ActivityType(req.ActivityType),
	})
	if err != nil {
		h.logError(ctx, "create activity", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, activity)
}

func (h *Handler) handleListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tripID, err := id.ParseTripID(chi.URLParam(r, "tripID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	activities, err := h.trips.ListActivities(ctx, requestcontext.UserID(ctx), tripID)
	if err != nil {
		h.logError(ctx, "list activities", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"activities": activities})
}

func (h *Handler) logError(ctx context.Context, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "trip operation failed",
			"op", op,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}
