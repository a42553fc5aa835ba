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
	"safetrail/internal/profile/models"
	"safetrail/internal/profile/service"
	"safetrail/internal/transport/http/shared"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

// Service defines the profile operations the handler needs.
type Service interface {
	Get(ctx context.Context, userID id.UserID) (*models.Profile, error)
	Upsert(ctx context.Context, userID id.UserID, input service.UpsertInput) (*models.Profile, error)
}

// Handler serves the traveler profile endpoints.
type Handler struct {
	profiles  Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

func New(profiles Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{profiles: profiles, logger: logger, metrics: m, validator: validator}
}

// Register mounts the profile routes.
func (h *Handler) Register(r chi.Router) {
	profileRouter := chi.NewRouter()
	profileRouter.Use(middleware.Recovery(h.logger))
	profileRouter.Use(middleware.RequestID)
	profileRouter.Use(middleware.RequestTime)
	profileRouter.Use(middleware.Logger(h.logger))
	profileRouter.Use(middleware.Timeout(30 * time.Second))
	profileRouter.Use(middleware.ContentTypeJSON)
	profileRouter.Use(middleware.LatencyMiddleware(h.metrics))
	profileRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	profileRouter.Get("/", h.handleGet)
	profileRouter.Put("/", h.handleUpsert)

	r.Mount("/profile", profileRouter)
}

// handleGet returns the caller's profile; 204 when none was ever saved.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	profile, err := h.profiles.Get(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logError(ctx, "get profile", err)
		shared.WriteError(w, err)
		return
	}
	if profile == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	shared.WriteJSON(w, http.StatusOK, profile)
}

type upsertRequest struct {
	FullName              *string `json:"full_name"`
	PhoneNumber           *string `json:"phone_number"`
	Nationality           *string `json:"nationality"`
	PassportNumber        *string `json:"passport_number"`
	DateOfBirth           *string `json:"date_of_birth"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	MedicalConditions     *string `json:"medical_conditions"`
	BloodType             *string `json:"blood_type"`
	AvatarURL             *string `json:"avatar_url"`
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	profile, err := h.profiles.Upsert(ctx, requestcontext.UserID(ctx), service.UpsertInput{
		FullName:              req.FullName,
		PhoneNumber:           req.PhoneNumber,
		Nationality:           req.Nationality,
		PassportNumber:        req.PassportNumber,
		DateOfBirth:           req.DateOfBirth,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		MedicalConditions:     req.MedicalConditions,
		BloodType:             req.BloodType,
		AvatarURL:             req.AvatarURL,
	})
	if err != nil {
		h.logError(ctx, "upsert profile", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) logError(ctx context.Context, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "profile operation failed",
			"op", op,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}
