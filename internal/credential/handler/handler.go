package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	credmodel "safetrail/internal/credential/models"
	"safetrail/internal/credential/service"
	"safetrail/internal/platform/metrics"
	"safetrail/internal/platform/middleware"
	"safetrail/internal/transport/http/shared"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

// Service defines the issuance-workflow operations the handler needs.
type Service interface {
	VerifyAndIssue(ctx context.Context, userID id.UserID, kycID id.KYCID, tripID id.TripID) (*service.IssueResult, error)
	Repair(ctx context.Context, userID id.UserID, kycID id.KYCID, tripID id.TripID) (*service.IssueResult, error)
	List(ctx context.Context, userID id.UserID) ([]*credmodel.Credential, error)
}

// Handler serves the credential issuance endpoints.
type Handler struct {
	credentials Service
	logger      *slog.Logger
	metrics     *metrics.Metrics
	validator   middleware.TokenValidator
}

func New(credentials Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{credentials: credentials, logger: logger, metrics: m, validator: validator}
}

// Register mounts the credential routes.
func (h *Handler) Register(r chi.Router) {
	credRouter := chi.NewRouter()
	credRouter.Use(middleware.Recovery(h.logger))
	credRouter.Use(middleware.RequestID)
	credRouter.Use(middleware.RequestTime)
	credRouter.Use(middleware.Logger(h.logger))
	credRouter.Use(middleware.Timeout(30 * time.Second))
	credRouter.Use(middleware.ContentTypeJSON)
	credRouter.Use(middleware.LatencyMiddleware(h.metrics))
	credRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	credRouter.Post("/verify", h.handleVerify)
	credRouter.Post("/repair", h.handleRepair)
	credRouter.Get("/", h.handleList)

	r.Mount("/credentials", credRouter)
}

type issueRequest struct {
	KYCID  string `json:"kyc_id"`
	TripID string `json:"trip_id"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	h.runWorkflow(w, r, h.credentials.VerifyAndIssue, http.StatusCreated, "verify and issue")
}

// handleRepair re-attempts credential creation after a partial issuance.
func (h *Handler) handleRepair(w http.ResponseWriter, r *http.Request) {
	h.runWorkflow(w, r, h.credentials.Repair, http.StatusOK, "repair issuance")
}

func (h *Handler) runWorkflow(w http.ResponseWriter, r *http.Request, op func(context.Context, id.UserID, id.KYCID, id.TripID) (*service.IssueResult, error), okStatus int, name string) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	kycID, err := id.ParseKYCID(req.KYCID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	tripID, err := id.ParseTripID(req.TripID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := op(ctx, userID, kycID, tripID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal || dErrors.HasCode(err, dErrors.CodePartialIssuance) {
			h.logger.ErrorContext(ctx, "issuance workflow failed",
				"op", name,
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, okStatus, result)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	credentials, err := h.credentials.List(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "list credentials failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"credentials": credentials})
}
