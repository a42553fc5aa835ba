package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	kycmodel "safetrail/internal/kyc/models"
	"safetrail/internal/kyc/service"
	"safetrail/internal/platform/metrics"
	"safetrail/internal/platform/middleware"
	"safetrail/internal/transport/http/shared"
	id "safetrail/pkg/domain"
	dErrors "safetrail/pkg/domain-errors"
	"safetrail/pkg/requestcontext"
)

// maxSubmissionBytes bounds a whole multipart submission (two captures plus
// form fields).
const maxSubmissionBytes = 20 << 20

// Service defines the verification-submission operations the handler needs.
type Service interface {
	Submit(ctx context.Context, userID id.UserID, documentType id.DocumentType, documentNumber string, document, selfie *service.Upload) (*kycmodel.Record, error)
	Current(ctx context.Context, userID id.UserID) (*kycmodel.Record, error)
	Reject(ctx context.Context, userID id.UserID, kycID id.KYCID, reason string) (*kycmodel.Record, error)
}

// Handler serves the identity verification endpoints.
type Handler struct {
	kyc       Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.TokenValidator
}

func New(kyc Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.TokenValidator) *Handler {
	return &Handler{kyc: kyc, logger: logger, metrics: m, validator: validator}
}

// Register mounts the kyc routes.
func (h *Handler) Register(r chi.Router) {
	kycRouter := chi.NewRouter()
	kycRouter.Use(middleware.Recovery(h.logger))
	kycRouter.Use(middleware.RequestID)
	kycRouter.Use(middleware.RequestTime)
	kycRouter.Use(middleware.Logger(h.logger))
	kycRouter.Use(middleware.Timeout(60 * time.Second))
	kycRouter.Use(middleware.LatencyMiddleware(h.metrics))
	kycRouter.Use(middleware.RequireAuth(h.validator, h.logger))
	kycRouter.Post("/", h.handleSubmit)
	kycRouter.Get("/current", h.handleCurrent)
	kycRouter.Post("/{kycID}/reject", h.handleReject)

	r.Mount("/kyc", kycRouter)
}

// handleSubmit accepts a multipart submission: document_type and
// document_number fields plus document and selfie file parts.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "expected a multipart submission"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	documentType, err := id.ParseDocumentType(r.FormValue("document_type"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	document, err := formUpload(r, "document")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	defer document.close()
	selfie, err := formUpload(r, "selfie")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	defer selfie.close()

	record, err := h.kyc.Submit(ctx, userID, documentType, r.FormValue("document_number"), document.upload, selfie.upload)
	if err != nil {
		h.logError(ctx, "submit verification", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, record)
}

// handleCurrent returns the caller's newest verification record; 204 when
// they never submitted.
func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record, err := h.kyc.Current(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.logError(ctx, "load current verification", err)
		shared.WriteError(w, err)
		return
	}
	if record == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	kycID, err := id.ParseKYCID(chi.URLParam(r, "kycID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	record, err := h.kyc.Reject(ctx, requestcontext.UserID(ctx), kycID, req.Reason)
	if err != nil {
		h.logError(ctx, "reject verification", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) logError(ctx context.Context, op string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "kyc operation failed",
			"op", op,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
}

type formFile struct {
	upload *service.Upload
	close  func()
}

func formUpload(r *http.Request, field string) (*formFile, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeValidation, "%s file is required", field)
	}
	return &formFile{
		upload: &service.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        file,
		},
		close: func() { _ = file.Close() },
	}, nil
}
