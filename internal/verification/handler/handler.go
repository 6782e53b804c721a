// Package handler exposes the verification pipeline over HTTP. Step
// submissions are owner-facing; the record view and refresh are mounted on
// the admin router.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopdir/internal/shop/models"
	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/geo"
	"shopdir/pkg/platform/httputil"
	"shopdir/pkg/requestcontext"
)

// Service defines the interface for verification operations.
type Service interface {
	SubmitLocation(ctx context.Context, shopID uuid.UUID, point geo.Point) (*models.VerificationRecord, error)
	VerifyLicense(ctx context.Context, shopID uuid.UUID, documentURL string) (*models.VerificationRecord, error)
	SubmitPhotoProof(ctx context.Context, shopID uuid.UUID, photoURL string) (*models.VerificationRecord, error)
	Refresh(ctx context.Context, shopID uuid.UUID) (*models.VerificationRecord, error)
	Record(ctx context.Context, shopID uuid.UUID) (*models.VerificationRecord, error)
}

// Handler wires verification endpoints to the verification service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the owner-facing verification endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/shops/{shopID}/verification/location", h.HandleSubmitLocation)
	r.Post("/shops/{shopID}/verification/license", h.HandleVerifyLicense)
	r.Post("/shops/{shopID}/verification/photo", h.HandleSubmitPhoto)
}

// RegisterAdmin mounts the review endpoints. The caller wraps the router
// with the admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/shops/{shopID}/verification", h.HandleGetRecord)
	r.Post("/shops/{shopID}/verification/refresh", h.HandleRefresh)
}

func shopIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "shopID")
	shopID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "shop ID must be a UUID")
	}
	return shopID, nil
}

// HandleSubmitLocation handles POST /shops/{shopID}/verification/location.
func (h *Handler) HandleSubmitLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	shopID, err := shopIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if requestcontext.OwnerID(ctx) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "owner identity required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[LocationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.SubmitLocation(ctx, shopID, req.ParsedPoint())
	if err != nil {
		h.logger.ErrorContext(ctx, "location submission failed",
			"request_id", requestID,
			"shop_id", shopID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "location submitted",
		"request_id", requestID,
		"shop_id", shopID,
		"location_verified", record.LocationVerified,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleVerifyLicense handles POST /shops/{shopID}/verification/license.
func (h *Handler) HandleVerifyLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	shopID, err := shopIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if requestcontext.OwnerID(ctx) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "owner identity required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[LicenseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.VerifyLicense(ctx, shopID, req.DocumentURL)
	if err != nil {
		h.logger.ErrorContext(ctx, "license verification failed",
			"request_id", requestID,
			"shop_id", shopID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "license verified",
		"request_id", requestID,
		"shop_id", shopID,
		"flagged", record.Flags.LicenceMismatch,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleSubmitPhoto handles POST /shops/{shopID}/verification/photo.
func (h *Handler) HandleSubmitPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	shopID, err := shopIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if requestcontext.OwnerID(ctx) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "owner identity required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[PhotoRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	record, err := h.service.SubmitPhotoProof(ctx, shopID, req.PhotoURL)
	if err != nil {
		h.logger.ErrorContext(ctx, "photo submission failed",
			"request_id", requestID,
			"shop_id", shopID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "photo proof submitted",
		"request_id", requestID,
		"shop_id", shopID,
		"flagged", record.Flags.ExifMismatch,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleGetRecord handles GET /admin/shops/{shopID}/verification.
func (h *Handler) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shopID, err := shopIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Record(ctx, shopID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleRefresh handles POST /admin/shops/{shopID}/verification/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	shopID, err := shopIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Refresh(ctx, shopID)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification refresh failed",
			"request_id", requestID,
			"shop_id", shopID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification refreshed",
		"request_id", requestID,
		"shop_id", shopID,
		"flags", record.Flags,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}
