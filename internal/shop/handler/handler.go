// Package handler exposes shop lifecycle endpoints. Registration and
// retrieval are merchant-facing; the approve/reject decision is mounted on
// the admin router.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopdir/internal/audit"
	"shopdir/internal/shop/models"
	"shopdir/internal/shop/service"
	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/platform/httputil"
	"shopdir/pkg/requestcontext"
)

// Service defines the interface for shop lifecycle operations.
type Service interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.Shop, error)
	Get(ctx context.Context, shopID uuid.UUID) (*models.Shop, error)
	Approve(ctx context.Context, shopID uuid.UUID, actor, notes string) (*models.Shop, error)
	Reject(ctx context.Context, shopID uuid.UUID, actor, notes string) (*models.Shop, error)
	AuditTrail(ctx context.Context, shopID uuid.UUID) ([]audit.Event, error)
}

// Handler wires shop endpoints to the shop service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a shop handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the merchant-facing shop endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/shops", h.HandleRegister)
	r.Get("/shops/{shopID}", h.HandleGet)
}

// RegisterAdmin mounts the review decision endpoints. The caller wraps the
// router with the admin token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/shops/{shopID}/approve", h.HandleApprove)
	r.Post("/shops/{shopID}/reject", h.HandleReject)
	r.Get("/shops/{shopID}/audit", h.HandleAuditTrail)
}

func shopIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "shopID")
	shopID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "shop ID must be a UUID")
	}
	return shopID, nil
}

// HandleRegister handles POST /shops requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	ownerID := requestcontext.OwnerID(ctx)
	if ownerID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "owner identity required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[RegisterShopRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	shop, err := h.service.Register(ctx, service.RegisterInput{
		OwnerID:       ownerID,
		Name:          req.Name,
		Address:       req.Address,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "shop registration failed",
			"request_id", requestID,
			"owner_id", ownerID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "shop registered",
		"request_id", requestID,
		"shop_id", shop.ID,
		"owner_id", ownerID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromShop(shop))
}

// HandleGet handles GET /shops/{shopID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shopID, err := shopIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	shop, err := h.service.Get(ctx, shopID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromShop(shop))
}

// HandleApprove handles POST /admin/shops/{shopID}/approve requests.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleFinalize(w, r, "approve", h.service.Approve)
}

// HandleReject handles POST /admin/shops/{shopID}/reject requests.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.handleFinalize(w, r, "reject", h.service.Reject)
}

// HandleAuditTrail handles GET /admin/shops/{shopID}/audit requests.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	shopID, err := shopIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.service.AuditTrail(ctx, shopID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAuditEvents(events))
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request, decision string,
	finalize func(ctx context.Context, shopID uuid.UUID, actor, notes string) (*models.Shop, error)) {

	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	shopID, err := shopIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[FinalizeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	shop, err := finalize(ctx, shopID, "admin", req.Notes)
	if err != nil {
		h.logger.ErrorContext(ctx, "shop decision failed",
			"request_id", requestID,
			"shop_id", shopID,
			"decision", decision,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "shop decision applied",
		"request_id", requestID,
		"shop_id", shopID,
		"decision", decision,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromShop(shop))
}
