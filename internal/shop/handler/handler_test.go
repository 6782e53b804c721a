package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopdir/internal/audit"
	"shopdir/internal/platform/middleware"
	"shopdir/internal/shop/service"
	"shopdir/internal/shop/store"
)

const adminToken = "secret-token"

func newShopRouter(t *testing.T) http.Handler {
	t.Helper()
	publisher := audit.NewPublisher(audit.NewInMemoryStore())
	svc := service.New(store.NewInMemory(), service.WithAuditPublisher(publisher))
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(svc, logger)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.OwnerIdentity)
	h.Register(r)
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(middleware.RequireAdminToken(adminToken, logger))
		h.RegisterAdmin(admin)
	})
	return r
}

func registerShop(t *testing.T, router http.Handler) ShopResponse {
	t.Helper()
	payload := map[string]string{
		"name":           "Springfield Bakery",
		"address":        "12 Main Street, Springfield",
		"license_number": "LIC123456",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/shops", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-ID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 registering shop, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ShopResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode shop response: %v", err)
	}
	return resp
}

func TestRegisterShopViaHandler(t *testing.T) {
	router := newShopRouter(t)
	resp := registerShop(t, router)

	if resp.ID == uuid.Nil {
		t.Fatalf("expected shop id in response")
	}
	if resp.OwnerID != "owner-1" {
		t.Fatalf("expected owner from identity header, got %q", resp.OwnerID)
	}
	if resp.VerificationStatus != "pending" || resp.IsLive {
		t.Fatalf("expected a pending, not-live shop, got %+v", resp)
	}
}

func TestRegisterShopRequiresOwner(t *testing.T) {
	router := newShopRouter(t)
	body, _ := json.Marshal(map[string]string{"name": "A", "address": "B"})
	req := httptest.NewRequest(http.MethodPost, "/shops", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	// No X-Owner-ID header set
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without owner identity, got %d", rec.Code)
	}
}

func TestRegisterShopValidation(t *testing.T) {
	router := newShopRouter(t)
	body, _ := json.Marshal(map[string]string{"name": "", "address": "12 Main Street"})
	req := httptest.NewRequest(http.MethodPost, "/shops", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Owner-ID", "owner-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty name, got %d", rec.Code)
	}
}

func TestGetShopViaHandler(t *testing.T) {
	router := newShopRouter(t)
	created := registerShop(t, router)

	req := httptest.NewRequest(http.MethodGet, "/shops/"+created.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching shop, got %d", rec.Code)
	}

	var resp ShopResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode shop response: %v", err)
	}
	if resp.ID != created.ID {
		t.Fatalf("expected shop %s, got %s", created.ID, resp.ID)
	}

	missingReq := httptest.NewRequest(http.MethodGet, "/shops/"+uuid.New().String(), nil)
	missingRec := httptest.NewRecorder()
	router.ServeHTTP(missingRec, missingReq)
	if missingRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown shop, got %d", missingRec.Code)
	}
}

func finalize(t *testing.T, router http.Handler, shopID uuid.UUID, decision, notes string, token bool) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"notes": notes})
	req := httptest.NewRequest(http.MethodPost, "/admin/shops/"+shopID.String()+"/"+decision, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token {
		req.Header.Set("X-Admin-Token", adminToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestApproveShopViaHandler(t *testing.T) {
	router := newShopRouter(t)
	created := registerShop(t, router)

	rec := finalize(t, router, created.ID, "approve", "looks legitimate", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 approving shop, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ShopResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode shop response: %v", err)
	}
	if resp.VerificationStatus != "approved" || !resp.IsLive || !resp.VerifiedBadge {
		t.Fatalf("expected an approved, live, badged shop, got %+v", resp)
	}

	// A second decision must observe the finalized status
	second := finalize(t, router, created.ID, "reject", "", true)
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second decision, got %d", second.Code)
	}
}

func TestRejectShopViaHandler(t *testing.T) {
	router := newShopRouter(t)
	created := registerShop(t, router)

	rec := finalize(t, router, created.ID, "reject", "license is expired", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 rejecting shop, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ShopResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode shop response: %v", err)
	}
	if resp.VerificationStatus != "rejected" || resp.IsLive || resp.VerifiedBadge {
		t.Fatalf("expected a rejected, not-live shop, got %+v", resp)
	}
}

func TestFinalizeRequiresAdminToken(t *testing.T) {
	router := newShopRouter(t)
	created := registerShop(t, router)

	rec := finalize(t, router, created.ID, "approve", "", false)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin token, got %d", rec.Code)
	}
}

func TestAuditTrailViaHandler(t *testing.T) {
	router := newShopRouter(t)
	created := registerShop(t, router)

	rec := finalize(t, router, created.ID, "approve", "verified in person", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 approving shop, got %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/shops/"+created.ID.String()+"/audit", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	auditRec := httptest.NewRecorder()
	router.ServeHTTP(auditRec, req)
	if auditRec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching audit trail, got %d: %s", auditRec.Code, auditRec.Body.String())
	}

	var events []AuditEventResponse
	if err := json.NewDecoder(auditRec.Body).Decode(&events); err != nil {
		t.Fatalf("failed to decode audit trail: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected registration and approval entries, got %d", len(events))
	}
	if events[0].Action != audit.ActionShopRegistered || events[1].Action != audit.ActionShopApproved {
		t.Fatalf("unexpected trail order: %+v", events)
	}
	if events[1].Detail != "verified in person" {
		t.Fatalf("expected reviewer notes in the approval entry, got %q", events[1].Detail)
	}

	noToken := httptest.NewRequest(http.MethodGet, "/admin/shops/"+created.ID.String()+"/audit", nil)
	noTokenRec := httptest.NewRecorder()
	router.ServeHTTP(noTokenRec, noToken)
	if noTokenRec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without admin token, got %d", noTokenRec.Code)
	}
}
