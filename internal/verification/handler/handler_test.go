package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopdir/internal/platform/middleware"
	"shopdir/internal/shop/models"
	dErrors "shopdir/pkg/domain-errors"
	"shopdir/pkg/geo"
)

const adminToken = "secret-token"

type stubService struct {
	record *models.VerificationRecord
	err    error

	gotPoint    geo.Point
	gotDocURL   string
	gotPhotoURL string
	refreshed   bool
}

func (s *stubService) SubmitLocation(_ context.Context, _ uuid.UUID, point geo.Point) (*models.VerificationRecord, error) {
	s.gotPoint = point
	return s.record, s.err
}

func (s *stubService) VerifyLicense(_ context.Context, _ uuid.UUID, documentURL string) (*models.VerificationRecord, error) {
	s.gotDocURL = documentURL
	return s.record, s.err
}

func (s *stubService) SubmitPhotoProof(_ context.Context, _ uuid.UUID, photoURL string) (*models.VerificationRecord, error) {
	s.gotPhotoURL = photoURL
	return s.record, s.err
}

func (s *stubService) Refresh(_ context.Context, _ uuid.UUID) (*models.VerificationRecord, error) {
	s.refreshed = true
	return s.record, s.err
}

func (s *stubService) Record(_ context.Context, _ uuid.UUID) (*models.VerificationRecord, error) {
	return s.record, s.err
}

func newVerificationRouter(t *testing.T, svc Service) http.Handler {
	t.Helper()
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

func pendingRecord() *models.VerificationRecord {
	return &models.VerificationRecord{
		Status:            models.StatusPending,
		AddressMatchScore: 72,
		LocationVerified:  true,
	}
}

func postJSON(t *testing.T, router http.Handler, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitLocationViaHandler(t *testing.T) {
	svc := &stubService{record: pendingRecord()}
	router := newVerificationRouter(t, svc)
	shopID := uuid.New()

	rec := postJSON(t, router, "/shops/"+shopID.String()+"/verification/location",
		map[string]float64{"lat": 41.0, "lon": 29.0},
		map[string]string{"X-Owner-ID": "owner-1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotPoint.Lat != 41.0 || svc.gotPoint.Lon != 29.0 {
		t.Fatalf("expected parsed point to reach the service, got %+v", svc.gotPoint)
	}

	var resp VerificationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != string(models.StatusPending) || !resp.LocationVerified {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestOwnerIdentityRequired(t *testing.T) {
	svc := &stubService{record: pendingRecord()}
	router := newVerificationRouter(t, svc)
	shopID := uuid.New()

	rec := postJSON(t, router, "/shops/"+shopID.String()+"/verification/location",
		map[string]float64{"lat": 41.0, "lon": 29.0}, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without owner identity, got %d", rec.Code)
	}
}

func TestSubmitLocationValidation(t *testing.T) {
	svc := &stubService{record: pendingRecord()}
	router := newVerificationRouter(t, svc)
	shopID := uuid.New()
	headers := map[string]string{"X-Owner-ID": "owner-1"}

	cases := []struct {
		name    string
		payload any
	}{
		{"missing lon", map[string]float64{"lat": 41.0}},
		{"latitude out of range", map[string]float64{"lat": 91.0, "lon": 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, "/shops/"+shopID.String()+"/verification/location", tc.payload, headers)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rec.Code)
			}
		})
	}
}

func TestShopIDMustBeUUID(t *testing.T) {
	svc := &stubService{record: pendingRecord()}
	router := newVerificationRouter(t, svc)

	rec := postJSON(t, router, "/shops/not-a-uuid/verification/location",
		map[string]float64{"lat": 41.0, "lon": 29.0},
		map[string]string{"X-Owner-ID": "owner-1"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed shop ID, got %d", rec.Code)
	}
}

func TestVerifyLicenseViaHandler(t *testing.T) {
	svc := &stubService{record: pendingRecord()}
	router := newVerificationRouter(t, svc)
	shopID := uuid.New()
	headers := map[string]string{"X-Owner-ID": "owner-1"}

	rec := postJSON(t, router, "/shops/"+shopID.String()+"/verification/license",
		map[string]string{"document_url": "https://uploads.example.com/doc.pdf"}, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotDocURL != "https://uploads.example.com/doc.pdf" {
		t.Fatalf("expected document URL to reach the service, got %q", svc.gotDocURL)
	}

	rec = postJSON(t, router, "/shops/"+shopID.String()+"/verification/license",
		map[string]string{"document_url": "ftp://uploads.example.com/doc.pdf"}, headers)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for non-http URL, got %d", rec.Code)
	}
}

func TestSubmitPhotoViaHandler(t *testing.T) {
	svc := &stubService{record: pendingRecord()}
	router := newVerificationRouter(t, svc)
	shopID := uuid.New()

	rec := postJSON(t, router, "/shops/"+shopID.String()+"/verification/photo",
		map[string]string{"photo_url": "https://uploads.example.com/front.jpg"},
		map[string]string{"X-Owner-ID": "owner-1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotPhotoURL != "https://uploads.example.com/front.jpg" {
		t.Fatalf("expected photo URL to reach the service, got %q", svc.gotPhotoURL)
	}
}

func TestServiceErrorsMapToStatus(t *testing.T) {
	svc := &stubService{err: dErrors.New(dErrors.CodeNotFound, "shop not found")}
	router := newVerificationRouter(t, svc)
	shopID := uuid.New()

	rec := postJSON(t, router, "/shops/"+shopID.String()+"/verification/photo",
		map[string]string{"photo_url": "https://uploads.example.com/front.jpg"},
		map[string]string{"X-Owner-ID": "owner-1"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing shop, got %d", rec.Code)
	}

	svc.err = dErrors.New(dErrors.CodeInvariantViolation, "shop verification is already approved")
	rec = postJSON(t, router, "/shops/"+shopID.String()+"/verification/photo",
		map[string]string{"photo_url": "https://uploads.example.com/front.jpg"},
		map[string]string{"X-Owner-ID": "owner-1"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for finalized shop, got %d", rec.Code)
	}

	svc.err = dErrors.New(dErrors.CodeForbidden, "shop belongs to a different owner")
	rec = postJSON(t, router, "/shops/"+shopID.String()+"/verification/location",
		map[string]float64{"lat": 41.0, "lon": 29.0},
		map[string]string{"X-Owner-ID": "mallory"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a foreign owner, got %d", rec.Code)
	}
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	svc := &stubService{record: pendingRecord()}
	router := newVerificationRouter(t, svc)
	shopID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/admin/shops/"+shopID.String()+"/verification", nil)
	// No admin token header set
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when admin token missing, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/shops/"+shopID.String()+"/verification", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with admin token, got %d", rec.Code)
	}
}

func TestAdminRefresh(t *testing.T) {
	svc := &stubService{record: pendingRecord()}
	router := newVerificationRouter(t, svc)
	shopID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/admin/shops/"+shopID.String()+"/verification/refresh", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 refreshing, got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.refreshed {
		t.Fatalf("expected refresh to reach the service")
	}
}
