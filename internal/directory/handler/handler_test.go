package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/internal/directory/repository"
	"smartdivorce_backend/internal/directory/service"
	"smartdivorce_backend/internal/directory/sponsorship"
	"smartdivorce_backend/internal/directory/transport"
	"smartdivorce_backend/internal/events"
	"smartdivorce_backend/platform/logger"
	"smartdivorce_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestRouter(t *testing.T, store repository.Store, configs []sponsorship.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	svc := service.New(store, sponsorship.NewMatcher(configs, log), nil, bus, log)
	h := New(svc, validator.New())

	r := gin.New()
	group := r.Group("/api/v1/lawyers")
	group.POST("/capture", h.Capture)
	group.GET("/sponsored", h.Sponsored)
	group.GET("/packages", h.Packages)
	group.POST("/sponsorship", h.CreateSponsorship)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCaptureAccepted(t *testing.T) {
	store := repository.NewMemoryStore()
	r := newTestRouter(t, store, nil)

	w := postJSON(t, r, "/api/v1/lawyers/capture", gin.H{
		"placeId":   "p1",
		"name":      "Smith Law",
		"address":   "100 Main St, Las Vegas, NV",
		"rating":    4.5,
		"searchLat": 36.1699,
		"searchLng": -115.1398,
	})

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body %s", w.Code, w.Body.String())
	}

	var resp transport.CaptureResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "accepted" || !resp.Created || resp.SearchCount != 1 {
		t.Fatalf("resp = %+v", resp)
	}

	lawyer, err := store.GetByPlaceID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("record not stored: %v", err)
	}
	if lawyer.Rating == nil || *lawyer.Rating != 4.5 {
		t.Fatalf("rating = %v", lawyer.Rating)
	}
}

func TestCaptureMissingPlaceID(t *testing.T) {
	r := newTestRouter(t, repository.NewMemoryStore(), nil)

	w := postJSON(t, r, "/api/v1/lawyers/capture", gin.H{
		"name": "No ID Law",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCaptureRejectsOutOfRangeRating(t *testing.T) {
	r := newTestRouter(t, repository.NewMemoryStore(), nil)

	w := postJSON(t, r, "/api/v1/lawyers/capture", gin.H{
		"placeId": "p1",
		"name":    "Smith Law",
		"rating":  7.2,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSponsoredListings(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	seed := []struct {
		placeID string
		tier    domain.Tier
	}{
		{"basic-1", domain.TierBasic},
		{"featured-1", domain.TierFeatured},
	}
	for _, row := range seed {
		_, _, err := store.Capture(ctx, repository.CaptureParams{
			Candidate: domain.Candidate{
				PlaceID: row.placeID,
				Name:    "Firm " + row.placeID,
				Origin:  domain.SearchOrigin{Lat: 36.1699, Lng: -115.1398},
			},
			CaptureTime: now,
		})
		if err != nil {
			t.Fatalf("seed capture: %v", err)
		}
		if err := store.CreateSponsorship(ctx, repository.Sponsorship{
			ID: uuid.New(), PlaceID: row.placeID, Tier: row.tier,
			Status: "active", EndDate: now.AddDate(0, 0, 30),
		}); err != nil {
			t.Fatalf("seed sponsorship: %v", err)
		}
	}

	r := newTestRouter(t, store, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lawyers/sponsored?lat=36.1699&lng=-115.1398&radius=25", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Listings []transport.ListingResponse `json:"listings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(resp.Listings))
	}
	if resp.Listings[0].Tier != "featured" || resp.Listings[1].Tier != "basic" {
		t.Fatalf("order = [%s, %s], want featured first", resp.Listings[0].Tier, resp.Listings[1].Tier)
	}
}

func TestSponsoredRequiresCoordinates(t *testing.T) {
	r := newTestRouter(t, repository.NewMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lawyers/sponsored?radius=25", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateSponsorship(t *testing.T) {
	store := repository.NewMemoryStore()
	if _, _, err := store.Capture(context.Background(), repository.CaptureParams{
		Candidate:   domain.Candidate{PlaceID: "p1", Name: "Smith Law"},
		CaptureTime: time.Now(),
	}); err != nil {
		t.Fatalf("seed capture: %v", err)
	}

	r := newTestRouter(t, store, nil)
	w := postJSON(t, r, "/api/v1/lawyers/sponsorship", gin.H{
		"placeId":      "p1",
		"tier":         "featured",
		"contactEmail": "owner@example.com",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp transport.SponsorshipResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AmountUSD != 599 || resp.Status != "active" {
		t.Fatalf("resp = %+v", resp)
	}
	if !resp.EndDate.Equal(resp.StartDate.AddDate(0, 0, 30)) {
		t.Fatalf("end = %v, want start + 30 days", resp.EndDate)
	}
}

func TestCreateSponsorshipUnknownLawyer(t *testing.T) {
	r := newTestRouter(t, repository.NewMemoryStore(), nil)

	w := postJSON(t, r, "/api/v1/lawyers/sponsorship", gin.H{
		"placeId":      "never-seen",
		"tier":         "basic",
		"contactEmail": "owner@example.com",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestCreateSponsorshipRejectsBadTier(t *testing.T) {
	r := newTestRouter(t, repository.NewMemoryStore(), nil)

	w := postJSON(t, r, "/api/v1/lawyers/sponsorship", gin.H{
		"placeId":      "p1",
		"tier":         "platinum",
		"contactEmail": "owner@example.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPackagesCatalog(t *testing.T) {
	r := newTestRouter(t, repository.NewMemoryStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/lawyers/packages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Packages []transport.PackageResponse `json:"packages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Packages) != 3 {
		t.Fatalf("got %d packages, want 3", len(resp.Packages))
	}
	if resp.Packages[0].Tier != "basic" || resp.Packages[0].MonthlyPrice != 99 {
		t.Fatalf("first package = %+v", resp.Packages[0])
	}
}
