// Package handler exposes the directory's HTTP endpoints.
package handler

import (
	"net/http"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/internal/directory/service"
	"smartdivorce_backend/internal/directory/transport"
	"smartdivorce_backend/platform/httpkit"
	"smartdivorce_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the lawyer directory.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new directory handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Capture handles POST /api/v1/lawyers/capture. The response is always
// an acknowledgment when the payload is well formed: datastore trouble
// must not leak into the search experience.
func (h *Handler) Capture(c *gin.Context) {
	var req transport.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Capture(c.Request.Context(), req.Record(), req.Origin())
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.CaptureResponse{Status: "accepted"}
	if result.Stored {
		resp.Created = result.Created
		resp.SearchCount = result.Lawyer.SearchCount
	}
	httpkit.Accepted(c, resp)
}

// Sponsored handles GET /api/v1/lawyers/sponsored?lat&lng&radius.
func (h *Handler) Sponsored(c *gin.Context) {
	var query transport.SponsoredQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	listings, err := h.svc.SponsoredListings(c.Request.Context(), *query.Lat, *query.Lng, query.Radius())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"listings": transport.ToListingResponses(listings)})
}

// CreateSponsorship handles POST /api/v1/lawyers/sponsorship.
func (h *Handler) CreateSponsorship(c *gin.Context) {
	var req transport.CreateSponsorshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	tier, ok := domain.ParseTier(req.Tier)
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "unknown tier")
		return
	}

	sp, err := h.svc.CreateSponsorship(c.Request.Context(), service.CreateSponsorshipParams{
		PlaceID:           req.PlaceID,
		Tier:              tier,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		CustomBadge:       req.CustomBadge,
		CustomDescription: req.CustomDescription,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ToSponsorshipResponse(sp))
}

// Packages handles GET /api/v1/lawyers/packages.
func (h *Handler) Packages(c *gin.Context) {
	httpkit.OK(c, gin.H{"packages": transport.ToPackageResponses()})
}
