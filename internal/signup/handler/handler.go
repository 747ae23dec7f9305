// Package handler exposes the signup HTTP endpoints.
package handler

import (
	"net/http"

	"smartdivorce_backend/internal/signup/service"
	"smartdivorce_backend/internal/signup/transport"
	"smartdivorce_backend/platform/httpkit"
	"smartdivorce_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for signups.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new signup handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Join handles POST /api/v1/lawyers/join.
func (h *Handler) Join(c *gin.Context) {
	var req transport.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	app, err := h.svc.SubmitApplication(c.Request.Context(), req.Params())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.JoinResponse{
		ApplicationID: app.ID,
		Status:        "received",
	})
}

// Newsletter handles POST /api/v1/newsletter.
func (h *Handler) Newsletter(c *gin.Context) {
	var req transport.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.Subscribe(c.Request.Context(), req.Email); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"status": "subscribed"})
}
