// Package directory wires the lawyer directory bounded context: capture,
// sponsored listings, and sponsorship purchases.
package directory

import (
	"smartdivorce_backend/internal/directory/handler"
	"smartdivorce_backend/internal/directory/repository"
	"smartdivorce_backend/internal/directory/service"
	"smartdivorce_backend/internal/directory/sponsorship"
	"smartdivorce_backend/internal/events"
	apphttp "smartdivorce_backend/internal/http"
	"smartdivorce_backend/platform/logger"
	"smartdivorce_backend/platform/validator"
)

// Module wires the directory HTTP routes.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule assembles the directory module from its dependencies.
func NewModule(
	store repository.Store,
	sponsorConfigs []sponsorship.Config,
	scheduler service.ExpiryScheduler,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	matcher := sponsorship.NewMatcher(sponsorConfigs, log)
	svc := service.New(store, matcher, scheduler, eventBus, log)
	h := handler.New(svc, val)
	return &Module{handler: h, svc: svc}
}

func (m *Module) Name() string {
	return "directory"
}

// Service exposes the directory use cases to non-HTTP entrypoints (the
// collector and the sweeper).
func (m *Module) Service() *service.Service {
	return m.svc
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/lawyers")
	group.POST("/capture", ctx.CaptureRateLimiter.RateLimit(), m.handler.Capture)
	group.GET("/sponsored", m.handler.Sponsored)
	group.GET("/packages", m.handler.Packages)
	group.POST("/sponsorship", m.handler.CreateSponsorship)
}

var _ apphttp.Module = (*Module)(nil)
