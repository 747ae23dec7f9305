// Package signup wires the lawyer application and newsletter endpoints.
package signup

import (
	"smartdivorce_backend/internal/events"
	apphttp "smartdivorce_backend/internal/http"
	"smartdivorce_backend/internal/signup/handler"
	"smartdivorce_backend/internal/signup/repository"
	"smartdivorce_backend/internal/signup/service"
	"smartdivorce_backend/platform/logger"
	"smartdivorce_backend/platform/validator"
)

// Module wires the signup HTTP routes.
type Module struct {
	handler *handler.Handler
}

// NewModule assembles the signup module from its dependencies.
func NewModule(store repository.Store, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, eventBus, log)
	h := handler.New(svc, val)
	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "signup"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/lawyers/join", m.handler.Join)
	ctx.V1.POST("/newsletter", m.handler.Newsletter)
}

var _ apphttp.Module = (*Module)(nil)
