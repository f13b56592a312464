package router

import (
	"lodging/internal/handlers/agent"
	"lodging/internal/handlers/auth"
	"lodging/internal/handlers/guest"
	"lodging/internal/handlers/health"
	"lodging/internal/handlers/room"
	"lodging/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Auth   auth.Handler
	Room   room.Handler
	Agent  agent.Handler
	Guest  guest.Handler
	Health health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	auth           middleware.Auth
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Get("/health", r.DomainHandlers.Health.Check)
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.auth.Auth)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Agent.Router(routerGroup)
		r.DomainHandlers.Guest.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, auth middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		auth:           auth,
	}
}
