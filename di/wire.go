//go:build wireinject
// +build wireinject

package di

import (
	"lodging/config"
	"lodging/infras/jwt"
	"lodging/infras/otel"
	"lodging/infras/postgres"
	"lodging/infras/redis"
	"lodging/infras/s3"
	"lodging/permissions"
	"lodging/shared/cache"
	gRepo "lodging/shared/repository"
	"lodging/transport/http"
	"lodging/transport/http/middleware"
	"lodging/transport/http/router"

	agentRepository "lodging/internal/domains/agent/repository"
	agentService "lodging/internal/domains/agent/service"
	authService "lodging/internal/domains/auth/service"
	guestRepository "lodging/internal/domains/guest/repository"
	guestService "lodging/internal/domains/guest/service"
	"lodging/internal/domains/occupancy"
	roomRepository "lodging/internal/domains/room/repository"
	roomService "lodging/internal/domains/room/service"
	userRepository "lodging/internal/domains/user/repository"
	userService "lodging/internal/domains/user/service"

	agentHandler "lodging/internal/handlers/agent"
	authHandler "lodging/internal/handlers/auth"
	guestHandler "lodging/internal/handlers/guest"
	healthHandler "lodging/internal/handlers/health"
	roomHandler "lodging/internal/handlers/room"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
)

var occupancyDomain = wire.NewSet(
	occupancy.New,
	wire.Bind(new(occupancy.Rooms), new(roomRepository.Room)),
	wire.Bind(new(occupancy.Agents), new(agentRepository.Agent)),
	wire.Bind(new(occupancy.Ledger), new(guestRepository.Guest)),
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
	wire.Bind(new(roomService.GuestLister), new(guestService.Guest)),
)

var agentDomain = wire.NewSet(
	agentRepository.New,
	agentService.New,
	wire.Bind(new(agentService.GuestLedger), new(guestRepository.Guest)),
	wire.Bind(new(agentService.GuestLister), new(guestService.Guest)),
)

var guestDomain = wire.NewSet(
	guestRepository.New,
	guestService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var domains = wire.NewSet(
	occupancyDomain,
	roomDomain,
	agentDomain,
	guestDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomHandler.New,
	agentHandler.New,
	guestHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeRoomService builds the room service alone for offline jobs.
func InitializeRoomService() roomService.Room {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
	)

	return nil
}
