//go:build wireinject
// +build wireinject

package di

import (
	"expo/config"
	"expo/infras/jwt"
	"expo/infras/kafka"
	"expo/infras/otel"
	"expo/infras/postgres"
	"expo/infras/redis"
	"expo/infras/s3"
	"expo/permissions"
	"expo/shared/cache"
	"expo/transport/http"
	"expo/transport/http/middleware"
	"expo/transport/http/router"

	exhibitionEvent "expo/internal/domains/exhibition/event"
	exhibitionReminder "expo/internal/domains/exhibition/reminder"
	exhibitionRepository "expo/internal/domains/exhibition/repository"
	exhibitionService "expo/internal/domains/exhibition/service"

	"github.com/google/wire"

	authService "expo/internal/domains/auth/service"
	userRepository "expo/internal/domains/user/repository"
	authHandler "expo/internal/handlers/auth"
	exhibitionHandler "expo/internal/handlers/exhibition"
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
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var exhibitionDomain = wire.NewSet(
	exhibitionRepository.New,
	exhibitionEvent.New,
	exhibitionService.New,
	exhibitionReminder.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var domains = wire.NewSet(
	exhibitionDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	exhibitionHandler.New,
	authHandler.New,
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
		wire.Struct(new(http.Dependencies), "*"),
		http.New,
	)

	return &http.HTTP{}
}
