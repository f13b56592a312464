package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodging/config"
	"lodging/infras/otel"
	"lodging/internal/domains/user/model"
	"lodging/internal/domains/user/model/dto"
	"lodging/internal/domains/user/repository"
	"lodging/shared"
	"lodging/shared/cache"
	"lodging/shared/constant"
	"lodging/shared/failure"

	"github.com/rs/zerolog/log"
)

// CacheGetUser prefixes the cached profile of a single tenant.
const CacheGetUser = "user:get"

type User interface {
	Me(ctx context.Context) (dto.UserResponse, error)
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Me returns the profile of the authenticated tenant.
func (s *serviceImpl) Me(ctx context.Context) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer scope.TraceIfError(&err)

	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if id == constant.Empty {
		return res, failure.Unauthorized("missing tenant") // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(CacheGetUser, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for user")

		return res, nil
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return res, failure.NotFound("user not found") // nolint:wrapcheck
	}

	res.FromModel(user)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save user to cache")
	}

	return res, nil
}
