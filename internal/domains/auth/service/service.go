package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodging/config"
	"lodging/infras/jwt"
	"lodging/infras/otel"
	"lodging/internal/domains/auth/model/dto"
	userModel "lodging/internal/domains/user/model"
	userDto "lodging/internal/domains/user/model/dto"
	userRepo "lodging/internal/domains/user/repository"
	userService "lodging/internal/domains/user/service"
	"lodging/shared"
	"lodging/shared/cache"
	"lodging/shared/constant"
	"lodging/shared/failure"
	"lodging/shared/password"
	"lodging/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Auth is the tenant directory: it registers accounts and issues the tokens
// that scope every other request to one tenant.
type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (userDto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
}

// errBadCredentials is shared by unknown emails and wrong passwords so a
// caller cannot probe which accounts exist.
const errBadCredentials = "invalid email or password"

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		jwtService: jwt,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(&err)

	taken, err := s.userRepo.EmailTaken(ctx, req.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up email")

		return res, fmt.Errorf("failed to look up email: %w", err)
	}

	if taken {
		return res, failure.Conflict("email already registered") // nolint:wrapcheck
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(hashed)

	// a concurrent registration loses on the unique email index and surfaces as Conflict
	if err = s.userRepo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("tenant registered")
	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, err := s.authenticate(ctx, req)
	if err != nil {
		return res, err
	}

	tokens, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err = s.userRepo.TouchLastLogin(ctx, user.ID, timezone.Now()); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to update last login")

		return res, fmt.Errorf("failed to update last login: %w", err)
	}

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(userService.CacheGetUser, user.ID)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to evict cached profile")
	}

	res.FromTokenPair(tokens)

	return res, nil
}

// authenticate resolves the active account matching the credentials in req.
func (s *serviceImpl) authenticate(ctx context.Context, req dto.LoginRequest) (userModel.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		log.Warn().Msg("login attempt for unknown email")

		return user, failure.Unauthorized(errBadCredentials) // nolint:wrapcheck
	}

	if err = password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("login attempt with wrong password")

		return user, failure.Unauthorized(errBadCredentials) // nolint:wrapcheck
	}

	if !user.Active {
		return user, failure.Forbidden("user account is deactivated") // nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tokens, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	res.FromTokenPair(tokens)

	return res, nil
}
