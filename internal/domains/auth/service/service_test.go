package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lodging/config"
	"lodging/infras/jwt"
	jwtMocks "lodging/infras/jwt/mocks"
	"lodging/infras/otel/mocks"
	"lodging/internal/domains/auth/model/dto"
	"lodging/internal/domains/auth/service"
	userMocks "lodging/internal/domains/user/mocks"
	userModel "lodging/internal/domains/user/model"
	cacheMocks "lodging/shared/cache/mocks"
	"lodging/shared/constant"
	"lodging/shared/failure"
	gModel "lodging/shared/model"
	"lodging/shared/password"
	"lodging/shared/timezone"
)

type authFixture struct {
	repo  *userMocks.MockUser
	jwt   *jwtMocks.MockJWT
	cache *cacheMocks.MockRedisCache
	svc   service.Auth
}

func newAuthFixture(t *testing.T) *authFixture {
	ctrl := gomock.NewController(t)

	f := &authFixture{
		repo:  userMocks.NewMockUser(ctrl),
		jwt:   jwtMocks.NewMockJWT(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, &config.Config{}, f.cache, mocks.NewOtel(), f.jwt)

	return f
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *authFixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "successful registration",
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().EmailTaken(gomock.Any(), "Owner@Example.com").Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user userModel.User) error {
						assert.NoError(t, password.Verify("secret123", user.Password))
						assert.Equal(t, constant.RoleUser, user.Role)
						assert.Equal(t, "owner@example.com", user.Email)
						assert.True(t, user.Active)

						return nil
					})
			},
		},
		{
			name: "email taken",
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().EmailTaken(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "lost race on unique index",
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().EmailTaken(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(failure.Conflict("user already exists"))
			},
			wantErr:  true,
			wantKind: failure.KindConflict,
		},
		{
			name: "repository error",
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().EmailTaken(gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: "Owner@Example.com", Password: "secret123"})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, res.ID)
				assert.Equal(t, "owner@example.com", res.Email)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := password.Hash("password")
	require.NoError(t, err)

	validUser := userModel.User{
		ID:       "user-id-123",
		Email:    "test@example.com",
		Password: hashed,
		Role:     constant.RoleUser,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "user-id-123",
			ModifiedBy: "user-id-123",
		},
	}

	tokens := &jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer"}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(f *authFixture)
		wantKind  failure.Kind
		wantErr   bool
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(validUser, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, validUser.Role).Return(tokens, nil)
				f.repo.EXPECT().TouchLastLogin(gomock.Any(), validUser.ID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, at time.Time) error {
						assert.WithinDuration(t, time.Now(), at, time.Minute)

						return nil
					})
				f.cache.EXPECT().Delete(gomock.Any(), "user:get:user-id-123").Return(nil)
			},
		},
		{
			name: "user not found",
			req:  dto.LoginRequest{Email: "nonexistent@example.com", Password: "password"},
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr:  true,
			wantKind: failure.KindUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "wrongpassword"},
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(validUser, nil)
			},
			wantErr:  true,
			wantKind: failure.KindUnauthorized,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(f *authFixture) {
				inactiveUser := validUser
				inactiveUser.Active = false

				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(inactiveUser, nil)
			},
			wantErr:  true,
			wantKind: failure.KindForbidden,
		},
		{
			name: "evicting the cached profile is best effort",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), "test@example.com").Return(validUser, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, validUser.Role).Return(tokens, nil)
				f.repo.EXPECT().TouchLastLogin(gomock.Any(), validUser.ID, gomock.Any()).Return(nil)
				f.cache.EXPECT().Delete(gomock.Any(), "user:get:user-id-123").Return(errors.New("redis down"))
			},
		},
		{
			name: "token generation error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(validUser, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, validUser.Role).
					Return(nil, errors.New("token generation failed"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
		{
			name: "update last login error",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password"},
			setupMock: func(f *authFixture) {
				f.repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(validUser, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), validUser.ID, validUser.Email, validUser.Role).Return(tokens, nil)
				f.repo.EXPECT().TouchLastLogin(gomock.Any(), validUser.ID, gomock.Any()).Return(errors.New("update error"))
			},
			wantErr:  true,
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			tt.setupMock(f)

			result, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "access-token", result.AccessToken)
				assert.Equal(t, "refresh-token", result.RefreshToken)
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		setupMock func(f *authFixture)
		wantErr   bool
	}{
		{
			name:  "successful token refresh",
			token: "valid-refresh-token",
			setupMock: func(f *authFixture) {
				f.jwt.EXPECT().RefreshTokens(gomock.Any(), "valid-refresh-token").
					Return(&jwt.TokenPair{AccessToken: "new-access-token", RefreshToken: "new-refresh-token"}, nil)
			},
		},
		{
			name:  "invalid refresh token",
			token: "invalid-refresh-token",
			setupMock: func(f *authFixture) {
				f.jwt.EXPECT().RefreshTokens(gomock.Any(), "invalid-refresh-token").Return(nil, errors.New("invalid token"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			tt.setupMock(f)

			result, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: tt.token})

			if tt.wantErr {
				assert.True(t, failure.Is(err, failure.KindUnauthorized))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "new-access-token", result.AccessToken)
			}
		})
	}
}
