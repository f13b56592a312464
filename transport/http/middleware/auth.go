package middleware

import (
	"context"
	"errors"
	"net/http"

	"lodging/infras/jwt"
	"lodging/infras/otel"
	"lodging/permissions"
	"lodging/shared/constant"
	"lodging/shared/failure"
	"lodging/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Auth validates access tokens and places the tenant id on the request context.
type Auth interface {
	Auth(http.Handler) http.Handler
}

type authImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
}

func NewAuthMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData) Auth {
	return &authImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
	}
}

var tokenErrorMessages = []struct {
	err     error
	message string
}{
	{jwt.ErrMissingHeader, "Missing authorization header"},
	{jwt.ErrMalformedHeader, "Invalid authorization header format"},
	{jwt.ErrExpiredToken, "Token has expired"},
	{jwt.ErrInvalidToken, "Invalid token"},
	{jwt.ErrInvalidClaim, "Invalid token claims"},
}

func unauthorized(err error) error {
	for _, known := range tokenErrorMessages {
		if errors.Is(err, known.err) {
			return failure.Unauthorized(known.message)
		}
	}

	return failure.Unauthorized("Token validation failed")
}

// routePattern resolves path to the chi pattern it matches, e.g. /v1/rooms/{id},
// so the permissions table can be keyed by pattern.
func routePattern(ctx context.Context, method, path string) string {
	rctx := chi.RouteContext(ctx)
	if rctx == nil || rctx.Routes == nil {
		return path
	}

	if pattern := rctx.Routes.Find(chi.NewRouteContext(), method, path); pattern != "" {
		return pattern
	}

	return path
}

// Auth requires a valid bearer token unless the permissions table marks the route public.
func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		path := routePattern(ctx, request.Method, request.URL.Path)
		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		if m.permission.FindPermissions(path, request.Method).Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		claims, err := m.authenticate(ctx, request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, unauthorized(err))

			return
		}

		scope.SetAttribute("tenant.id", claims.UserID)
		scope.End()

		next.ServeHTTP(writer, request.WithContext(withClaims(request.Context(), claims)))
	})
}

func (m *authImpl) authenticate(ctx context.Context, header string) (*jwt.Claims, error) {
	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, err
	}

	claims, err := m.jwtService.ValidateToken(ctx, token, jwt.AccessToken)
	if err != nil {
		return nil, err
	}

	if claims.UserID == constant.Empty {
		log.Error().Str("token_id", claims.TokenID).Msg("access token carries no user id")

		return nil, jwt.ErrInvalidClaim
	}

	return claims, nil
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)
}
