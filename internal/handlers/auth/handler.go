package auth

import (
	"context"
	"net/http"

	"lodging/infras/otel"
	"lodging/internal/domains/auth/service"
	userService "lodging/internal/domains/user/service"
	"lodging/shared/constant"
	"lodging/shared/validator"
	"lodging/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	user    userService.User
	otel    otel.Otel
}

func New(service service.Auth, user userService.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		user:    user,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh-token", handler.RefreshToken)
		r.Get("/me", handler.Me)
	})
}

// decodeAndCall validates the JSON body into Req, passes it to call and writes
// the result with status. Every auth endpoint has this shape.
func decodeAndCall[Req, Res any](
	handler *Handler, w http.ResponseWriter, r *http.Request, operation string, status int,
	call func(context.Context, Req) (Res, error),
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+operation)
	defer scope.End()

	var req Req
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("operation", operation).Msg("rejected request body")
		response.WithError(w, err)

		return
	}

	res, err := call(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("operation", operation).Msg("auth request failed")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, status, res)
}

// Register handles tenant registration
// @Summary Register a new tenant
// @Description Create a tenant account. The account id scopes all rooms, agents and guests.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Data[userDto.UserResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	decodeAndCall(handler, w, r, "Register", http.StatusCreated, handler.service.Register)
}

// Login exchanges credentials for tokens
// @Summary Login a tenant
// @Description Exchange credentials for an access and refresh token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	decodeAndCall(handler, w, r, "Login", http.StatusOK, handler.service.Login)
}

// RefreshToken rotates a token pair
// @Summary Refresh a token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	decodeAndCall(handler, w, r, "RefreshToken", http.StatusOK, handler.service.RefreshToken)
}

// Me returns the authenticated tenant
// @Summary Get current tenant
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Data[userDto.UserResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/auth/me [get]
// @Security BearerAuth
func (handler *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Me")
	defer scope.End()

	user, err := handler.user.Me(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get current tenant")
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}
