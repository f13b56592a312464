package agent

import (
	"net/http"

	"lodging/infras/otel"
	"lodging/internal/domains/agent/model"
	"lodging/internal/domains/agent/model/dto"
	"lodging/internal/domains/agent/service"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	"lodging/shared/validator"
	"lodging/transport/http/middleware"
	"lodging/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Agent
	otel    otel.Otel
}

func New(service service.Agent, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/agents", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateAgent)
		routerGroup.Get("/", handler.GetAgents)

		byID := routerGroup.With(middleware.ValidID)
		byID.Get("/{id}", handler.GetAgentByID)
		byID.Patch("/{id}", handler.UpdateAgent)
		byID.Delete("/{id}", handler.DeleteAgent)
		byID.Get("/{id}/guests", handler.GetAgentGuests)
	})
}

// CreateAgent registers a travel agent that can lease whole rooms.
// @Summary Create a new agent
// @Tags Agent
// @Accept json
// @Produce json
// @Param request body dto.CreateAgentRequest true "Create Agent Request"
// @Success 201 {object} response.Data[dto.AgentResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/agents [post]
// @Security BearerAuth
func (handler *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateAgent")
	defer scope.End()

	req := dto.CreateAgentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	agent, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create agent")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, agent)
}

// GetAgents lists the tenant's agents.
// @Summary Get all agents
// @Tags Agent
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Data[dto.GetAgentsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/agents [get]
// @Security BearerAuth
func (handler *Handler) GetAgents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAgents")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	agents, err := handler.service.GetAll(ctx, queryParams, dto.AgentFilter{Name: r.URL.Query().Get(model.FieldName)})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get agents")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, agents)
}

// GetAgentByID retrieves an agent by its ID.
// @Summary Get an agent by ID
// @Tags Agent
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} response.Data[dto.AgentResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/agents/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetAgentByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAgentByID")
	defer scope.End()

	agent, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get agent by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, agent)
}

// UpdateAgent renames an agent.
// @Summary Update an agent by ID
// @Tags Agent
// @Accept json
// @Produce json
// @Param id path string true "Agent ID"
// @Param request body dto.UpdateAgentRequest true "Update Agent Request"
// @Success 200 {object} response.Data[dto.AgentResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/agents/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAgent")
	defer scope.End()

	req := dto.UpdateAgentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	agent, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update agent")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, agent)
}

// DeleteAgent removes an agent with no guests in house.
// @Summary Delete an agent by ID
// @Tags Agent
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/agents/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAgent")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete agent")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Agent deleted successfully")
}

// GetAgentGuests lists the agent's guests still in house.
// @Summary Get active guests of an agent
// @Tags Agent
// @Produce json
// @Param id path string true "Agent ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[guestDto.GetGuestsResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/agents/{id}/guests [get]
// @Security BearerAuth
func (handler *Handler) GetAgentGuests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAgentGuests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	guests, err := handler.service.Guests(ctx, queryParams, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get agent guests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, guests)
}
