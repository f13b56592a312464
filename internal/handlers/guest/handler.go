package guest

import (
	"net/http"

	"lodging/infras/otel"
	"lodging/internal/domains/guest/model"
	"lodging/internal/domains/guest/model/dto"
	"lodging/internal/domains/guest/service"
	"lodging/shared"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	"lodging/shared/validator"
	"lodging/transport/http/middleware"
	"lodging/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Guest
	otel    otel.Otel
}

func New(service service.Guest, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/guests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CheckIn)
		routerGroup.Get("/", handler.GetGuests)
		routerGroup.Get("/search", handler.SearchGuests)

		byID := routerGroup.With(middleware.ValidID)
		byID.Get("/{id}", handler.GetGuestByID)
		byID.Patch("/{id}", handler.UpdateGuest)
		byID.Post("/{id}/checkout", handler.Checkout)
	})
}

// CheckIn admits a guest into a room.
// @Summary Check a guest in
// @Description Direct guests take one bed each. A guest with an agent joins or opens that agent's lease on the whole room.
// @Tags Guest
// @Accept json
// @Produce json
// @Param request body dto.CheckInRequest true "Check-in Request"
// @Success 201 {object} response.Data[dto.GuestResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "RoomFull, RoomAssignedToAgent or RoomAssignedElsewhere"
// @Failure 500 {object} response.Error
// @Router /v1/guests [post]
// @Security BearerAuth
func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	req := dto.CheckInRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	guest, err := handler.service.CheckIn(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check in guest")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guest checked in")

	response.WithJSON(w, http.StatusCreated, guest)
}

// GetGuests lists guest stays.
// @Summary Get all guests
// @Tags Guest
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room"
// @Param agent_id query string false "Filter by agent, null for direct guests"
// @Param checked_out query boolean false "Filter by checkout state"
// @Success 200 {object} response.Data[dto.GetGuestsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/guests [get]
// @Security BearerAuth
func (handler *Handler) GetGuests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.GuestFilter{
		RoomID:     query.Get(model.FieldRoomID),
		AgentID:    query.Get(model.FieldAgentID),
		CheckedOut: shared.ConvertStringToBool(query.Get(model.FieldCheckedOut)),
	}

	guests, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, guests)
}

// SearchGuests finds guests in house by guest name, room number or agent name.
// @Summary Search active guests
// @Tags Guest
// @Produce json
// @Param q query string true "Search text"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetGuestsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/guests/search [get]
// @Security BearerAuth
func (handler *Handler) SearchGuests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchGuests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	guests, err := handler.service.Search(ctx, queryParams, r.URL.Query().Get(constant.RequestParamQuery))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search guests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, guests)
}

// GetGuestByID retrieves a guest stay by its ID.
// @Summary Get a guest by ID
// @Tags Guest
// @Produce json
// @Param id path string true "Guest ID"
// @Success 200 {object} response.Data[dto.GuestResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guests/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetGuestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetGuestByID")
	defer scope.End()

	guest, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get guest by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, guest)
}

// UpdateGuest edits a stay. Moving rooms or changing the agent reallocates beds atomically.
// @Summary Update a guest by ID
// @Description Send agent_id as null or "" to turn the guest into a direct guest. Omit it to keep the current agent.
// @Tags Guest
// @Accept json
// @Produce json
// @Param id path string true "Guest ID"
// @Param request body dto.UpdateGuestRequest true "Update Guest Request"
// @Success 200 {object} response.Data[dto.GuestResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/guests/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateGuest")
	defer scope.End()

	req := dto.UpdateGuestRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	guest, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update guest")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, guest)
}

// Checkout ends a stay and frees its bed or agent lease.
// @Summary Check a guest out
// @Tags Guest
// @Produce json
// @Param id path string true "Guest ID"
// @Success 200 {object} response.Data[dto.GuestResponse]
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error "AlreadyCheckedOut"
// @Failure 500 {object} response.Error
// @Router /v1/guests/{id}/checkout [post]
// @Security BearerAuth
func (handler *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Checkout")
	defer scope.End()

	guest, err := handler.service.Checkout(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check out guest")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Guest checked out")

	response.WithJSON(w, http.StatusOK, guest)
}
