package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodging/config"
	"lodging/infras/otel"
	"lodging/internal/domains/agent/model"
	"lodging/internal/domains/agent/model/dto"
	"lodging/internal/domains/agent/repository"
	guestModel "lodging/internal/domains/guest/model"
	guestDto "lodging/internal/domains/guest/model/dto"
	"lodging/shared"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	"lodging/shared/failure"
	gRepo "lodging/shared/repository"
	"lodging/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Agent interface {
	Create(ctx context.Context, req dto.CreateAgentRequest) (dto.AgentResponse, error)
	Get(ctx context.Context, id string) (dto.AgentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.AgentFilter) (dto.GetAgentsResponse, error)
	Update(ctx context.Context, req dto.UpdateAgentRequest, id string) (dto.AgentResponse, error)
	Delete(ctx context.Context, id string) error
	Guests(ctx context.Context, req gDto.QueryParams, id string) (guestDto.GetGuestsResponse, error)
}

// GuestLedger counts guests inside a transaction.
type GuestLedger interface {
	CountTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int, error)
}

type GuestLister interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter guestDto.GuestFilter) (guestDto.GetGuestsResponse, error)
}

type serviceImpl struct {
	repo       repository.Agent
	ledger     GuestLedger
	guests     GuestLister
	transactor gRepo.Transactor
	cfg        *config.Config
	otel       otel.Otel
}

func New(repo repository.Agent, ledger GuestLedger, guests GuestLister, transactor gRepo.Transactor, cfg *config.Config, otel otel.Otel) Agent {
	return &serviceImpl{
		repo:       repo,
		ledger:     ledger,
		guests:     guests,
		transactor: transactor,
		cfg:        cfg,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateAgentRequest) (res dto.AgentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	agent := req.ToModel(tenantID)

	if err = s.repo.Insert(ctx, agent); err != nil {
		log.Error().Err(err).Msg("failed to create agent")

		return res, fmt.Errorf("failed to create agent: %w", err)
	}

	res.FromModel(agent)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AgentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	agent, err := s.repo.Get(ctx, shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get agent")

		return res, fmt.Errorf("failed to get agent: %w", err)
	}

	if agent.ID == constant.Empty {
		return res, failure.NotFound("agent not found") // nolint:wrapcheck
	}

	res.FromModel(agent)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.AgentFilter) (res dto.GetAgentsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	group := shared.WithTenant(filter.ToFilterGroup(), tenantID, model.FieldTenantID, model.TableName)

	req.SortBy = dto.SortColumn(req.SortBy)
	if req.SortDir == constant.Empty {
		req.SortDir = gDto.SortDirAsc
	}

	total, err := s.repo.Count(ctx, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to count agents")

		return res, fmt.Errorf("failed to count agents: %w", err)
	}

	agents, err := s.repo.GetAll(ctx, req, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get agents")

		return res, fmt.Errorf("failed to get agents: %w", err)
	}

	res.FromModels(agents, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateAgentRequest, id string) (res dto.AgentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName)

	agent, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get agent")

		return res, fmt.Errorf("failed to get agent: %w", err)
	}

	if agent.ID == constant.Empty {
		return res, failure.NotFound("agent not found") // nolint:wrapcheck
	}

	agent.Name = req.Name
	agent.ModifiedAt = timezone.Now()
	agent.ModifiedBy = tenantID

	fields := map[string]any{
		model.FieldName:          agent.Name,
		constant.FieldModifiedAt: agent.ModifiedAt,
		constant.FieldModifiedBy: agent.ModifiedBy,
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update agent")

		return res, fmt.Errorf("failed to update agent: %w", err)
	}

	res.FromModel(agent)

	return res, nil
}

// Delete removes an agent with no guests in house. The agent row is locked first so a
// check-in naming the agent either finishes before the count or fails after the delete.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName)

	err = s.transactor.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		agent, err := s.repo.GetTx(ctx, tx, filter, gRepo.LockForUpdate, model.FieldID)
		if err != nil {
			return fmt.Errorf("failed to lock agent: %w", err)
		}

		if agent.ID == constant.Empty {
			return failure.NotFound("agent not found") // nolint:wrapcheck
		}

		active, err := s.ledger.CountTx(ctx, tx, activeGuestsOf(tenantID, id))
		if err != nil {
			return fmt.Errorf("failed to count active guests: %w", err)
		}

		if active > 0 {
			return failure.HasActiveDependents(fmt.Sprintf("agent has %d active guests", active)) // nolint:wrapcheck
		}

		if err := s.repo.DeleteTx(ctx, tx, filter); err != nil {
			return fmt.Errorf("failed to delete agent: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete agent")

		return err
	}

	return nil
}

// Guests lists the agent's guests still in house.
func (s *serviceImpl) Guests(ctx context.Context, req gDto.QueryParams, id string) (res guestDto.GetGuestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Guests")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.repo.Exist(ctx, shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check agent existence")

		return res, fmt.Errorf("failed to check agent existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound("agent not found") // nolint:wrapcheck
	}

	active := false

	return s.guests.GetAll(ctx, req, guestDto.GuestFilter{AgentID: id, CheckedOut: &active}) //nolint:wrapcheck
}

func activeGuestsOf(tenantID, agentID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: guestModel.FieldTenantID, Value: tenantID, Operator: gDto.FilterOperatorEq, Table: guestModel.TableName},
			gDto.Filter{Field: guestModel.FieldAgentID, Value: agentID, Operator: gDto.FilterOperatorEq, Table: guestModel.TableName},
			gDto.Filter{Field: guestModel.FieldCheckedOut, Value: false, Operator: gDto.FilterOperatorEq, Table: guestModel.TableName},
		},
	}
}
