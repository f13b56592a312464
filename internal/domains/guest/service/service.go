package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodging/config"
	"lodging/infras/otel"
	"lodging/internal/domains/guest/model"
	"lodging/internal/domains/guest/model/dto"
	"lodging/internal/domains/guest/repository"
	"lodging/internal/domains/occupancy"
	roomModel "lodging/internal/domains/room/model"
	"lodging/shared"
	"lodging/shared/cache"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	"lodging/shared/failure"
	gRepo "lodging/shared/repository"
	"lodging/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Guest interface {
	CheckIn(ctx context.Context, req dto.CheckInRequest) (dto.GuestResponse, error)
	Update(ctx context.Context, req dto.UpdateGuestRequest, id string) (dto.GuestResponse, error)
	Checkout(ctx context.Context, id string) (dto.GuestResponse, error)
	Get(ctx context.Context, id string) (dto.GuestResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.GuestFilter) (dto.GetGuestsResponse, error)
	Search(ctx context.Context, req gDto.QueryParams, q string) (dto.GetGuestsResponse, error)
}

type serviceImpl struct {
	repo       repository.Guest
	engine     occupancy.Engine
	transactor gRepo.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(repo repository.Guest, engine occupancy.Engine, transactor gRepo.Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Guest {
	return &serviceImpl{
		repo:       repo,
		engine:     engine,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

func (s *serviceImpl) CheckIn(ctx context.Context, req dto.CheckInRequest) (res dto.GuestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	guest := req.ToModel(tenantID)

	if err = dto.ValidateStay(guest.CheckInDate, guest.ExpectedCheckOutDate); err != nil {
		return res, err
	}

	var detail model.GuestDetail

	err = s.transactor.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		cmd := occupancy.Command{
			TenantID: tenantID,
			GuestID:  guest.ID,
			AgentID:  guest.Agent(),
			To:       guest.RoomID,
		}

		if _, err := s.engine.Apply(ctx, tx, cmd); err != nil {
			return err
		}

		if err := s.repo.InsertTx(ctx, tx, guest); err != nil {
			return fmt.Errorf("failed to insert guest: %w", err)
		}

		return s.loadDetail(ctx, tx, tenantID, guest.ID, &detail)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check in guest")

		return res, err
	}

	s.invalidateRooms(ctx, tenantID)
	res.FromModel(detail)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateGuestRequest, id string) (res dto.GuestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var detail model.GuestDetail

	err = s.transactor.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lockGuest(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}

		if current.CheckedOut {
			return failure.InvalidState("guest is already checked out") // nolint:wrapcheck
		}

		next, fields := req.Apply(current, tenantID)

		if req.DatesChanged() {
			if err := dto.ValidateStay(next.CheckInDate, next.ExpectedCheckOutDate); err != nil {
				return err
			}
		}

		if next.RoomID != current.RoomID || next.Agent() != current.Agent() {
			cmd := occupancy.Command{
				TenantID: tenantID,
				GuestID:  current.ID,
				AgentID:  next.Agent(),
				From:     current.RoomID,
				To:       next.RoomID,
			}

			if _, err := s.engine.Apply(ctx, tx, cmd); err != nil {
				return err
			}
		}

		if len(fields) > 0 {
			filter := shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName)
			if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
				return fmt.Errorf("failed to update guest: %w", err)
			}
		}

		return s.loadDetail(ctx, tx, tenantID, id, &detail)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update guest")

		return res, err
	}

	s.invalidateRooms(ctx, tenantID)
	res.FromModel(detail)

	return res, nil
}

func (s *serviceImpl) Checkout(ctx context.Context, id string) (res dto.GuestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Checkout")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var detail model.GuestDetail

	err = s.transactor.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lockGuest(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}

		if current.CheckedOut {
			return failure.AlreadyCheckedOut("guest is already checked out") // nolint:wrapcheck
		}

		cmd := occupancy.Command{
			TenantID: tenantID,
			GuestID:  current.ID,
			AgentID:  current.Agent(),
			From:     current.RoomID,
		}

		if _, err := s.engine.Apply(ctx, tx, cmd); err != nil {
			return err
		}

		now := timezone.Now()
		fields := map[string]any{
			model.FieldCheckedOut:     true,
			model.FieldCheckedOutDate: now,
			constant.FieldModifiedAt:  now,
			constant.FieldModifiedBy:  tenantID,
		}

		filter := shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName)
		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to check out guest: %w", err)
		}

		return s.loadDetail(ctx, tx, tenantID, id, &detail)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check out guest")

		return res, err
	}

	s.invalidateRooms(ctx, tenantID)
	res.FromModel(detail)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.GuestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	guest, err := s.repo.GetDetail(ctx, shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get guest")

		return res, fmt.Errorf("failed to get guest: %w", err)
	}

	if guest.ID == constant.Empty {
		return res, failure.NotFound("guest not found") // nolint:wrapcheck
	}

	res.FromModel(guest)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.GuestFilter) (res dto.GetGuestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	return s.list(ctx, req, filter.ToFilterGroup())
}

func (s *serviceImpl) Search(ctx context.Context, req gDto.QueryParams, q string) (res dto.GetGuestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Search")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if q == constant.Empty {
		return res, failure.BadRequestFromString("search query is required") // nolint:wrapcheck
	}

	return s.list(ctx, req, dto.SearchFilter(q))
}

func (s *serviceImpl) list(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetGuestsResponse, err error) {
	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter = shared.WithTenant(filter, tenantID, model.FieldTenantID, model.TableName)

	req.SortBy = dto.SortColumn(req.SortBy)
	if req.SortDir == constant.Empty {
		req.SortDir = gDto.SortDirDesc
	}

	total, err := s.repo.CountDetail(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count guests")

		return res, fmt.Errorf("failed to count guests: %w", err)
	}

	guests, err := s.repo.GetAllDetail(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get guests")

		return res, fmt.Errorf("failed to get guests: %w", err)
	}

	res.FromModels(guests, total, req.Limit)

	return res, nil
}

// lockGuest loads the tenant's guest FOR UPDATE. It is always the first lock a transaction takes.
func (s *serviceImpl) lockGuest(ctx context.Context, tx *sqlx.Tx, tenantID, id string) (model.Guest, error) {
	filter := shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName)

	guest, err := s.repo.GetTx(ctx, tx, filter, gRepo.LockForUpdate)
	if err != nil {
		return guest, fmt.Errorf("failed to get guest: %w", err)
	}

	if guest.ID == constant.Empty {
		return guest, failure.NotFound("guest not found") // nolint:wrapcheck
	}

	return guest, nil
}

func (s *serviceImpl) loadDetail(ctx context.Context, tx *sqlx.Tx, tenantID, id string, detail *model.GuestDetail) error {
	res, err := s.repo.GetDetailTx(ctx, tx, shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName))
	if err != nil {
		return fmt.Errorf("failed to get guest: %w", err)
	}

	*detail = res

	return nil
}

// invalidateRooms drops the tenant's cached rooms so the next read sees the new counters.
func (s *serviceImpl) invalidateRooms(ctx context.Context, tenantID string) {
	shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(roomModel.CachePrefix, tenantID, constant.Empty))
}
