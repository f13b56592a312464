package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"path"

	"lodging/config"
	"lodging/infras/otel"
	"lodging/infras/s3"
	guestDto "lodging/internal/domains/guest/model/dto"
	"lodging/internal/domains/occupancy"
	"lodging/internal/domains/room/model"
	"lodging/internal/domains/room/model/dto"
	"lodging/internal/domains/room/repository"
	"lodging/shared"
	"lodging/shared/cache"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	"lodging/shared/failure"
	gRepo "lodging/shared/repository"
	"lodging/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	cacheGet  = "get"
	cacheList = "list"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.RoomFilter) (dto.GetRoomsResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (dto.RoomResponse, error)
	Delete(ctx context.Context, id string) error
	Guests(ctx context.Context, req gDto.QueryParams, id string) (guestDto.GetGuestsResponse, error)
	UploadImage(ctx context.Context, req dto.UploadImageRequest, id string) (dto.RoomResponse, error)
	Report(ctx context.Context) ([]byte, error)
	ReconcileAll(ctx context.Context, tenantID string, dryRun bool) (dto.ReconcileResponse, error)
}

// GuestLister lists guests of the caller's tenant.
type GuestLister interface {
	GetAll(ctx context.Context, req gDto.QueryParams, filter guestDto.GuestFilter) (guestDto.GetGuestsResponse, error)
}

type serviceImpl struct {
	repo       repository.Room
	ledger     occupancy.Ledger
	guests     GuestLister
	engine     occupancy.Engine
	transactor gRepo.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	s3         s3.S3
	flight     singleflight.Group
}

func New(repo repository.Room, ledger occupancy.Ledger, guests GuestLister, engine occupancy.Engine, transactor gRepo.Transactor,
	cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3,
) Room {
	return &serviceImpl{
		repo:       repo,
		ledger:     ledger,
		guests:     guests,
		engine:     engine,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		s3:         s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.ensureNumberFree(ctx, tenantID, req.Number, constant.Empty); err != nil {
		return res, err
	}

	room := req.ToModel(tenantID)

	if err = s.repo.Insert(ctx, room); err != nil {
		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx, tenantID)
	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cacheKey := shared.BuildCacheKey(model.CachePrefix, tenantID, cacheGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	value, err, _ := s.flight.Do(cacheKey, func() (any, error) {
		room, err := s.repo.Get(ctx, shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get room")

			return nil, fmt.Errorf("failed to get room: %w", err)
		}

		if room.ID == constant.Empty {
			return nil, failure.NotFound("room not found") // nolint:wrapcheck
		}

		var out dto.RoomResponse
		out.FromModel(room)
		s.save(ctx, cacheKey, out)

		return out, nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res, _ = value.(dto.RoomResponse)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.RoomFilter) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	group := shared.WithTenant(filter.ToFilterGroup(), tenantID, model.FieldTenantID, model.TableName)
	req.SortBy = dto.SortColumn(req.SortBy)
	if req.SortDir == constant.Empty {
		req.SortDir = gDto.SortDirAsc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(model.CachePrefix, req, group, tenantID, cacheList)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	value, err, _ := s.flight.Do(cacheKey, func() (any, error) {
		total, err := s.repo.Count(ctx, group)
		if err != nil {
			log.Error().Err(err).Msg("failed to count rooms")

			return nil, fmt.Errorf("failed to count rooms: %w", err)
		}

		rooms, err := s.repo.GetAll(ctx, req, group)
		if err != nil {
			log.Error().Err(err).Msg("failed to get rooms")

			return nil, fmt.Errorf("failed to get rooms: %w", err)
		}

		var out dto.GetRoomsResponse
		out.FromModels(rooms, total, req.Limit)
		s.save(ctx, cacheKey, out)

		return out, nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res, _ = value.(dto.GetRoomsResponse)

	return res, nil
}

// Update renames the room or changes its capacity. A capacity change is checked against the
// guests currently in the room and rejected with RoomFull when they no longer fit.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var updated model.Room

	err = s.transactor.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lock(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}

		next := req.Apply(current)

		if next.Number != current.Number {
			if err := s.ensureNumberFree(ctx, tenantID, next.Number, id); err != nil {
				return err
			}
		}

		if next.Capacity != current.Capacity {
			if next, err = s.engine.Recompute(ctx, tx, next); err != nil {
				return err
			}
		}

		if next == current {
			updated = current

			return nil
		}

		next.ModifiedAt = timezone.Now()
		next.ModifiedBy = tenantID

		fields := map[string]any{
			model.FieldNumber:          next.Number,
			model.FieldCapacity:        next.Capacity,
			model.FieldOccupiedBeds:    next.OccupiedBeds,
			model.FieldAssignedAgentID: next.AssignedAgentID,
			constant.FieldModifiedAt:   next.ModifiedAt,
			constant.FieldModifiedBy:   next.ModifiedBy,
		}

		filter := shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName)
		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to update room: %w", err)
		}

		updated = next

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update room")

		return res, err
	}

	s.invalidate(ctx, tenantID)
	res.FromModel(updated)

	return res, nil
}

// Delete removes a room nobody is staying in. Checked-out history goes with it.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var deleted model.Room

	err = s.transactor.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lock(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}

		claims, err := s.ledger.ActiveClaimsTx(ctx, tx, tenantID, id, constant.Empty)
		if err != nil {
			return fmt.Errorf("failed to get active guests: %w", err)
		}

		if len(claims) > 0 {
			return failure.HasActiveDependents(fmt.Sprintf("room has %d active guests", len(claims))) // nolint:wrapcheck
		}

		if err := s.repo.DeleteTx(ctx, tx, shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to delete room: %w", err)
		}

		deleted = current

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return err
	}

	s.invalidate(ctx, tenantID)

	if deleted.Image != constant.Empty {
		s.removeImage(ctx, deleted.Image)
	}

	return nil
}

func (s *serviceImpl) Guests(ctx context.Context, req gDto.QueryParams, id string) (res guestDto.GetGuestsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Guests")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.repo.Exist(ctx, shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room existence")

		return res, fmt.Errorf("failed to check room existence: %w", err)
	}

	if !exist {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if req.SortBy == constant.Empty {
		req.SortBy = "check_in_date"
		req.SortDir = gDto.SortDirDesc
	}

	return s.guests.GetAll(ctx, req, guestDto.GuestFilter{RoomID: id}) //nolint:wrapcheck
}

// UploadImage stores a new room photo. The previous object is removed only after the row points
// at the new one, and the new object is removed again if the row update fails.
func (s *serviceImpl) UploadImage(ctx context.Context, req dto.UploadImageRequest, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tenantID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByTenant(tenantID, model.FieldTenantID, id, model.FieldID, model.TableName)

	room, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	bucketName := s.cfg.External.S3.BucketName
	filename := uuid.NewString() + path.Ext(req.Image.Filename)

	url, err := s.s3.UploadFile(ctx, bucketName, model.EntityName, req.ImageFile, req.Image, filename)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload image to S3")

		return res, fmt.Errorf("failed to upload image: %w", err)
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldImage:         url,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: tenantID,
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update room image")

		if delErr := s.s3.DeleteFile(ctx, bucketName, model.EntityName, filename); delErr != nil {
			log.Error().Err(delErr).Str("object", filename).Msg("failed to remove uploaded image")
		}

		return res, fmt.Errorf("failed to update room image: %w", err)
	}

	if room.Image != constant.Empty {
		s.removeImage(ctx, room.Image)
	}

	room.Image = url
	room.ModifiedAt = now
	room.ModifiedBy = tenantID

	s.invalidate(ctx, tenantID)
	res.FromModel(room)

	return res, nil
}

// ReconcileAll recomputes every room of tenantID, or of all tenants when tenantID is empty,
// from the guest ledger. Each room is fixed in its own transaction; per-room failures are
// reported in the response and do not stop the run.
func (s *serviceImpl) ReconcileAll(ctx context.Context, tenantID string, dryRun bool) (res dto.ReconcileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReconcileAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if tenantID != constant.Empty {
		filter = shared.WithTenant(filter, tenantID, model.FieldTenantID, model.TableName)
	}

	params := gDto.QueryParams{SortBy: model.TableName + "." + model.FieldID, SortDir: gDto.SortDirAsc}

	rooms, err := s.repo.GetAll(ctx, params, filter, model.FieldID, model.FieldTenantID, model.FieldNumber)
	if err != nil {
		log.Error().Err(err).Msg("failed to list rooms for reconcile")

		return res, fmt.Errorf("failed to list rooms: %w", err)
	}

	results := make([]dto.ReconcileRoomResult, len(rooms))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(max(s.cfg.Occupancy.ReconcileConcurrency, 1))

	for i, room := range rooms {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err //nolint:wrapcheck
			}

			results[i] = s.reconcileRoom(gctx, room, dryRun)

			return nil
		})
	}

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msg("reconcile interrupted")

		return res, fmt.Errorf("reconcile interrupted: %w", err)
	}

	res.DryRun = dryRun
	res.Rooms = []dto.ReconcileRoomResult{}
	touched := map[string]struct{}{}

	for _, result := range results {
		res.Add(result)

		if result.Updated {
			touched[result.TenantID] = struct{}{}
		}
	}

	for tenant := range touched {
		s.invalidate(ctx, tenant)
	}

	log.Info().
		Bool("dry_run", dryRun).
		Int("checked", res.Checked).
		Int("drifted", res.Drifted).
		Int("updated", res.Updated).
		Int("failed", res.Failed).
		Msg("rooms reconciled")

	return res, nil
}

func (s *serviceImpl) reconcileRoom(ctx context.Context, room model.Room, dryRun bool) dto.ReconcileRoomResult {
	result := dto.ReconcileRoomResult{RoomID: room.ID, TenantID: room.TenantID, Number: room.Number}

	err := s.transactor.Transaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.lock(ctx, tx, room.TenantID, room.ID)
		if err != nil {
			return err
		}

		result.Before = occupancy.StateOf(current)

		var after model.Room
		if dryRun {
			after, err = s.engine.Recompute(ctx, tx, current)
		} else {
			after, result.Updated, err = s.engine.Reconcile(ctx, tx, current)
		}

		if err != nil {
			return err
		}

		result.After = occupancy.StateOf(after)
		result.Drifted = result.Before != result.After || after.OccupiedBeds != current.OccupiedBeds

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to reconcile room")

		result.Error = err.Error()
		result.Kind = string(failure.GetKind(err))
		result.Updated = false
	}

	return result
}

// lock takes the row lock on one of the tenant's rooms.
func (s *serviceImpl) lock(ctx context.Context, tx *sqlx.Tx, tenantID, id string) (model.Room, error) {
	rooms, err := s.repo.LockTx(ctx, tx, tenantID, id)
	if err != nil {
		return model.Room{}, fmt.Errorf("failed to lock room: %w", err)
	}

	if len(rooms) == 0 {
		return model.Room{}, failure.NotFound("room not found") // nolint:wrapcheck
	}

	return rooms[0], nil
}

func (s *serviceImpl) ensureNumberFree(ctx context.Context, tenantID, number, exceptID string) error {
	filters := []any{
		gDto.Filter{Field: model.FieldNumber, Value: number, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if exceptID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldID, Value: exceptID, Operator: gDto.FilterOperatorNotEq, Table: model.TableName})
	}

	filter := shared.WithTenant(gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}, tenantID, model.FieldTenantID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check room number")

		return fmt.Errorf("failed to check room number: %w", err)
	}

	if exist {
		return failure.Conflict(fmt.Sprintf("room number %s already exists", number)) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	bucketName := s.cfg.External.S3.BucketName

	objectName := s.s3.GetObjectNameFromURL(bucketName, url)
	if objectName == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(ctx, bucketName, model.EntityName, objectName); err != nil {
		log.Error().Err(err).Str("object", objectName).Msg("failed to remove room image")
	}
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to save room cache")
	}
}

// invalidate drops every cached room read of the tenant.
func (s *serviceImpl) invalidate(ctx context.Context, tenantID string) {
	shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(model.CachePrefix, tenantID, constant.Empty))
}
