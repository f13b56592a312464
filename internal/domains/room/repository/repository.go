package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodging/infras/otel"
	"lodging/infras/postgres"
	"lodging/internal/domains/room/model"
	"lodging/shared"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	gRepo "lodging/shared/repository"
	"lodging/shared/timezone"

	"github.com/jmoiron/sqlx"
)

type Room interface {
	Insert(ctx context.Context, room model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	LockTx(ctx context.Context, tx *sqlx.Tx, tenantID string, ids ...string) ([]model.Room, error)
	UpdateOccupancyTx(ctx context.Context, tx *sqlx.Tx, room model.Room) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockTx locks the tenant's rooms among ids. Rows come back, and are locked, in ascending id order.
func (r *repositoryImpl) LockTx(ctx context.Context, tx *sqlx.Tx, tenantID string, ids ...string) (res []model.Room, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.LockTx")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if len(ids) == 0 {
		return res, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: ids, Operator: gDto.FilterOperatorIn, Table: model.TableName},
			gDto.Filter{Field: model.FieldTenantID, Value: tenantID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
	params := gDto.QueryParams{
		SortBy:  fmt.Sprintf("%s.%s", model.TableName, model.FieldID),
		SortDir: gDto.SortDirAsc,
	}

	return r.GetAllTx(ctx, tx, params, filter, gRepo.LockForUpdate)
}

func (r *repositoryImpl) UpdateOccupancyTx(ctx context.Context, tx *sqlx.Tx, room model.Room) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.UpdateOccupancyTx")
	defer scope.End()

	fields := map[string]any{
		model.FieldOccupiedBeds:    room.OccupiedBeds,
		model.FieldAssignedAgentID: room.AssignedAgentID,
		constant.FieldModifiedAt:   timezone.Now(),
	}

	return r.UpdateTx(ctx, tx, fields, shared.FilterByTenant(room.TenantID, model.FieldTenantID, room.ID, model.FieldID, model.TableName))
}
