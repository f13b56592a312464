package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodging/infras/otel"
	"lodging/infras/postgres"
	"lodging/internal/domains/guest/model"
	"lodging/internal/domains/occupancy"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	gRepo "lodging/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Guest interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, guest model.Guest) error
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, lock gRepo.LockMode, columns ...string) (model.Guest, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	CountTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int, error)
	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.GuestDetail, error)
	GetDetailTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.GuestDetail, error)
	GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.GuestDetail, error)
	CountDetail(ctx context.Context, filter gDto.FilterGroup) (int, error)
	ActiveClaimsTx(ctx context.Context, tx *sqlx.Tx, tenantID, roomID, excludeGuestID string) ([]occupancy.Claim, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Guest]
	detail gRepo.Repository[model.GuestDetail]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Guest {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Guest](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.GuestDetail](model.EntityName+"_detail", model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.GuestDetail, error) {
	return r.detail.Get(ctx, filter)
}

func (r *repositoryImpl) GetDetailTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (model.GuestDetail, error) {
	return r.detail.GetTx(ctx, sqltx, filter, gRepo.LockNone)
}

func (r *repositoryImpl) GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.GuestDetail, error) {
	return r.detail.GetAll(ctx, params, filter)
}

func (r *repositoryImpl) CountDetail(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return r.detail.Count(ctx, filter)
}

// ActiveClaimsTx lists the claims of the room's active guests, leaving out excludeGuestID.
func (r *repositoryImpl) ActiveClaimsTx(ctx context.Context, tx *sqlx.Tx, tenantID, roomID, excludeGuestID string) (res []occupancy.Claim, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".guest.ActiveClaimsTx")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filters := []any{
		gDto.Filter{Field: model.FieldTenantID, Value: tenantID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldCheckedOut, Value: false, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if excludeGuestID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldID, Value: excludeGuestID, Operator: gDto.FilterOperatorNotEq, Table: model.TableName})
	}

	params := gDto.QueryParams{
		SortBy:  fmt.Sprintf("%s.%s", model.TableName, model.FieldID),
		SortDir: gDto.SortDirAsc,
	}

	guests, err := r.GetAllTx(ctx, tx, params, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}, gRepo.LockNone, model.FieldID, model.FieldAgentID)
	if err != nil {
		return nil, err
	}

	res = make([]occupancy.Claim, len(guests))
	for i, guest := range guests {
		res[i] = occupancy.Claim{GuestID: guest.ID, AgentID: guest.Agent()}
	}

	return res, nil
}
