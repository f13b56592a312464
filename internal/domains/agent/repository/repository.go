package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"lodging/infras/otel"
	"lodging/infras/postgres"
	"lodging/internal/domains/agent/model"
	"lodging/shared"
	"lodging/shared/constant"
	gDto "lodging/shared/dto"
	gRepo "lodging/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Agent interface {
	Insert(ctx context.Context, agent model.Agent) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Agent, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Agent, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, lock gRepo.LockMode, columns ...string) (model.Agent, error)
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	HoldTx(ctx context.Context, tx *sqlx.Tx, tenantID, agentID string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Agent]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Agent {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Agent](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// HoldTx share-locks the tenant's agent so it cannot be deleted before tx ends.
func (r *repositoryImpl) HoldTx(ctx context.Context, tx *sqlx.Tx, tenantID, agentID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".agent.HoldTx")
	defer scope.End()

	agent, err := r.GetTx(ctx, tx, shared.FilterByTenant(tenantID, model.FieldTenantID, agentID, model.FieldID, model.TableName), gRepo.LockForShare, model.FieldID)
	if err != nil {
		scope.TraceError(err)

		return false, err
	}

	return agent.ID != constant.Empty, nil
}
