package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"lodging/infras/otel"
	"lodging/infras/postgres"
	"lodging/internal/domains/user/model"
	"lodging/shared"
	gDto "lodging/shared/dto"
	gRepo "lodging/shared/repository"
)

// User reads and writes tenant accounts. Emails are compared after trimming
// and lower-casing.
type User interface {
	Insert(ctx context.Context, user model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func byEmail(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    model.NormalizeEmail(email),
				Table:    model.TableName,
			},
		},
	}
}

// GetByEmail returns the zero User when no account uses email.
func (r *repositoryImpl) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.Get(ctx, byEmail(email))
}

func (r *repositoryImpl) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.Exist(ctx, byEmail(email))
}

func (r *repositoryImpl) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.Update(ctx, map[string]any{
		model.FieldLastLogin: at,
	}, shared.FilterByID(id, model.FieldID, model.TableName))
}
