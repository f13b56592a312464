package repository

//go:generate go run go.uber.org/mock/mockgen -source=./transaction.go -destination=./mocks/transaction_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodging/config"
	"lodging/infras/otel"
	"lodging/infras/postgres"
	"lodging/shared/constant"
	"lodging/shared/logger"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Transactor runs fn inside one database transaction on the write connection.
// fn's error rolls the transaction back; a nil return commits it.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
}

type transactorImpl struct {
	db   *postgres.Connection
	otel otel.Otel
	cfg  *config.Config
}

func NewTransactor(db *postgres.Connection, otel otel.Otel, cfg *config.Config) Transactor {
	return &transactorImpl{
		db:   db,
		otel: otel,
		cfg:  cfg,
	}
}

func (t *transactorImpl) Transaction(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Transaction")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tx, err := t.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction: %w", Classify(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if timeout := t.cfg.Occupancy.LockTimeoutMs; timeout > 0 {
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout)); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("failed to set lock timeout: %w", Classify(err))
		}
	}

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction: %w", Classify(err))
	}

	return nil
}
