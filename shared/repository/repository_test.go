package repository_test

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"lodging/config"
	"lodging/infras/otel/mocks"
	"lodging/infras/postgres"
	"lodging/shared"
	"lodging/shared/dto"
	"lodging/shared/failure"
	"lodging/shared/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID       string `db:"id"`
	TenantID string `db:"tenant_id"`
	Name     string `db:"name"`
}

func setupMockDB(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	sqlxDB := sqlx.NewDb(db, "postgres")

	return &postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mock
}

func newWidgetRepo(conn *postgres.Connection) repository.Repository[widget] {
	return repository.NewRepository[widget]("widget", "widgets", "id", conn, mocks.NewOtel())
}

func TestRepository_Get(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := newWidgetRepo(conn)

	mock.ExpectPrepare(`SELECT widgets.id, widgets.tenant_id, widgets.name FROM widgets\s+WHERE \(widgets.id = \$1 AND widgets.tenant_id = \$2\)`).
		ExpectQuery().
		WithArgs("w1", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).AddRow("w1", "t1", "first"))

	got, err := repo.Get(context.Background(), shared.FilterByTenant("t1", "tenant_id", "w1", "id", "widgets"))

	require.NoError(t, err)
	assert.Equal(t, widget{ID: "w1", TenantID: "t1", Name: "first"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get_NotFoundReturnsZero(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := newWidgetRepo(conn)

	mock.ExpectPrepare(`SELECT .* FROM widgets\s+WHERE \(widgets.id = \$1\)`).
		ExpectQuery().
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

	got, err := repo.Get(context.Background(), shared.FilterByID("missing", "id", "widgets"))

	require.NoError(t, err)
	assert.Empty(t, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetAllTx_LocksInOrder(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := newWidgetRepo(conn)

	mock.ExpectBegin()
	mock.ExpectPrepare(`SELECT .* FROM widgets\s+WHERE \(widgets.id IN \(\$1, \$2\)\)\s+ORDER BY widgets.id ASC\s+FOR UPDATE OF widgets`).
		ExpectQuery().
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).
			AddRow("a", "t1", "first").
			AddRow("b", "t1", "second"))
	mock.ExpectCommit()

	tx, err := conn.Write.Beginx()
	require.NoError(t, err)

	filter := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Value: []string{"a", "b"}, Operator: dto.FilterOperatorIn, Table: "widgets"},
		},
	}
	params := dto.QueryParams{SortBy: "widgets.id", SortDir: dto.SortDirAsc}

	got, err := repo.GetAllTx(context.Background(), tx, params, filter, repository.LockForUpdate)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetTx_ForShare(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := newWidgetRepo(conn)

	mock.ExpectBegin()
	mock.ExpectPrepare(`SELECT .* FROM widgets\s+WHERE \(widgets.id = \$1\)\s+FOR SHARE OF widgets`).
		ExpectQuery().
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}).AddRow("w1", "t1", "first"))
	mock.ExpectRollback()

	tx, err := conn.Write.Beginx()
	require.NoError(t, err)

	got, err := repo.GetTx(context.Background(), tx, shared.FilterByID("w1", "id", "widgets"), repository.LockForShare)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	assert.Equal(t, "w1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Count(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := newWidgetRepo(conn)

	mock.ExpectPrepare(`SELECT COUNT\(widgets.id\) FROM widgets\s+WHERE \(widgets.tenant_id = \$1\)`).
		ExpectQuery().
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	filter := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "tenant_id", Value: "t1", Operator: dto.FilterOperatorEq, Table: "widgets"},
		},
	}

	count, err := repo.Count(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert_UniqueViolationIsConflict(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := newWidgetRepo(conn)

	mock.ExpectExec(`INSERT INTO widgets \(id, tenant_id, name\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs("w1", "t1", "first").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Insert(context.Background(), widget{ID: "w1", TenantID: "t1", Name: "first"})

	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Exist_RequiresFilter(t *testing.T) {
	conn, _ := setupMockDB(t)
	repo := newWidgetRepo(conn)

	_, err := repo.Exist(context.Background(), dto.FilterGroup{})

	assert.Error(t, err)
}

func TestRepository_GetAll_Paginates(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := newWidgetRepo(conn)

	mock.ExpectPrepare(`SELECT widgets.id, widgets.name FROM widgets WHERE \(widgets.tenant_id = \$1\) ORDER BY widgets.name DESC LIMIT \$2 OFFSET \$3$`).
		ExpectQuery().
		WithArgs("t1", 10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("w3", "third"))

	filter := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "tenant_id", Value: "t1", Operator: dto.FilterOperatorEq, Table: "widgets"},
		},
	}
	params := dto.QueryParams{Page: 3, Limit: 10, SortBy: "widgets.name", SortDir: dto.SortDirDesc}

	got, err := repo.GetAll(context.Background(), params, filter, "id", "name")

	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: "w3", Name: "third"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := newWidgetRepo(conn)

	mock.ExpectExec(`UPDATE widgets SET name = \$1, tenant_id = \$2 WHERE \(widgets.id = \$3\)`).
		WithArgs("renamed", "t2", "w1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), map[string]any{"tenant_id": "t2", "name": "renamed"}, shared.FilterByID("w1", "id", "widgets"))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	err = repo.Update(context.Background(), map[string]any{"name": "everything"}, dto.FilterGroup{})
	assert.Error(t, err)
}

func TestRepository_DeleteTx(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := newWidgetRepo(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM widgets WHERE \(widgets.id = \$1\)`).
		WithArgs("w1").
		WillReturnError(&pq.Error{Code: "08006"})
	mock.ExpectRollback()

	tx, err := conn.Write.Beginx()
	require.NoError(t, err)

	err = repo.DeleteTx(context.Background(), tx, shared.FilterByID("w1", "id", "widgets"))
	require.NoError(t, tx.Rollback())

	assert.True(t, failure.Is(err, failure.KindStorageUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind failure.Kind
	}{
		{name: "unique violation", err: &pq.Error{Code: "23505"}, kind: failure.KindConflict},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, kind: failure.KindConflict},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, kind: failure.KindConflict},
		{name: "lock timeout", err: &pq.Error{Code: "55P03"}, kind: failure.KindConflict},
		{name: "malformed uuid", err: &pq.Error{Code: "22P02"}, kind: failure.KindInvalidInput},
		{name: "connection failure", err: &pq.Error{Code: "08006"}, kind: failure.KindStorageUnavailable},
		{name: "connection refused", err: syscall.ECONNREFUSED, kind: failure.KindStorageUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, kind: failure.KindStorageUnavailable},
		{name: "business failure passes through", err: failure.RoomFull("full"), kind: failure.KindRoomFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.Classify(tt.err)

			assert.Equal(t, tt.kind, failure.GetKind(got))
			assert.True(t, errors.Is(got, tt.err))
		})
	}

	plain := errors.New("syntax error")
	assert.Equal(t, plain, repository.Classify(plain))
	assert.Nil(t, repository.Classify(nil))
}

func TestTransactor(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		conn, mock := setupMockDB(t)
		cfg := &config.Config{}
		cfg.Occupancy.LockTimeoutMs = 250

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout = '250ms'`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repository.NewTransactor(conn, mocks.NewOtel(), cfg).Transaction(context.Background(), func(_ context.Context, tx *sqlx.Tx) error {
			assert.NotNil(t, tx)

			return nil
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback keeps the callback error", func(t *testing.T) {
		conn, mock := setupMockDB(t)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := repository.NewTransactor(conn, mocks.NewOtel(), &config.Config{}).Transaction(context.Background(), func(_ context.Context, _ *sqlx.Tx) error {
			return failure.RoomFull("room is full")
		})

		assert.True(t, failure.Is(err, failure.KindRoomFull))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
