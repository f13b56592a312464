package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"lodging/infras/otel"
	"lodging/infras/postgres"
	"lodging/shared/constant"
	"lodging/shared/dto"
	"lodging/shared/logger"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type queryer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// joiner is implemented by read models that span several tables.
type joiner interface {
	GetJoinQuery() string
}

// LockMode is the row-locking clause appended to a SELECT run inside a transaction.
type LockMode int

const (
	LockNone LockMode = iota
	LockForUpdate
	LockForShare
)

func (mode LockMode) clause(table string) string {
	switch mode {
	case LockForUpdate:
		return "FOR UPDATE OF " + table
	case LockForShare:
		return "FOR SHARE OF " + table
	default:
		return ""
	}
}

// column is one selected expression. table is empty for computed columns and
// alias is set when the struct's db tag differs from the source column.
type column struct {
	name  string
	table string
	alias string
}

func (c column) expr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return c.table + "." + c.name + " AS " + c.alias
	default:
		return c.table + "." + c.name
	}
}

// Repository implements the common CRUD statements for the model T, whose
// fields map to columns through db, column and table struct tags. Every read
// that finds no row returns the zero T.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := ""
	if j, ok := any(zero).(joiner); ok {
		join = j.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		constant.OtelRepositoryScopeName+"."+repo.entity+"."+operation)
}

// fail records err on scope and wraps it with its failure kind.
func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, Classify(err))
}

// statement joins the non-empty clauses of a query.
func statement(clauses ...string) string {
	return strings.Join(slices.DeleteFunc(clauses, func(clause string) bool { return clause == "" }), " ")
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, "Insert", repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, "InsertTx", sqltx, model)
}

func (repo *Repository[T]) insert(ctx context.Context, operation string, exec execer, model T) error {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

// Exist reports whether any row matches filter. An empty filter is rejected.
func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(%s)", statement("SELECT 1 FROM", repo.table, repo.join, where))

	var exist bool
	if err := repo.getOne(ctx, scope, repo.db.Read, query, &exist, args); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, "Get", repo.db.Read, filter, LockNone, columns...)
}

// GetTx reads a single row inside sqltx, optionally locking it.
func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, lock LockMode, columns ...string) (T, error) {
	return repo.get(ctx, "GetTx", sqltx, filter, lock, columns...)
}

func (repo *Repository[T]) get(ctx context.Context, operation string, q queryer, filter dto.FilterGroup, lock LockMode, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	query := statement("SELECT", repo.selectList(columns...), "FROM", repo.table, repo.join, where, lock.clause(repo.table))

	var model T

	err := repo.getOne(ctx, scope, q, query, &model, args)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T

		return zero, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, "GetAll", repo.db.Read, params, filter, LockNone, columns...)
}

// GetAllTx reads rows inside sqltx. With a lock mode set, rows are locked in the order given by params.
func (repo *Repository[T]) GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params dto.QueryParams, filter dto.FilterGroup, lock LockMode, columns ...string) ([]T, error) {
	return repo.getAll(ctx, "GetAllTx", sqltx, params, filter, lock, columns...)
}

func (repo *Repository[T]) getAll(ctx context.Context, operation string, q queryer, params dto.QueryParams, filter dto.FilterGroup, lock LockMode, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	var ordering, pagination string

	if params.SortBy != "" && params.SortDir != "" {
		ordering = "ORDER BY " + params.SortBy + " " + params.SortDir
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			pagination += " OFFSET :offset"
		}
	}

	query := statement("SELECT", repo.selectList(columns...), "FROM", repo.table, repo.join, where, ordering, pagination, lock.clause(repo.table))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepared, err := q.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, repo.fail(scope, "prepare statement", err)
	}
	defer prepared.Close()

	var models []T
	if err = prepared.SelectContext(ctx, &models, args); err != nil {
		return nil, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	return repo.count(ctx, "Count", repo.db.Read, filter)
}

func (repo *Repository[T]) CountTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (int, error) {
	return repo.count(ctx, "CountTx", sqltx, filter)
}

func (repo *Repository[T]) count(ctx context.Context, operation string, q queryer, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	query := statement(fmt.Sprintf("SELECT COUNT(%s.%s) FROM", repo.table, repo.primaryColumn), repo.table, repo.join, where)

	var count int
	if err := repo.getOne(ctx, scope, q, query, &count, args); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

// getOne prepares query on q and scans its single row into dest.
func (repo *Repository[T]) getOne(ctx context.Context, scope otel.Scope, q queryer, query string, dest any, args map[string]any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepared, err := q.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer prepared.Close()

	return prepared.GetContext(ctx, dest, args) //nolint:wrapcheck
}

// DeleteTx removes the rows matching filter. An empty filter is rejected.
func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "DeleteTx")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return errRequiredFilter
	}

	query := statement("DELETE FROM", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := sqltx.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, "Update", repo.db.Write, mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, "UpdateTx", sqltx, mod, filter)
}

// update sets the columns in mod on the rows matching filter. Column names
// double as argument names, so they must not collide with filter arguments.
func (repo *Repository[T]) update(ctx context.Context, operation string, exec execer, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, col+" = :"+col)
	}

	query := statement("UPDATE", repo.table, "SET", strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)
	maps.Copy(args, mod)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "update data", err)
	}

	return nil
}

// selectList renders the selected columns, restricted to only when given.
func (repo *Repository[T]) selectList(only ...string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.expr())
	}

	return strings.Join(exprs, ", ")
}

// BuildWhereClause renders filter as a WHERE clause, or "" when it is empty.
func (repo *Repository[T]) BuildWhereClause(_ context.Context, filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

// getColumns walks the db tagged fields of t, descending into embedded
// structs. Only fields owned by table are insertable.
func getColumns(table string, t reflect.Type) (columns []column, insertColumns []string) {
	for field := range fields(t) {
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			cols, inserts := getColumns(table, field.Type)
			columns = append(columns, cols...)
			insertColumns = append(insertColumns, inserts...)
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" || owner == table {
			owner = table
			insertColumns = append(insertColumns, dbTag)
		}

		if source := field.Tag.Get("column"); source != "" {
			columns = append(columns, column{name: source, table: owner, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: owner})
		}
	}

	return columns, insertColumns
}

func fields(t reflect.Type) func(yield func(reflect.StructField) bool) {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			if !yield(t.Field(i)) {
				return
			}
		}
	}
}
