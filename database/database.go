package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB wraps the connection pool with the placeholder style of its driver.
type DB struct {
	*sql.DB
	Driver string

	psql sq.StatementBuilderType
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InitDB opens the database for the given driver, applies connection settings
// and creates the schema if it does not exist yet.
func InitDB(driver, dataSourceName string) (*DB, error) {
	var dsn string
	var placeholder sq.PlaceholderFormat

	switch driver {
	case DriverSQLite, "sqlite", "":
		driver = DriverSQLite
		dsn = sqliteDSN(dataSourceName)
		placeholder = sq.Question
	case DriverPostgres, "postgresql":
		driver = DriverPostgres
		dsn = dataSourceName
		placeholder = sq.Dollar
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite allows a single writer; one connection keeps transactions from hitting SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		DB:     sqlDB,
		Driver: driver,
		psql:   sq.StatementBuilder.PlaceholderFormat(placeholder),
	}

	if err := db.createSchema(context.Background()); err != nil {
		sqlDB.Close()
		return nil, err
	}

	zap.L().Info("database initialized", zap.String("driver", driver))
	return db, nil
}

// sqliteDSN turns a plain file path into a DSN with foreign keys and WAL enabled.
// DSNs that already carry query parameters are left alone.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + "?" + params.Encode()
}

// Builder returns the statement builder matching the driver's placeholder style.
func (db *DB) Builder() sq.StatementBuilderType {
	return db.psql
}

// withTx runs fn in a transaction, committing only when fn returns nil.
func (db *DB) withTx(ctx context.Context, readOnly bool, fn func(q querier) error) error {
	var opts *sql.TxOptions
	if readOnly && db.Driver == DriverPostgres {
		opts = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// queryIDs runs a single-column integer query, used for the child id lists.
func queryIDs(ctx context.Context, q querier, builder sq.SelectBuilder) ([]int64, error) {
	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build id query: %w", err)
	}
	rows, err := q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute id query: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return ids, fmt.Errorf("error iterating id rows: %w", err)
	}
	return ids, nil
}
