package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/absmach/quadra/pkg/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
)

var (
	ErrDBConnection = errors.New("database connection error")
	ErrDBQuery      = errors.New("database query error")
	ErrMigration    = errors.New("database migration error")
)

const (
	sqliteDriver   = "sqlite3"
	postgresDriver = "pgx"
)

type sqlStorage[T any] struct {
	db    *sqlx.DB
	table string
}

// NewSQLiteStorage stores values as JSON in table of the SQLite database at
// path.
func NewSQLiteStorage[T any](path, table string) (Storage[T], error) {
	return newSQLStorage[T](sqliteDriver, "sqlite3", path, table)
}

// NewPostgresStorage stores values as JSON in table of the database behind
// dsn.
func NewPostgresStorage[T any](dsn, table string) (Storage[T], error) {
	return newSQLStorage[T](postgresDriver, "postgres", dsn, table)
}

func newSQLStorage[T any](driver, dialect, dsn, table string) (Storage[T], error) {
	if !validTable(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", pkgerrors.ErrMalformedEntity, table)
	}
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := migrateTable(db, dialect, table); err != nil {
		db.Close()

		return nil, err
	}

	return &sqlStorage[T]{db: db, table: table}, nil
}

func migrateTable(db *sqlx.DB, dialect, table string) error {
	migrations := &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "1_create_" + table,
				Up: []string{
					fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
						id         TEXT PRIMARY KEY,
						value      TEXT NOT NULL,
						created_at TIMESTAMP NOT NULL,
						updated_at TIMESTAMP NOT NULL
					)`, table),
				},
				Down: []string{
					fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table),
				},
			},
		},
	}

	ms := migrate.MigrationSet{TableName: "migrations_" + table}
	if _, err := ms.Exec(db.DB, dialect, migrations, migrate.Up); err != nil {
		return fmt.Errorf("%w: %w", ErrMigration, err)
	}

	return nil
}

func (s *sqlStorage[T]) Create(ctx context.Context, key string, value T) error {
	if key == "" {
		return pkgerrors.ErrEmptyKey
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrMalformedEntity, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.GetContext(ctx, &exists, s.query(`SELECT COUNT(*) FROM %s WHERE id = ?`), key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	if exists > 0 {
		return pkgerrors.ErrEntityExists
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, s.query(`INSERT INTO %s (id, value, created_at, updated_at) VALUES (?, ?, ?, ?)`), key, string(data), now, now); err != nil {
		return fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return tx.Commit()
}

func (s *sqlStorage[T]) Get(ctx context.Context, key string) (T, error) {
	var result T
	if key == "" {
		return result, pkgerrors.ErrEmptyKey
	}

	var data string
	if err := s.db.GetContext(ctx, &data, s.query(`SELECT value FROM %s WHERE id = ?`), key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, pkgerrors.ErrNotFound
		}

		return result, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return result, fmt.Errorf("%w: %w", pkgerrors.ErrMalformedEntity, err)
	}

	return result, nil
}

func (s *sqlStorage[T]) Update(ctx context.Context, key string, value T) error {
	if key == "" {
		return pkgerrors.ErrEmptyKey
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %w", pkgerrors.ErrMalformedEntity, err)
	}

	res, err := s.db.ExecContext(ctx, s.query(`UPDATE %s SET value = ?, updated_at = ? WHERE id = ?`), string(data), time.Now().UTC(), key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return requireRow(res)
}

func (s *sqlStorage[T]) List(ctx context.Context, offset, limit uint64) ([]T, uint64, error) {
	var total uint64
	if err := s.db.GetContext(ctx, &total, s.query(`SELECT COUNT(*) FROM %s`)); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	var rows []string
	if err := s.db.SelectContext(ctx, &rows, s.query(`SELECT value FROM %s ORDER BY id LIMIT ? OFFSET ?`), limit, offset); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	result := make([]T, len(rows))
	for i, data := range rows {
		if err := json.Unmarshal([]byte(data), &result[i]); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", pkgerrors.ErrMalformedEntity, err)
		}
	}

	return result, total, nil
}

func (s *sqlStorage[T]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return pkgerrors.ErrEmptyKey
	}

	res, err := s.db.ExecContext(ctx, s.query(`DELETE FROM %s WHERE id = ?`), key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return requireRow(res)
}

func (s *sqlStorage[T]) Close() error {
	return s.db.Close()
}

// query fills in the table name and rewrites ? placeholders for the driver.
func (s *sqlStorage[T]) query(format string) string {
	return s.db.Rebind(fmt.Sprintf(format, s.table))
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDBQuery, err)
	}
	if n == 0 {
		return pkgerrors.ErrNotFound
	}

	return nil
}

func validTable(name string) bool {
	if name == "" {
		return false
	}

	return strings.IndexFunc(name, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_'
	}) < 0
}
