// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/folio/internal/model"
	"github.com/alfredjeanlab/folio/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewWithDB wraps an already-open database without running migrations.
func NewWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) GetPortfolio(ctx context.Context, code string) (*model.PortfolioRecord, error) {
	return queryGetPortfolio(ctx, s.db, model.NormalizeCode(code))
}

func (s *PostgresStore) RecordView(ctx context.Context, code string) (*model.PortfolioRecord, error) {
	return queryRecordView(ctx, s.db, model.NormalizeCode(code))
}

func (s *PostgresStore) PutPortfolio(ctx context.Context, rec *model.PortfolioRecord) error {
	rec.Code = model.NormalizeCode(rec.Code)
	return queryPutPortfolio(ctx, s.db, rec)
}

func (s *PostgresStore) DeletePortfolio(ctx context.Context, code string) error {
	return queryDeletePortfolio(ctx, s.db, model.NormalizeCode(code))
}

func (s *PostgresStore) ListPortfolios(ctx context.Context) ([]*model.PortfolioRecord, error) {
	return queryListPortfolios(ctx, s.db)
}

// ImportPortfolios upserts every record in a single transaction. A failure
// on any record rolls the whole import back.
func (s *PostgresStore) ImportPortfolios(ctx context.Context, recs []*model.PortfolioRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, rec := range recs {
		rec.Code = model.NormalizeCode(rec.Code)
		if err := queryPutPortfolio(ctx, tx, rec); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("import %s: %w", rec.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
