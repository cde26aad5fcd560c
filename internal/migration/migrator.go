// Package migration applies the SQL files under migrations/ with
// golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Migrator wraps golang-migrate operations.
type Migrator struct {
	m      *migrate.Migrate
	db     *sql.DB
	logger *zap.Logger
}

// New opens a database/sql connection for the migrate driver and loads the
// migrations found at sourceURL (e.g. "file://migrations").
func New(databaseURL, sourceURL string, logger *zap.Logger) (*Migrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return &Migrator{m: m, db: db, logger: logger}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("no migrations to apply")
			return nil
		}
		return err
	}
	m.logger.Info("migrations applied")
	return nil
}

// Down rolls back migrations. Steps <= 0 defaults to 1; all rolls everything back.
func (m *Migrator) Down(steps int, all bool) error {
	var err error
	if all {
		err = m.m.Down()
	} else {
		if steps <= 0 {
			steps = 1
		}
		err = m.m.Steps(-steps)
	}
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("no migrations to rollback")
			return nil
		}
		return err
	}

	if all {
		m.logger.Info("migrations rolled back", zap.String("mode", "all"))
	} else {
		m.logger.Info("migrations rolled back", zap.Int("steps", steps))
	}
	return nil
}

// Version reports the current schema version and whether it is dirty.
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close releases the source and the database connection.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}
