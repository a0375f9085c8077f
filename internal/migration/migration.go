package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/smallbiznis/housing/pkg/db"
)

//go:embed migrations
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// RunMigrations applies every pending migration for the given driver.
func RunMigrations(sqlDB *sql.DB, driver db.Driver) error {
	migrator, err := newMigrator(sqlDB, driver)
	if err != nil {
		return err
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// Rollback reverts the given number of migrations.
func Rollback(sqlDB *sql.DB, driver db.Driver, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}

	migrator, err := newMigrator(sqlDB, driver)
	if err != nil {
		return err
	}

	if err := migrator.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	return nil
}

// Version reports the applied schema version. A database with no migrations
// applied reports version 0.
func Version(sqlDB *sql.DB, driver db.Driver) (uint, bool, error) {
	migrator, err := newMigrator(sqlDB, driver)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

func newMigrator(sqlDB *sql.DB, driver db.Driver) (*migrate.Migrate, error) {
	if sqlDB == nil {
		return nil, errors.New("migration database handle is required")
	}

	src, err := sourceFor(driver)
	if err != nil {
		return nil, err
	}

	instance, err := instanceFor(sqlDB, driver)
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, string(driver), instance)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return migrator, nil
}

func sourceFor(driver db.Driver) (source.Driver, error) {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir+"/"+string(driver))
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	return src, nil
}

func instanceFor(sqlDB *sql.DB, driver db.Driver) (database.Driver, error) {
	switch driver {
	case db.Postgres:
		return postgres.WithInstance(sqlDB, &postgres.Config{})
	case db.MySQL:
		return migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	case db.SQLite:
		return sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("no migration driver for %q", driver)
	}
}
