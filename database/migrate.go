package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // postgres driver for the migration connection
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/danielk69/AWIL/config"
	"github.com/danielk69/AWIL/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate brings the schema up to date. Postgres runs the versioned SQL
// migrations; SQLite, used for local development and tests, is migrated
// from the model definitions.
func Migrate(cfg config.DatabaseConfig, db *gorm.DB, logger *zap.Logger) error {
	switch cfg.Driver {
	case config.DriverPostgres:
		sqlDB, err := sql.Open("postgres", cfg.DSN())
		if err != nil {
			return fmt.Errorf("failed to open migration connection: %w", err)
		}
		defer sqlDB.Close()
		return RunMigrations(sqlDB, logger)
	case config.DriverSQLite:
		return AutoMigrate(db)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// RunMigrations executes pending postgres migrations. It is idempotent;
// only pending migrations are applied.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("Failed to close migration source", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("Failed to close migration database", zap.Error(dbErr))
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No migrations to apply (database up-to-date)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("Applied migrations successfully", zap.Uint("version", version))
	return nil
}

// AutoMigrate creates or updates tables from the model definitions.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Theme{},
		&models.Subtheme{},
		&models.Category{},
		&models.Name{},
		&models.NameCategory{},
		&models.Admin{},
	)
}
