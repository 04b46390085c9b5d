package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	catalogdomain "github.com/smallbiznis/taxengine/internal/catalog/domain"
	jurisdictiondomain "github.com/smallbiznis/taxengine/internal/jurisdiction/domain"
	journaldomain "github.com/smallbiznis/taxengine/internal/taxjournal/domain"
	"github.com/smallbiznis/taxengine/pkg/db"
	"gorm.io/gorm"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// RunMigrations applies the embedded postgres migrations to db.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// Models lists every persisted model, in dependency order.
func Models() []any {
	return []any{
		&catalogdomain.SkuRecord{},
		&jurisdictiondomain.TaxJurisdiction{},
		&jurisdictiondomain.TaxCategory{},
		&jurisdictiondomain.TaxRegion{},
		&jurisdictiondomain.TaxValue{},
		&journaldomain.TaxJournalRecord{},
	}
}

// Migrate runs the SQL migrations on postgres and gorm AutoMigrate elsewhere.
func Migrate(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if dbType != db.TypePostgres {
		if err := conn.AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}
