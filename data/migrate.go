package data

import (
	"errors"
	"fmt"

	"github.com/Loop-Hive/ScheduleX/data/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

// NewMigrate builds a migrator over the embedded migrations. connString must
// be a postgres:// url.
func NewMigrate(connString string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("could not read embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, connString)
	if err != nil {
		return nil, fmt.Errorf("could not set up migrations: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending migration. Being up to date is not an error.
func MigrateUp(connString string, logger *log.Entry) error {
	m, err := NewMigrate(connString)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("Database already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not run up migrations: %w", err)
	}
	version, _, _ := m.Version()
	logger.WithField("version", version).Info("Database has been synced with any up migrations")
	return nil
}
