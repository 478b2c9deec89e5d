package testdb

import (
	"errors"

	"github.com/Loop-Hive/ScheduleX/config"
	"github.com/Loop-Hive/ScheduleX/data/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ConnString is the database tests may wipe, empty when none is configured
func ConnString() string {
	cfg, err := config.Load()
	if err != nil {
		return ""
	}
	return cfg.TestDBConn
}

// SetupTestDb tears every migration down and applies them again on the
// database named by TEST_DB_CONN
func SetupTestDb() error {
	testDb := ConnString()
	if testDb == "" {
		return errors.New("TEST_DB_CONN is not set")
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, testDb)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return m.Up()
}
