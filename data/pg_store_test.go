package data

import (
	"context"
	"testing"

	"github.com/Loop-Hive/ScheduleX/data/testdb"
	log "github.com/sirupsen/logrus"
)

func TestPgStore(t *testing.T) {
	if testdb.ConnString() == "" {
		t.Skip("TEST_DB_CONN is not set")
	}
	if err := testdb.SetupTestDb(); err != nil {
		t.Fatalf("could not reset test database: %v", err)
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, testdb.ConnString())
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	logger := log.WithField("test", t.Name())
	if err := MigrateUp(testdb.ConnString(), logger); err != nil {
		t.Fatalf("migrating an up to date database should not fail: %v", err)
	}
	exerciseStore(t, ctx, NewPgStore(pool, logger))
}
