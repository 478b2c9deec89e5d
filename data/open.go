package data

import (
	"context"

	"github.com/Loop-Hive/ScheduleX/config"
	log "github.com/sirupsen/logrus"
)

// OpenStore picks postgres when DB_CONN is set and the json file otherwise.
// closeStore releases whatever the store holds.
func OpenStore(ctx context.Context, cfg config.Config, logger *log.Entry) (store Store, closeStore func(), err error) {
	if cfg.DBConn == "" {
		logger.WithField("path", cfg.StorePath).Debug("Using file store")
		return NewFileStore(cfg.StorePath, logger), func() {}, nil
	}

	pool, err := NewPool(ctx, cfg.DBConn)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Using postgres store")
	return NewPgStore(pool, logger), pool.Close, nil
}
