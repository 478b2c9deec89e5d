package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Loop-Hive/ScheduleX/data/db"
	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// PgStore keeps one jsonb row per register
type PgStore struct {
	pool   *pgxpool.Pool
	logger *log.Entry
}

func NewPgStore(pool *pgxpool.Pool, logger *log.Entry) *PgStore {
	return &PgStore{
		pool:   pool,
		logger: logger.WithField("store", "postgres"),
	}
}

func decodeBlob(blob db.RegisterBlob) (schedule.Register, error) {
	var register schedule.Register
	if err := json.Unmarshal(blob.Payload, &register); err != nil {
		return register, fmt.Errorf("register %s has a corrupt payload: %w", blob.Name, err)
	}
	register.Name = blob.Name
	if blob.ID.Valid {
		register.ID = uuid.UUID(blob.ID.Bytes).String()
	}
	return register, nil
}

func encodeBlob(register schedule.Register) (db.UpsertRegisterBlobParams, error) {
	id, err := uuid.Parse(register.ID)
	if err != nil {
		return db.UpsertRegisterBlobParams{}, fmt.Errorf("register %s has an invalid id: %w", register.Name, err)
	}
	payload, err := json.Marshal(register)
	if err != nil {
		return db.UpsertRegisterBlobParams{}, err
	}
	return db.UpsertRegisterBlobParams{
		Name:    register.Name,
		ID:      pgtype.UUID{Bytes: id, Valid: true},
		Payload: payload,
	}, nil
}

func notFound(err error, name string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrRegisterNotFound, name)
	}
	return err
}

func (s *PgStore) ListRegisters(ctx context.Context) ([]schedule.Register, error) {
	q := db.New(s.pool)
	blobs, err := q.ListRegisterBlobs(ctx)
	if err != nil {
		return nil, err
	}
	registers := make([]schedule.Register, 0, len(blobs))
	var errs []error
	for _, blob := range blobs {
		register, err := decodeBlob(blob)
		if err != nil {
			s.logger.Warn(err)
			errs = append(errs, err)
			continue
		}
		registers = append(registers, register)
	}
	return registers, errors.Join(errs...)
}

func (s *PgStore) GetRegister(ctx context.Context, name string) (schedule.Register, error) {
	name = NormalizeName(name)
	q := db.New(s.pool)
	blob, err := q.GetRegisterBlob(ctx, name)
	if err != nil {
		return schedule.Register{}, notFound(err, name)
	}
	return decodeBlob(blob)
}

func (s *PgStore) SaveRegister(ctx context.Context, register schedule.Register) (schedule.Register, error) {
	register, err := prepare(register)
	if err != nil {
		return register, err
	}
	params, err := encodeBlob(register)
	if err != nil {
		return register, err
	}
	q := db.New(s.pool)
	if err := q.UpsertRegisterBlob(ctx, params); err != nil {
		return register, err
	}
	s.logger.WithField("register", register.Name).Trace("saved register")
	return register, nil
}

func (s *PgStore) UpdateRegister(
	ctx context.Context,
	name string,
	fn func(*schedule.Register) error,
) (schedule.Register, error) {
	name = NormalizeName(name)
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return schedule.Register{}, err
	}
	// a no-op once committed
	defer tx.Rollback(ctx)

	q := db.New(s.pool).WithTx(tx)
	blob, err := q.GetRegisterBlobForUpdate(ctx, name)
	if err != nil {
		return schedule.Register{}, notFound(err, name)
	}
	register, err := decodeBlob(blob)
	if err != nil {
		return register, err
	}
	if err := fn(&register); err != nil {
		return schedule.Register{}, err
	}
	register.Name = name
	register, err = prepare(register)
	if err != nil {
		return register, err
	}
	params, err := encodeBlob(register)
	if err != nil {
		return register, err
	}
	if err := q.UpsertRegisterBlob(ctx, params); err != nil {
		return register, err
	}
	return register, tx.Commit(ctx)
}

func (s *PgStore) DeleteRegister(ctx context.Context, name string) error {
	name = NormalizeName(name)
	q := db.New(s.pool)
	deleted, err := q.DeleteRegisterBlob(ctx, name)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrRegisterNotFound, name)
	}
	return nil
}
