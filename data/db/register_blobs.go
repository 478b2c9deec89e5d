package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listRegisterBlobs = `
SELECT name, id, payload, updated_at
FROM register_blobs
ORDER BY name
`

func (q *Queries) ListRegisterBlobs(ctx context.Context) ([]RegisterBlob, error) {
	rows, err := q.db.Query(ctx, listRegisterBlobs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RegisterBlob
	for rows.Next() {
		var i RegisterBlob
		if err := rows.Scan(
			&i.Name,
			&i.ID,
			&i.Payload,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRegisterBlob = `
SELECT name, id, payload, updated_at
FROM register_blobs
WHERE name = $1
`

func (q *Queries) GetRegisterBlob(ctx context.Context, name string) (RegisterBlob, error) {
	row := q.db.QueryRow(ctx, getRegisterBlob, name)
	var i RegisterBlob
	err := row.Scan(
		&i.Name,
		&i.ID,
		&i.Payload,
		&i.UpdatedAt,
	)
	return i, err
}

// the row stays locked until the surrounding transaction ends
const getRegisterBlobForUpdate = `
SELECT name, id, payload, updated_at
FROM register_blobs
WHERE name = $1
FOR UPDATE
`

func (q *Queries) GetRegisterBlobForUpdate(ctx context.Context, name string) (RegisterBlob, error) {
	row := q.db.QueryRow(ctx, getRegisterBlobForUpdate, name)
	var i RegisterBlob
	err := row.Scan(
		&i.Name,
		&i.ID,
		&i.Payload,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertRegisterBlob = `
INSERT INTO register_blobs (name, id, payload, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (name) DO UPDATE
SET id = EXCLUDED.id,
    payload = EXCLUDED.payload,
    updated_at = EXCLUDED.updated_at
`

type UpsertRegisterBlobParams struct {
	Name    string      `json:"name"`
	ID      pgtype.UUID `json:"id"`
	Payload []byte      `json:"payload"`
}

func (q *Queries) UpsertRegisterBlob(ctx context.Context, arg UpsertRegisterBlobParams) error {
	_, err := q.db.Exec(ctx, upsertRegisterBlob, arg.Name, arg.ID, arg.Payload)
	return err
}

const deleteRegisterBlob = `
DELETE FROM register_blobs
WHERE name = $1
`

func (q *Queries) DeleteRegisterBlob(ctx context.Context, name string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteRegisterBlob, name)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
