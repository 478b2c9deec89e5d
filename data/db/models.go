package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type RegisterBlob struct {
	Name      string             `json:"name"`
	ID        pgtype.UUID        `json:"id"`
	Payload   []byte             `json:"payload"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}
