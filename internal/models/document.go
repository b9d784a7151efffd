package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Document is a JSON document stored under a collection path.
type Document struct {
	Collection string         `db:"collection" json:"collection"`
	ID         string         `db:"id" json:"id"`
	Data       types.JSONText `db:"data" json:"data"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// ChangeEvent announces that a collection was written.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	DocumentID string    `json:"documentId"`
	Op         string    `json:"op"`
	At         time.Time `json:"at"`
}

// Change operations.
const (
	ChangeOpPut    = "put"
	ChangeOpCreate = "create"
	ChangeOpDelete = "delete"
)
