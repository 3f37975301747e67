package models

import (
	"database/sql"
	"time"
)

// GeneratedArtifact is a row of generated_artifacts.
type GeneratedArtifact struct {
	ID        string         `db:"id"`
	Kind      string         `db:"kind"`
	ParentID  sql.NullString `db:"parent_id"`
	Payload   string         `db:"payload"`
	CreatedAt time.Time      `db:"created_at"`
}
