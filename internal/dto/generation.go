package dto

import (
	"encoding/json"
	"time"
)

// APIVersion is reported by the health endpoint and used as the route prefix.
const APIVersion = "v2"

// HealthResponse is returned by GET /api/v2/health.
type HealthResponse struct {
	Status     string    `json:"status"`
	APIVersion string    `json:"api_version"`
	Model      string    `json:"model"`
	Timestamp  time.Time `json:"timestamp"`
}

// ArtifactResponse wraps a persisted entity; Payload is the entity JSON as generated.
type ArtifactResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	ParentID  string          `json:"parent_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}
