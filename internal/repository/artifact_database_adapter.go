package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tuteai/internal/domain"
	"tuteai/internal/repository/models"
	"tuteai/internal/util"

	"github.com/jmoiron/sqlx"
)

// ArtifactDatabaseAdapter stores finished entities in generated_artifacts.
type ArtifactDatabaseAdapter struct {
	db *sqlx.DB
	tm domain.TransactionManager
}

func NewArtifactDatabaseAdapter(db *sqlx.DB, tm domain.TransactionManager) *ArtifactDatabaseAdapter {
	return &ArtifactDatabaseAdapter{db: db, tm: tm}
}

const (
	deleteArtifactQuery = `DELETE FROM generated_artifacts WHERE id = ?`
	insertArtifactQuery = `INSERT INTO generated_artifacts (id, kind, parent_id, payload, created_at)
		VALUES (:id, :kind, :parent_id, :payload, :created_at)`
	selectArtifactQuery = `SELECT id, kind, parent_id, payload, created_at FROM generated_artifacts WHERE id = ?`
)

// Save replaces any stored artifact with the same id.
func (r *ArtifactDatabaseAdapter) Save(ctx context.Context, artifact *domain.Artifact) error {
	if artifact == nil || artifact.ID == "" {
		return domain.NewInvalidInputError("artifact id is required")
	}
	row := toModelArtifact(artifact)

	return r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.db)
		if _, err := exec.ExecContext(ctx, exec.Rebind(deleteArtifactQuery), row.ID); err != nil {
			return fmt.Errorf("failed to delete previous artifact %s: %w", row.ID, err)
		}
		if _, err := exec.NamedExecContext(ctx, insertArtifactQuery, row); err != nil {
			return fmt.Errorf("failed to insert artifact %s: %w", row.ID, err)
		}
		return nil
	})
}

func (r *ArtifactDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Artifact, error) {
	exec := GetExecutor(ctx, r.db)

	var row models.GeneratedArtifact
	err := exec.QueryRowxContext(ctx, exec.Rebind(selectArtifactQuery), id).
		Scan(&row.ID, &row.Kind, &row.ParentID, &row.Payload, &row.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("artifact %s not found", id))
		}
		return nil, domain.NewInternalError("failed to load artifact", err)
	}
	return toDomainArtifact(&row), nil
}

func toModelArtifact(a *domain.Artifact) *models.GeneratedArtifact {
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &models.GeneratedArtifact{
		ID:        a.ID,
		Kind:      string(a.Kind),
		ParentID:  util.StringToNullString(a.ParentID),
		Payload:   string(a.Payload),
		CreatedAt: createdAt,
	}
}

func toDomainArtifact(m *models.GeneratedArtifact) *domain.Artifact {
	return &domain.Artifact{
		ID:        m.ID,
		Kind:      domain.EntityKind(m.Kind),
		ParentID:  util.NullStringToString(m.ParentID),
		Payload:   []byte(m.Payload),
		CreatedAt: m.CreatedAt,
	}
}

var _ domain.ArtifactRepository = (*ArtifactDatabaseAdapter)(nil)
