package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"tuteai/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockArtifactAdapter(t *testing.T) (*ArtifactDatabaseAdapter, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewArtifactDatabaseAdapter(db, NewTransactionManagerAdapter(db)), mock
}

func TestArtifactDatabaseAdapter_Save(t *testing.T) {
	adapter, mock := newMockArtifactAdapter(t)
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	artifact := &domain.Artifact{
		ID:        "mod_01hx0000000000000000000000",
		Kind:      domain.KindModule,
		ParentID:  "course_01hx0000000000000000000000",
		Payload:   []byte(`{"moduleId":"mod_01hx0000000000000000000000"}`),
		CreatedAt: createdAt,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM generated_artifacts WHERE id = ?")).
		WithArgs(artifact.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO generated_artifacts")).
		WithArgs(artifact.ID, "module", artifact.ParentID, string(artifact.Payload), createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := adapter.Save(context.Background(), artifact)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactDatabaseAdapter_Save_NullParent(t *testing.T) {
	adapter, mock := newMockArtifactAdapter(t)
	artifact := &domain.Artifact{
		ID:        "course_01hx0000000000000000000000",
		Kind:      domain.KindCourse,
		Payload:   []byte(`{}`),
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM generated_artifacts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO generated_artifacts").
		WithArgs(artifact.ID, "course", sql.NullString{}, "{}", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, adapter.Save(context.Background(), artifact))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactDatabaseAdapter_Save_RollsBackOnInsertError(t *testing.T) {
	adapter, mock := newMockArtifactAdapter(t)
	artifact := &domain.Artifact{ID: "quiz_01hx0000000000000000000000", Kind: domain.KindQuiz, Payload: []byte(`{}`)}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM generated_artifacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO generated_artifacts").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := adapter.Save(context.Background(), artifact)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactDatabaseAdapter_Save_RequiresID(t *testing.T) {
	adapter, mock := newMockArtifactAdapter(t)

	err := adapter.Save(context.Background(), &domain.Artifact{Kind: domain.KindQuiz})
	assert.True(t, domain.HasCode(err, domain.ErrInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactDatabaseAdapter_GetByID(t *testing.T) {
	adapter, mock := newMockArtifactAdapter(t)
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id := "les_01hx0000000000000000000000"

	rows := sqlmock.NewRows([]string{"id", "kind", "parent_id", "payload", "created_at"}).
		AddRow(id, "lesson", "mod_01hx0000000000000000000000", `{"lessonId":"x"}`, createdAt)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, kind, parent_id, payload, created_at FROM generated_artifacts WHERE id = ?")).
		WithArgs(id).
		WillReturnRows(rows)

	got, err := adapter.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, domain.KindLesson, got.Kind)
	assert.Equal(t, "mod_01hx0000000000000000000000", got.ParentID)
	assert.JSONEq(t, `{"lessonId":"x"}`, string(got.Payload))
	assert.Equal(t, createdAt, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtifactDatabaseAdapter_GetByID_NotFound(t *testing.T) {
	adapter, mock := newMockArtifactAdapter(t)

	mock.ExpectQuery("SELECT id, kind").
		WithArgs("course_missing").
		WillReturnError(sql.ErrNoRows)

	got, err := adapter.GetByID(context.Background(), "course_missing")
	assert.Nil(t, got)
	assert.True(t, domain.HasCode(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
