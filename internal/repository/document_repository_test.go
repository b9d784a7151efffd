package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentRepoMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewDocumentRepository(sqlxDB), mock, func() {
		sqlxDB.Close()
	}
}

func TestDocumentRepositoryGetAll(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"collection", "id", "data", "created_at", "updated_at"}).
		AddRow("app_users", "u1", []byte(`{"name":"Ana"}`), now, now).
		AddRow("app_users", "u2", []byte(`{"name":"Luis"}`), now, now)
	mock.ExpectQuery("SELECT collection, id, data, created_at, updated_at\\s+FROM documents WHERE collection = \\$1").
		WithArgs("app_users").
		WillReturnRows(rows)

	docs, err := repo.GetAll(context.Background(), "app_users")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "u1", docs[0].ID)
	assert.JSONEq(t, `{"name":"Ana"}`, docs[0].Data.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryGetMissing(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("FROM documents WHERE collection = \\$1 AND id = \\$2").
		WithArgs("config", "academic").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "config", "academic")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDocumentRepositoryPutReplaces(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	mock.ExpectExec("(?s)INSERT INTO documents.*DO UPDATE SET data = EXCLUDED.data").
		WithArgs("config", "academic", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Put(context.Background(), "config", "academic", types.JSONText(`{"courses":[]}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryMergeUsesJSONBConcat(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	mock.ExpectExec(`DO UPDATE SET data = documents.data \|\| EXCLUDED.data`).
		WithArgs("app_users", "u1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Merge(context.Background(), "app_users", "u1", types.JSONText(`{"schedule":[]}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryCreate(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("users/u1/class_logs", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.Create(context.Background(), "users/u1/class_logs", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestDocumentRepositoryDeleteWrapsErrors(t *testing.T) {
	repo, mock, cleanup := newDocumentRepoMock(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("app_users", "u1").
		WillReturnError(errors.New("boom"))

	err := repo.Delete(context.Background(), "app_users", "u1")
	assert.ErrorContains(t, err, "delete document app_users/u1")
}
