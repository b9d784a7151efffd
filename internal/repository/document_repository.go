package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// DocumentRepository stores JSON documents grouped by collection path.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs the repository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// GetAll returns every document of a collection in creation order.
func (r *DocumentRepository) GetAll(ctx context.Context, collection string) ([]models.Document, error) {
	const query = `SELECT collection, id, data, created_at, updated_at
FROM documents WHERE collection = $1 ORDER BY created_at ASC, id ASC`
	var docs []models.Document
	if err := r.db.SelectContext(ctx, &docs, query, collection); err != nil {
		return nil, fmt.Errorf("list documents %s: %w", collection, err)
	}
	return docs, nil
}

// Get fetches one document. Missing documents return sql.ErrNoRows.
func (r *DocumentRepository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	const query = `SELECT collection, id, data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, collection, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Put writes a whole document, replacing any previous body.
func (r *DocumentRepository) Put(ctx context.Context, collection, id string, data types.JSONText) error {
	const query = `INSERT INTO documents (collection, id, data, created_at, updated_at)
VALUES (:collection, :id, :data, :created_at, :updated_at)
ON CONFLICT (collection, id)
DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, newDocument(collection, id, data)); err != nil {
		return fmt.Errorf("put document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Merge shallow-merges the top-level fields of data into the stored document.
func (r *DocumentRepository) Merge(ctx context.Context, collection, id string, data types.JSONText) error {
	const query = `INSERT INTO documents (collection, id, data, created_at, updated_at)
VALUES (:collection, :id, :data, :created_at, :updated_at)
ON CONFLICT (collection, id)
DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, newDocument(collection, id, data)); err != nil {
		return fmt.Errorf("merge document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Create inserts a document under a generated id.
func (r *DocumentRepository) Create(ctx context.Context, collection string, data types.JSONText) (string, error) {
	const query = `INSERT INTO documents (collection, id, data, created_at, updated_at)
VALUES (:collection, :id, :data, :created_at, :updated_at)`
	doc := newDocument(collection, uuid.NewString(), data)
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return "", fmt.Errorf("create document in %s: %w", collection, err)
	}
	return doc.ID, nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (r *DocumentRepository) Delete(ctx context.Context, collection, id string) error {
	const query = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	if _, err := r.db.ExecContext(ctx, query, collection, id); err != nil {
		return fmt.Errorf("delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *DocumentRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func newDocument(collection, id string, data types.JSONText) *models.Document {
	now := time.Now().UTC()
	if len(data) == 0 {
		data = types.JSONText(`{}`)
	}
	return &models.Document{Collection: collection, ID: id, Data: data, CreatedAt: now, UpdatedAt: now}
}
