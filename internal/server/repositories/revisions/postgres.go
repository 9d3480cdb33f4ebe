// Package revisions provides PostgreSQL-backed revision persistence and a
// Redis read-through cache for per-item revision listings.
package revisions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/revisions/internal/common"
	"github.com/dmitrijs2005/revisions/internal/dbx"
	"github.com/dmitrijs2005/revisions/internal/server/models"
)

const revisionColumns = `uuid, item_uuid, content, content_type, enc_item_key, auth_hash, items_key_id,
		creation_date, created_at, updated_at`

// PostgresRepository implements revision storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts a revision. Revisions are never updated in place.
func (r *PostgresRepository) Save(ctx context.Context, rev *models.Revision) error {
	query := `INSERT INTO revisions (` + revisionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
	_, err := r.db.ExecContext(ctx, query,
		rev.UUID, rev.ItemUUID, rev.Content, string(rev.ContentType), rev.EncItemKey, rev.AuthHash,
		rev.ItemsKeyID, rev.CreationDate, rev.CreatedAt, rev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// FindByItemID returns every revision of the item, newest first.
func (r *PostgresRepository) FindByItemID(ctx context.Context, itemUUID string) ([]*models.Revision, error) {
	query := `SELECT ` + revisionColumns + ` FROM revisions
		WHERE item_uuid = $1
		ORDER BY created_at DESC
		`
	rows, err := r.db.QueryContext(ctx, query, itemUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to select revisions: %w", err)
	}
	defer rows.Close()

	var result []*models.Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FindOneByID returns a single revision of the item or common.ErrorNotFound.
func (r *PostgresRepository) FindOneByID(ctx context.Context, itemUUID, revisionUUID string) (*models.Revision, error) {
	query := `SELECT ` + revisionColumns + ` FROM revisions
		WHERE item_uuid = $1 AND uuid = $2
		`
	rev, err := scanRevision(r.db.QueryRowContext(ctx, query, itemUUID, revisionUUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rev, nil
}

// RemoveByUUID deletes a revision of the item. Deleting a revision that does
// not exist is not an error.
func (r *PostgresRepository) RemoveByUUID(ctx context.Context, itemUUID, revisionUUID string) error {
	query := `DELETE FROM revisions WHERE item_uuid = $1 AND uuid = $2`
	if _, err := r.db.ExecContext(ctx, query, itemUUID, revisionUUID); err != nil {
		return fmt.Errorf("failed to delete revision: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(s scanner) (*models.Revision, error) {
	rev := &models.Revision{}
	if err := s.Scan(
		&rev.UUID, &rev.ItemUUID, &rev.Content, &rev.ContentType, &rev.EncItemKey, &rev.AuthHash,
		&rev.ItemsKeyID, &rev.CreationDate, &rev.CreatedAt, &rev.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return rev, nil
}
