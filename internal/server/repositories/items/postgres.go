// Package items provides the PostgreSQL-backed item repository.
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/revisions/internal/common"
	"github.com/dmitrijs2005/revisions/internal/dbx"
	"github.com/dmitrijs2005/revisions/internal/server/models"
)

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByUUID returns the item with the given uuid or common.ErrorNotFound.
func (r *PostgresRepository) FindByUUID(ctx context.Context, uuid string) (*models.Item, error) {
	query := `SELECT uuid, user_uuid, content, content_type, enc_item_key, auth_hash, items_key_id,
		deleted, created_at, updated_at FROM items
		WHERE uuid = $1
		`

	item := &models.Item{}
	err := r.db.QueryRowContext(ctx, query, uuid).Scan(
		&item.UUID, &item.UserUUID, &item.Content, &item.ContentType, &item.EncItemKey,
		&item.AuthHash, &item.ItemsKeyID, &item.Deleted, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

// Save upserts an item by uuid. An existing row is only overwritten when it
// belongs to the same user; otherwise common.ErrorUnauthorized is returned.
func (r *PostgresRepository) Save(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (uuid, user_uuid, content, content_type, enc_item_key, auth_hash, items_key_id,
			deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (uuid)
		DO UPDATE SET
			content = EXCLUDED.content,
			content_type = EXCLUDED.content_type,
			enc_item_key = EXCLUDED.enc_item_key,
			auth_hash = EXCLUDED.auth_hash,
			items_key_id = EXCLUDED.items_key_id,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at
			WHERE items.user_uuid = EXCLUDED.user_uuid;
	`
	res, err := r.db.ExecContext(ctx, query,
		item.UUID, item.UserUUID, item.Content, string(item.ContentType), item.EncItemKey, item.AuthHash,
		item.ItemsKeyID, item.Deleted, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorUnauthorized
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
