package revisions

import (
	"context"

	"github.com/dmitrijs2005/revisions/internal/server/models"
)

// Repository persists revisions keyed by owning item and revision uuid.
type Repository interface {
	Save(ctx context.Context, revision *models.Revision) error
	FindByItemID(ctx context.Context, itemUUID string) ([]*models.Revision, error)
	FindOneByID(ctx context.Context, itemUUID, revisionUUID string) (*models.Revision, error)
	RemoveByUUID(ctx context.Context, itemUUID, revisionUUID string) error
}
