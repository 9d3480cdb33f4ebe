package items

import (
	"context"

	"github.com/dmitrijs2005/revisions/internal/server/models"
)

// Repository is the item lookup the revision flows depend on, plus the
// owner-guarded upsert used when an item is saved or duplicated.
type Repository interface {
	FindByUUID(ctx context.Context, uuid string) (*models.Item, error)
	Save(ctx context.Context, item *models.Item) error
}
