package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/revisions/internal/dbx"
	"github.com/dmitrijs2005/revisions/internal/server/repositories/items"
	"github.com/dmitrijs2005/revisions/internal/server/repositories/revisions"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Items(db dbx.DBTX) items.Repository
	Revisions(db dbx.DBTX) revisions.Repository
	// InvalidateRevisions drops cached revision listings of the given items.
	// Call it once the transaction that changed them has committed.
	InvalidateRevisions(ctx context.Context, itemUUIDs ...string)
}
