// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/revisions/internal/dbx"
	"github.com/dmitrijs2005/revisions/internal/logging"
	"github.com/dmitrijs2005/revisions/internal/server/cache"
	"github.com/dmitrijs2005/revisions/internal/server/migrations"
	"github.com/dmitrijs2005/revisions/internal/server/repositories/items"
	"github.com/dmitrijs2005/revisions/internal/server/repositories/revisions"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook. When a cache is set, revision
// repositories are wrapped in a read-through listing cache.
type PostgresRepositoryManager struct {
	cache  *cache.Cache
	logger logging.Logger
}

// Items returns an items.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Items(db dbx.DBTX) items.Repository {
	return items.NewPostgresRepository(db)
}

// Revisions returns a revisions.Repository bound to the provided DBTX.
// Repositories bound to a *sql.Tx are never cached: reads must see the
// transaction and invalidation must wait for the commit.
func (m *PostgresRepositoryManager) Revisions(db dbx.DBTX) revisions.Repository {
	repo := revisions.NewPostgresRepository(db)
	if _, inTx := db.(*sql.Tx); inTx || m.cache == nil {
		return repo
	}
	return revisions.NewCachedRepository(repo, m.cache, m.logger)
}

// InvalidateRevisions drops the cached listings of itemUUIDs. Failures are
// logged; the entries then expire with the cache TTL.
func (m *PostgresRepositoryManager) InvalidateRevisions(ctx context.Context, itemUUIDs ...string) {
	if m.cache == nil || len(itemUUIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(itemUUIDs))
	for _, id := range itemUUIDs {
		keys = append(keys, revisions.CacheKey(id))
	}
	if err := m.cache.Delete(ctx, keys...); err != nil {
		m.logger.Warn(ctx, "revision cache invalidation failed", "keys", keys, "error", err)
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
// c may be nil to disable revision caching.
func NewPostgresRepositoryManager(c *cache.Cache, l logging.Logger) RepositoryManager {
	return &PostgresRepositoryManager{cache: c, logger: l}
}
