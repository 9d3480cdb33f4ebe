package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/revisions/internal/logging"
	"github.com/dmitrijs2005/revisions/internal/server/cache"
	"github.com/dmitrijs2005/revisions/internal/server/models"
	"github.com/dmitrijs2005/revisions/internal/server/repositories/items"
	"github.com/dmitrijs2005/revisions/internal/server/repositories/revisions"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(nil, logging.Nop{})

	if _, ok := m.Items(db).(*items.PostgresRepository); !ok {
		t.Fatal("Items() should return *items.PostgresRepository")
	}
	if _, ok := m.Revisions(db).(*revisions.PostgresRepository); !ok {
		t.Fatal("Revisions() without cache should return *revisions.PostgresRepository")
	}
}

func TestRevisions_WrappedWhenCacheConfigured(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	m := NewPostgresRepositoryManager(cache.New(client, time.Minute), logging.Nop{})

	if _, ok := m.Revisions(db).(*revisions.CachedRepository); !ok {
		t.Fatal("Revisions() with cache should return *revisions.CachedRepository")
	}
}

func TestRevisions_TransactionBypassesCache(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := cache.New(client, time.Minute)
	ctx := context.Background()

	// warm listing with a single revision
	require.NoError(t, c.SetJSON(ctx, revisions.CacheKey("src"), []*models.Revision{{UUID: "r1", ItemUUID: "src"}}))

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cols := []string{"uuid", "item_uuid", "content", "content_type", "enc_item_key", "auth_hash", "items_key_id",
		"creation_date", "created_at", "updated_at"}
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM revisions\s+WHERE item_uuid = \$1`).
		WithArgs("src").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r2", "src", "c2", "Note", "", "", "", now, now, now).
			AddRow("r1", "src", "c1", "Note", "", "", "", now, now, now))
	mock.ExpectExec(`INSERT INTO revisions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m := NewPostgresRepositoryManager(c, logging.Nop{})

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	repo := m.Revisions(tx)
	_, isPlain := repo.(*revisions.PostgresRepository)
	require.True(t, isPlain, "Revisions() inside a transaction must not be cached")

	got, err := repo.FindByItemID(ctx, "src")
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NoError(t, repo.Save(ctx, &models.Revision{UUID: "r3", ItemUUID: "src"}))
	assert.True(t, mr.Exists(revisions.CacheKey("src")), "writes inside a transaction must not invalidate early")

	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateRevisions(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	c := cache.New(client, time.Minute)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, c.SetJSON(ctx, revisions.CacheKey(id), []*models.Revision{}))
	}

	m := NewPostgresRepositoryManager(c, logging.Nop{})
	m.InvalidateRevisions(ctx, "a", "b")

	assert.False(t, mr.Exists(revisions.CacheKey("a")))
	assert.False(t, mr.Exists(revisions.CacheKey("b")))
	assert.True(t, mr.Exists(revisions.CacheKey("c")))

	// without a cache it is a no-op
	NewPostgresRepositoryManager(nil, logging.Nop{}).InvalidateRevisions(ctx, "c")
	assert.True(t, mr.Exists(revisions.CacheKey("c")))
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &PostgresRepositoryManager{}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}
