package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/revisions/internal/common"
	"github.com/dmitrijs2005/revisions/internal/dbx"
	"github.com/dmitrijs2005/revisions/internal/logging"
	"github.com/dmitrijs2005/revisions/internal/server/models"
	"github.com/dmitrijs2005/revisions/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/revisions/internal/timex"
	"github.com/google/uuid"
)

// ItemService runs the item mutations that produce revisions: saving an
// item snapshots it, duplicating an item carries its history over.
type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       timex.Clock
	logger      logging.Logger
}

func NewItemService(db *sql.DB, m repomanager.RepositoryManager, clock timex.Clock, logger logging.Logger) *ItemService {
	return &ItemService{
		db:          db,
		repomanager: m,
		clock:       clock,
		logger:      logger.With("module", "item_service"),
	}
}

func (s *ItemService) revisionsFor(db dbx.DBTX) *RevisionService {
	return NewRevisionService(s.repomanager.Items(db), s.repomanager.Revisions(db), s.clock, s.logger)
}

// SaveItem upserts item on behalf of userUUID and records a revision of it
// in the same transaction. The cached listing is dropped after the commit. An item uuid owned by someone else yields an
// error wrapping common.ErrorUnauthorized.
func (s *ItemService) SaveItem(ctx context.Context, userUUID string, item *models.Item) (*models.Item, error) {
	now := s.clock.Now()

	item.UserUUID = userUUID
	if item.UUID == "" {
		item.UUID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Items(tx).Save(ctx, item); err != nil {
			return err
		}
		return s.revisionsFor(tx).CreateRevision(ctx, item)
	})
	if err != nil {
		return nil, fmt.Errorf("error saving item: %w", err)
	}
	s.repomanager.InvalidateRevisions(ctx, item.UUID)

	return item, nil
}

// DuplicateItem copies an item owned by userUUID under a new uuid together
// with all of its revisions. A missing or foreign source yields
// common.ErrorNotFound.
func (s *ItemService) DuplicateItem(ctx context.Context, userUUID, itemUUID string) (*models.Item, error) {
	src, err := s.repomanager.Items(s.db).FindByUUID(ctx, itemUUID)
	if err != nil {
		return nil, err
	}
	if src.UserUUID != userUUID {
		return nil, common.ErrorNotFound
	}

	now := s.clock.Now()
	dup := *src
	dup.UUID = uuid.NewString()
	dup.CreatedAt = now
	dup.UpdatedAt = now

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Items(tx).Save(ctx, &dup); err != nil {
			return err
		}
		return s.revisionsFor(tx).CopyRevisions(ctx, src.UUID, dup.UUID)
	})
	if err != nil {
		return nil, fmt.Errorf("error duplicating item: %w", err)
	}
	s.repomanager.InvalidateRevisions(ctx, dup.UUID)

	s.logger.Info(ctx, "item duplicated", "from", src.UUID, "to", dup.UUID)
	return &dup, nil
}
