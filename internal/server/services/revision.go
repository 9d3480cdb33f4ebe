// Package services contains server-side business logic. This file implements
// RevisionService, which snapshots items into revisions and serves them back
// subject to item ownership and an age-based subscription tier.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/revisions/internal/common"
	"github.com/dmitrijs2005/revisions/internal/logging"
	"github.com/dmitrijs2005/revisions/internal/server/models"
	"github.com/dmitrijs2005/revisions/internal/timex"
	"github.com/google/uuid"
)

// ItemStore resolves items by uuid. Absent items yield common.ErrorNotFound.
type ItemStore interface {
	FindByUUID(ctx context.Context, uuid string) (*models.Item, error)
}

// RevisionStore persists revisions keyed by owning item and revision uuid.
type RevisionStore interface {
	Save(ctx context.Context, revision *models.Revision) error
	FindByItemID(ctx context.Context, itemUUID string) ([]*models.Revision, error)
	FindOneByID(ctx context.Context, itemUUID, revisionUUID string) (*models.Revision, error)
	RemoveByUUID(ctx context.Context, itemUUID, revisionUUID string) error
}

const (
	// Revisions older than this many days need at least PlusUser.
	plusTierAfterDays = 30
	// Revisions older than this many days need ProUser.
	proTierAfterDays = 365
)

var revisionedContentTypes = map[models.ContentType]struct{}{
	models.ContentTypeNote: {},
	models.ContentTypeFile: {},
}

// ownership is the result of resolving an item against a requester.
type ownership int

const (
	itemAbsent ownership = iota
	itemForeign
	itemOwned
)

// RevisionService is safe for concurrent use: it only holds references to
// its collaborators.
type RevisionService struct {
	items     ItemStore
	revisions RevisionStore
	clock     timex.Clock
	logger    logging.Logger
}

func NewRevisionService(items ItemStore, revisions RevisionStore, clock timex.Clock, logger logging.Logger) *RevisionService {
	return &RevisionService{
		items:     items,
		revisions: revisions,
		clock:     clock,
		logger:    logger.With("module", "revision_service"),
	}
}

func (s *RevisionService) resolveOwnership(ctx context.Context, userUUID, itemUUID string) (ownership, error) {
	item, err := s.items.FindByUUID(ctx, itemUUID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return itemAbsent, nil
		}
		return itemAbsent, err
	}
	if item.UserUUID != userUUID {
		return itemForeign, nil
	}
	return itemOwned, nil
}

// CreateRevision snapshots item. Items whose content type is not revisioned
// are skipped silently.
func (s *RevisionService) CreateRevision(ctx context.Context, item *models.Item) error {
	if _, ok := revisionedContentTypes[item.ContentType]; !ok {
		s.logger.Debug(ctx, "skipping revision for content type", "item_uuid", item.UUID, "content_type", item.ContentType)
		return nil
	}

	now := s.clock.Now()

	rev := &models.Revision{
		UUID:         uuid.NewString(),
		ItemUUID:     item.UUID,
		Content:      item.Content,
		ContentType:  item.ContentType,
		EncItemKey:   item.EncItemKey,
		AuthHash:     item.AuthHash,
		ItemsKeyID:   item.ItemsKeyID,
		CreationDate: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.revisions.Save(ctx, rev); err != nil {
		return fmt.Errorf("error saving revision: %w", err)
	}
	return nil
}

// GetRevisions lists the revisions of an item owned by userUUID. A missing
// or foreign item yields an empty list.
//
// Unlike GetRevision, the listing is not filtered by tier.
func (s *RevisionService) GetRevisions(ctx context.Context, userUUID, itemUUID string) ([]*models.Revision, error) {
	own, err := s.resolveOwnership(ctx, userUUID, itemUUID)
	if err != nil {
		return nil, err
	}
	if own != itemOwned {
		return []*models.Revision{}, nil
	}

	return s.revisions.FindByItemID(ctx, itemUUID)
}

// GetRevision returns a single revision. A missing or foreign item, a
// missing revision and a revision too old for userRoles all yield
// common.ErrorNotFound.
func (s *RevisionService) GetRevision(ctx context.Context, userUUID string, userRoles []models.RoleName, itemUUID, revisionUUID string) (*models.Revision, error) {
	own, err := s.resolveOwnership(ctx, userUUID, itemUUID)
	if err != nil {
		return nil, err
	}
	if own != itemOwned {
		return nil, common.ErrorNotFound
	}

	rev, err := s.revisions.FindOneByID(ctx, itemUUID, revisionUUID)
	if err != nil {
		return nil, err
	}

	if !UserHasEnoughPermissions(userRoles, s.CalculateRequiredRole(rev.CreationDate)) {
		return nil, common.ErrorNotFound
	}

	return rev, nil
}

// RemoveRevision deletes a revision of an item owned by userUUID. It
// reports false when the item is missing or foreign. Revision age and the
// requester's tier do not matter.
func (s *RevisionService) RemoveRevision(ctx context.Context, userUUID, itemUUID, revisionUUID string) (bool, error) {
	own, err := s.resolveOwnership(ctx, userUUID, itemUUID)
	if err != nil {
		return false, err
	}
	if own != itemOwned {
		return false, nil
	}

	if err := s.revisions.RemoveByUUID(ctx, itemUUID, revisionUUID); err != nil {
		return false, err
	}
	return true, nil
}

// CopyRevisions copies every revision of fromItemUUID onto toItemUUID,
// keeping content and all timestamps. The caller must have authorized the
// source. A missing destination is an error wrapping
// common.ErrItemDoesNotExist. Copies are saved one by one; a failure leaves
// the earlier copies in place.
func (s *RevisionService) CopyRevisions(ctx context.Context, fromItemUUID, toItemUUID string) error {
	revs, err := s.revisions.FindByItemID(ctx, fromItemUUID)
	if err != nil {
		return err
	}

	toItem, err := s.items.FindByUUID(ctx, toItemUUID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("item %s: %w", toItemUUID, common.ErrItemDoesNotExist)
		}
		return err
	}

	for _, existing := range revs {
		cp := &models.Revision{
			UUID:         uuid.NewString(),
			ItemUUID:     toItem.UUID,
			Content:      existing.Content,
			ContentType:  existing.ContentType,
			EncItemKey:   existing.EncItemKey,
			AuthHash:     existing.AuthHash,
			ItemsKeyID:   existing.ItemsKeyID,
			CreationDate: existing.CreationDate,
			CreatedAt:    existing.CreatedAt,
			UpdatedAt:    existing.UpdatedAt,
		}
		if err := s.revisions.Save(ctx, cp); err != nil {
			return fmt.Errorf("error copying revision %s: %w", existing.UUID, err)
		}
	}

	s.logger.Info(ctx, "revisions copied", "from", fromItemUUID, "to", toItemUUID, "count", len(revs))
	return nil
}

// CalculateRequiredRole returns the lowest tier allowed to see a revision
// created at creationDate.
func (s *RevisionService) CalculateRequiredRole(creationDate time.Time) models.RoleName {
	days := s.clock.ElapsedDaysSince(creationDate)

	switch {
	case days > proTierAfterDays:
		return models.RoleProUser
	case days > plusTierAfterDays:
		return models.RolePlusUser
	default:
		return models.RoleCoreUser
	}
}

// UserHasEnoughPermissions reports whether userRoles satisfy required.
// Higher tiers include the lower ones.
func UserHasEnoughPermissions(userRoles []models.RoleName, required models.RoleName) bool {
	switch required {
	case models.RolePlusUser:
		return models.HasAny(userRoles, models.RolePlusUser, models.RoleProUser)
	case models.RoleProUser:
		return models.HasAny(userRoles, models.RoleProUser)
	default:
		return true
	}
}
