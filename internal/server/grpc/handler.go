package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/revisions/internal/common"
	"github.com/dmitrijs2005/revisions/internal/server/models"
	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var validate = validator.New()

type itemRequest struct {
	ItemUUID string `validate:"required,uuid"`
}

type revisionRequest struct {
	ItemUUID string `validate:"required,uuid"`
	UUID     string `validate:"required,uuid"`
}

type saveItemRequest struct {
	UUID        string `validate:"omitempty,uuid"`
	Content     string
	ContentType string `validate:"required"`
	EncItemKey  string
	AuthHash    string
	ItemsKeyID  string
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	return s.reply(ctx, map[string]any{"status": "OK"})

}

func (s *GRPCServer) ListRevisions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	r := itemRequest{ItemUUID: stringField(req, "item_uuid")}
	if err := validateRequest(r); err != nil {
		return nil, err
	}

	revisions, err := s.revisions.GetRevisions(ctx, userID, r.ItemUUID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	list := make([]any, 0, len(revisions))
	for _, rev := range revisions {
		list = append(list, revisionMetadata(rev))
	}

	return s.reply(ctx, map[string]any{"revisions": list})

}

func (s *GRPCServer) GetRevision(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID, roles, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	r := revisionRequest{ItemUUID: stringField(req, "item_uuid"), UUID: stringField(req, "uuid")}
	if err := validateRequest(r); err != nil {
		return nil, err
	}

	rev, err := s.revisions.GetRevision(ctx, userID, roles, r.ItemUUID, r.UUID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	m := revisionMetadata(rev)
	m["content"] = rev.Content
	m["enc_item_key"] = rev.EncItemKey
	m["auth_hash"] = rev.AuthHash
	m["items_key_id"] = rev.ItemsKeyID

	return s.reply(ctx, m)

}

func (s *GRPCServer) DeleteRevision(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	r := revisionRequest{ItemUUID: stringField(req, "item_uuid"), UUID: stringField(req, "uuid")}
	if err := validateRequest(r); err != nil {
		return nil, err
	}

	deleted, err := s.revisions.RemoveRevision(ctx, userID, r.ItemUUID, r.UUID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if !deleted {
		return nil, status.Error(codes.NotFound, "not found")
	}

	s.logger.Info(ctx, "Revision deleted", "item_uuid", r.ItemUUID, "uuid", r.UUID)
	return s.reply(ctx, map[string]any{"deleted": true})

}

func (s *GRPCServer) SaveItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	r := saveItemRequest{
		UUID:        stringField(req, "uuid"),
		Content:     stringField(req, "content"),
		ContentType: stringField(req, "content_type"),
		EncItemKey:  stringField(req, "enc_item_key"),
		AuthHash:    stringField(req, "auth_hash"),
		ItemsKeyID:  stringField(req, "items_key_id"),
	}
	if err := validateRequest(r); err != nil {
		return nil, err
	}

	item, err := s.items.SaveItem(ctx, userID, &models.Item{
		UUID:        r.UUID,
		Content:     r.Content,
		ContentType: models.ContentType(r.ContentType),
		EncItemKey:  r.EncItemKey,
		AuthHash:    r.AuthHash,
		ItemsKeyID:  r.ItemsKeyID,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.reply(ctx, map[string]any{"uuid": item.UUID})

}

func (s *GRPCServer) DuplicateItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	userID, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	r := itemRequest{ItemUUID: stringField(req, "item_uuid")}
	if err := validateRequest(r); err != nil {
		return nil, err
	}

	item, err := s.items.DuplicateItem(ctx, userID, r.ItemUUID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Item duplicated", "from", r.ItemUUID, "to", item.UUID)
	return s.reply(ctx, map[string]any{"uuid": item.UUID})

}

func revisionMetadata(rev *models.Revision) map[string]any {
	return map[string]any{
		"uuid":          rev.UUID,
		"item_uuid":     rev.ItemUUID,
		"content_type":  string(rev.ContentType),
		"creation_date": formatTime(rev.CreationDate),
		"created_at":    formatTime(rev.CreatedAt),
		"updated_at":    formatTime(rev.UpdatedAt),
	}
}

func (s *GRPCServer) caller(ctx context.Context) (string, []models.RoleName, error) {
	userID, roles, ok := userFromContext(ctx)
	if !ok {
		return "", nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return userID, roles, nil
}

func validateRequest(r any) error {
	if err := validate.Struct(r); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

func (s *GRPCServer) reply(ctx context.Context, m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		s.logger.Error(ctx, "failed to build response", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

// toStatus maps service errors onto gRPC codes. Missing and foreign items
// look the same to the caller. A vanished copy destination is a server-side
// failure and stays Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrItemDoesNotExist):
		s.logger.Error(ctx, "precondition failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.NotFound, "not found")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
