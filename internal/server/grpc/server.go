package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/revisions/internal/logging"
	"github.com/dmitrijs2005/revisions/internal/server/models"
	"google.golang.org/grpc"
)

// RevisionAccess is the slice of services.RevisionService the transport uses.
type RevisionAccess interface {
	GetRevisions(ctx context.Context, userUUID, itemUUID string) ([]*models.Revision, error)
	GetRevision(ctx context.Context, userUUID string, userRoles []models.RoleName, itemUUID, revisionUUID string) (*models.Revision, error)
	RemoveRevision(ctx context.Context, userUUID, itemUUID, revisionUUID string) (bool, error)
}

// ItemWriter is the slice of services.ItemService the transport uses.
type ItemWriter interface {
	SaveItem(ctx context.Context, userUUID string, item *models.Item) (*models.Item, error)
	DuplicateItem(ctx context.Context, userUUID, itemUUID string) (*models.Item, error)
}

type GRPCServer struct {
	address   string
	revisions RevisionAccess
	items     ItemWriter
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, rs RevisionAccess, is ItemWriter, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		revisions: rs,
		items:     is,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	// registers service
	srv.RegisterService(&RevisionServiceDesc, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
