package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "revisions.v1.RevisionService"

// RevisionServiceServer is the server API for revisions.v1.RevisionService.
// Every message is a google.protobuf.Struct.
type RevisionServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRevisions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRevision(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteRevision(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DuplicateItem(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(RevisionServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// FullMethodName returns "/revisions.v1.RevisionService/<method>".
func FullMethodName(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler(method string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RevisionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethodName(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RevisionServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RevisionServiceDesc describes revisions.v1.RevisionService for
// grpc.ServiceRegistrar.RegisterService.
var RevisionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RevisionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler("Ping", RevisionServiceServer.Ping)},
		{MethodName: "ListRevisions", Handler: unaryHandler("ListRevisions", RevisionServiceServer.ListRevisions)},
		{MethodName: "GetRevision", Handler: unaryHandler("GetRevision", RevisionServiceServer.GetRevision)},
		{MethodName: "DeleteRevision", Handler: unaryHandler("DeleteRevision", RevisionServiceServer.DeleteRevision)},
		{MethodName: "SaveItem", Handler: unaryHandler("SaveItem", RevisionServiceServer.SaveItem)},
		{MethodName: "DuplicateItem", Handler: unaryHandler("DuplicateItem", RevisionServiceServer.DuplicateItem)},
	},
	Streams: []grpc.StreamDesc{},
}

// RevisionServiceClient calls revisions.v1.RevisionService methods by name.
type RevisionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRevisionServiceClient(cc grpc.ClientConnInterface) *RevisionServiceClient {
	return &RevisionServiceClient{cc: cc}
}

// Call invokes method with in and returns the decoded response.
func (c *RevisionServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethodName(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
