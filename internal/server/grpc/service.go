package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the directory service.
const ServiceName = "linkfolio.v1.Directory"

const (
	MethodSearch           = "/" + ServiceName + "/Search"
	MethodGetPublicProfile = "/" + ServiceName + "/GetPublicProfile"
	MethodGetMyProfile     = "/" + ServiceName + "/GetMyProfile"
)

// DirectoryServer is the server API of linkfolio.v1.Directory. Requests and
// responses are google.protobuf.Struct documents shaped like the JSON API.
type DirectoryServer interface {
	Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetPublicProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetMyProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type structCall func(srv DirectoryServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DirectoryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DirectoryServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var directoryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Search",
			Handler:    unaryHandler(MethodSearch, DirectoryServer.Search),
		},
		{
			MethodName: "GetPublicProfile",
			Handler:    unaryHandler(MethodGetPublicProfile, DirectoryServer.GetPublicProfile),
		},
		{
			MethodName: "GetMyProfile",
			Handler:    unaryHandler(MethodGetMyProfile, DirectoryServer.GetMyProfile),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "linkfolio/v1/directory.proto",
}

// RegisterDirectoryServer registers srv on s.
func RegisterDirectoryServer(s grpc.ServiceRegistrar, srv DirectoryServer) {
	s.RegisterService(&directoryServiceDesc, srv)
}
