package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/linkfolio/internal/common"
	"github.com/dmitrijs2005/linkfolio/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// authenticated lists the methods that need a bearer credential.
var authenticated = map[string]bool{
	MethodGetMyProfile: true,
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !authenticated[info.FullMethod] {
		return handler(ctx, req)
	}

	var bearer string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("authorization"); len(values) > 0 {
			bearer = common.ExtractBearerToken(values[0])
		}
	}
	if bearer == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	id, err := s.resolver.Resolve(ctx, bearer)
	if err != nil {
		if errors.Is(err, common.ErrAuthenticationFailed) {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		s.logger.Error(ctx, "credential resolution failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return handler(auth.WithIdentity(ctx, id), req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	s.metrics.ObserveRPC(info.FullMethod, status.Code(err).String())
	return resp, err
}
