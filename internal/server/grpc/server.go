package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/auth"
	"github.com/dmitrijs2005/linkfolio/internal/server/directory"
	"github.com/dmitrijs2005/linkfolio/internal/server/metrics"
	"github.com/dmitrijs2005/linkfolio/internal/server/models"
	"github.com/dmitrijs2005/linkfolio/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type DirectoryAPI interface {
	Search(ctx context.Context, q directory.Query) (*directory.Page, error)
}

type ProfileAPI interface {
	Get(ctx context.Context, ownerID string) (*models.Profile, error)
	GetPublic(ctx context.Context, username string) (*services.PublicProfile, error)
}

type LinkAPI interface {
	List(ctx context.Context, ownerID string) ([]*models.Link, error)
}

type CredentialResolver interface {
	Resolve(ctx context.Context, bearer string) (auth.Identity, error)
}

type GRPCServer struct {
	address   string
	directory DirectoryAPI
	profiles  ProfileAPI
	links     LinkAPI
	resolver  CredentialResolver
	metrics   *metrics.Metrics
	logger    logging.Logger
	health    *health.Server
}

var _ DirectoryServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, d DirectoryAPI, p ProfileAPI, ls LinkAPI, r CredentialResolver, m *metrics.Metrics) *GRPCServer {
	if m == nil {
		m = metrics.New()
	}
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		directory: d,
		profiles:  p,
		links:     ls,
		resolver:  r,
		metrics:   m,
		health:    health.NewServer(),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.authInterceptor))

	RegisterDirectoryServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
