package grpc

import (
	"context"
	"net"

	"github.com/Mal-back/cal-tracker/internal/logging"
	"github.com/Mal-back/cal-tracker/internal/server/auth"
	"github.com/Mal-back/cal-tracker/internal/server/metrics"
	"github.com/Mal-back/cal-tracker/internal/server/models"
	"google.golang.org/grpc"
)

type UserReader interface {
	Get(ctx context.Context, id int64) (*models.FullUser, error)
}

type MealLister interface {
	List(ctx context.Context, owner int64) ([]*models.Meal, error)
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	resolver *auth.Resolver
	users    UserReader
	meals    MealLister
	metrics  *metrics.Metrics
}

func NewGRPCServer(a string, l logging.Logger, res *auth.Resolver, us UserReader, ms MealLister, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		resolver: res,
		users:    us,
		meals:    ms,
		metrics:  m,
	}
}

// NewServer returns a grpc.Server with the service registered behind the
// token interceptor.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.observeInterceptor, s.tokenInterceptor))
	srv := grpc.NewServer(opts...)
	RegisterAuthServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
