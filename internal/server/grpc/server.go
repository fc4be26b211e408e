package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/securevault/internal/logging"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
	"github.com/dmitrijs2005/securevault/internal/server/export"
	"github.com/dmitrijs2005/securevault/internal/server/metrics"
	"github.com/dmitrijs2005/securevault/internal/server/models"
	"github.com/dmitrijs2005/securevault/internal/server/session"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type credentialSvc interface {
	CreateAccount(ctx context.Context, userID, email, password string) error
	GetAccount(ctx context.Context, userID string) (*models.User, error)
}

type fileSvc interface {
	Upload(ctx context.Context, owner, filename string, content []byte) error
	List(ctx context.Context, owner, search string) ([]string, error)
	Download(ctx context.Context, owner, filename string) ([]byte, error)
	Rename(ctx context.Context, owner, oldName, newName string) error
	Delete(ctx context.Context, owner, filename string) error
	Usage(ctx context.Context, owner string) (models.Usage, error)
	ListAllOwners(ctx context.Context) ([]string, error)
	ListFilesOf(ctx context.Context, owner string) ([]string, error)
}

type activitySvc interface {
	Recent(ctx context.Context, userID string, limit int) ([]*models.ActivityRecord, error)
	SubmitSupport(ctx context.Context, userID, issueType, message string) error
}

type exportSvc interface {
	CSV(ctx context.Context, requester session.Session, scope export.Scope) ([]byte, error)
	Document(ctx context.Context, requester session.Session, scope export.Scope) (*export.Document, error)
}

// Services bundles the core components the server exposes.
type Services struct {
	Credentials credentialSvc
	Files       fileSvc
	Activity    activitySvc
	Exporter    exportSvc
	Sessions    *session.Manager
}

type GRPCServer struct {
	address  string
	creds    credentialSvc
	files    fileSvc
	activity activitySvc
	exporter exportSvc
	sessions *session.Manager
	logger   logging.Logger
	metrics  *metrics.Metrics
}

var _ pb.VaultServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, mtr *metrics.Metrics, svc Services) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		metrics:  mtr,
		creds:    svc.Credentials,
		files:    svc.Files,
		activity: svc.Activity,
		exporter: svc.Exporter,
		sessions: svc.Sessions,
	}
}

func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.requestInterceptor, s.sessionInterceptor),
		grpc.MaxRecvMsgSize(pb.MaxMessageSize),
		grpc.MaxSendMsgSize(pb.MaxMessageSize),
	)

	pb.RegisterVaultServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv, hs
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}
