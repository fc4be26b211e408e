package grpc

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/cryptox"
	"github.com/dmitrijs2005/securevault/internal/dbx"
	"github.com/dmitrijs2005/securevault/internal/logging"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
	"github.com/dmitrijs2005/securevault/internal/server/export"
	"github.com/dmitrijs2005/securevault/internal/server/filestore"
	"github.com/dmitrijs2005/securevault/internal/server/metrics"
	"github.com/dmitrijs2005/securevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/securevault/internal/server/services"
	"github.com/dmitrijs2005/securevault/internal/server/session"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

const testAdmin = "admin"

// harness runs a server over bufconn backed by real services on a SQLite
// file. The client side keeps the session token like the terminal client.
type harness struct {
	server  *GRPCServer
	metrics *metrics.Metrics
	conn    *grpc.ClientConn
	client  pb.VaultClient
	token   string
}

func newServices(t *testing.T, mtr *metrics.Metrics) Services {
	t.Helper()
	dir := t.TempDir()
	l := logging.Nop()

	db, err := dbx.Open(dbx.DialectSQLite, filepath.Join(dir, "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewRepositoryManager(dbx.DialectSQLite)
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	backend, err := filestore.NewLocalBackend(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	act := services.NewActivityService(db, rm, l, mtr)
	creds := services.NewCredentialService(db, rm, cryptox.SHA256Hasher{}, act, l)
	sessions := session.NewManager(testAdmin, []byte("secret"), time.Hour, creds, act, l)

	return Services{
		Credentials: creds,
		Files:       services.NewFileService(backend, act, l),
		Activity:    act,
		Exporter:    export.NewExporter(act, sessions, export.PDFRenderer{}, l, mtr),
		Sessions:    sessions,
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	mtr := metrics.New()
	h := &harness{metrics: mtr}
	h.server = NewGRPCServer("bufnet", logging.Nop(), mtr, newServices(t, mtr))

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.server.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(h.intercept),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	h.conn = conn
	h.client = pb.NewVaultClient(conn)
	return h
}

func (h *harness) intercept(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	if h.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, common.SessionTokenHeaderName, h.token)
	}
	var trailer metadata.MD
	err := invoker(ctx, method, req, reply, cc, append(opts, grpc.Trailer(&trailer))...)
	if v := trailer.Get(common.SessionTokenHeaderName); len(v) > 0 {
		h.token = v[0]
	}
	return err
}

func (h *harness) begin(t *testing.T) pb.SessionInfo {
	t.Helper()
	resp, err := h.client.BeginSession(context.Background(), &pb.Empty{})
	require.NoError(t, err)
	return resp.Session
}

func (h *harness) signup(t *testing.T, userID, password string) {
	t.Helper()
	_, err := h.client.Signup(context.Background(), &pb.SignupRequest{UserID: userID, Email: userID + "@example.com", Password: password})
	require.NoError(t, err)
}

// login solves the pending CAPTCHA of the current session.
func (h *harness) login(t *testing.T, userID, password string) pb.SessionInfo {
	t.Helper()
	who, err := h.client.Whoami(context.Background(), &pb.Empty{})
	require.NoError(t, err)
	answer := who.Session.CaptchaA + who.Session.CaptchaB

	resp, err := h.client.Login(context.Background(), &pb.LoginRequest{
		UserID: userID, Password: password, CaptchaAnswer: strconv.Itoa(answer),
	})
	require.NoError(t, err)
	return resp.Session
}
