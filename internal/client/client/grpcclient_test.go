package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

/*************
 * Fake server
 *************/

type fakeVault struct {
	pb.UnimplementedVaultServer

	begun   int
	expired string
	lastReq any
	err     error
}

func incomingToken(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(common.SessionTokenHeaderName); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *fakeVault) BeginSession(ctx context.Context, _ *pb.Empty) (*pb.SessionResponse, error) {
	f.begun++
	tok := "guest-" + string(rune('0'+f.begun))
	_ = grpc.SetTrailer(ctx, metadata.Pairs(common.SessionTokenHeaderName, tok))
	return &pb.SessionResponse{Session: pb.SessionInfo{Role: "guest", CaptchaA: 2, CaptchaB: 3}}, nil
}

// Whoami echoes the token it received as the identity.
func (f *fakeVault) Whoami(ctx context.Context, _ *pb.Empty) (*pb.SessionResponse, error) {
	tok := incomingToken(ctx)
	if tok == f.expired {
		return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}
	return &pb.SessionResponse{Session: pb.SessionInfo{Identity: tok}}, nil
}

func (f *fakeVault) Login(ctx context.Context, req *pb.LoginRequest) (*pb.SessionResponse, error) {
	f.lastReq = req
	_ = grpc.SetTrailer(ctx, metadata.Pairs(common.SessionTokenHeaderName, "after-login"))
	if f.err != nil {
		return nil, f.err
	}
	return &pb.SessionResponse{Session: pb.SessionInfo{Identity: req.UserID, Role: "user"}}, nil
}

func (f *fakeVault) Upload(ctx context.Context, req *pb.UploadRequest) (*pb.Empty, error) {
	f.lastReq = req
	return &pb.Empty{}, f.err
}

func (f *fakeVault) AdminBrowse(ctx context.Context, req *pb.AdminBrowseRequest) (*pb.AdminBrowseResponse, error) {
	if req.Owner == "" {
		return &pb.AdminBrowseResponse{Owners: []string{"alice", "bob"}}, nil
	}
	return &pb.AdminBrowseResponse{Files: []string{req.Owner + ".txt"}}, nil
}

func newTestClient(t *testing.T) (*GRPCClient, *fakeVault, *health.Server) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	fv := &fakeVault{}
	pb.RegisterVaultServer(srv, fv)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewVaultClientService("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, fv, hs
}

func TestSessionToken_CapturedAndSent(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx := context.Background()

	s, err := c.BeginSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CaptchaA)
	assert.Equal(t, "guest-1", c.sessionToken())

	who, err := c.Whoami(ctx)
	require.NoError(t, err)
	assert.Equal(t, "guest-1", who.Identity)
}

func TestSessionToken_CapturedOnError(t *testing.T) {
	c, fv, _ := newTestClient(t)
	fv.err = status.Error(codes.InvalidArgument, common.ErrorIncorrectCaptcha.Error())

	_, err := c.Login(context.Background(), "alice", "pw", "4")
	assert.ErrorIs(t, err, common.ErrorIncorrectCaptcha)
	assert.Equal(t, "after-login", c.sessionToken())
	assert.Equal(t, &pb.LoginRequest{UserID: "alice", Password: "pw", CaptchaAnswer: "4"}, fv.lastReq)
}

func TestSessionToken_ExpiredReplacedByGuest(t *testing.T) {
	c, fv, _ := newTestClient(t)
	ctx := context.Background()

	_, err := c.BeginSession(ctx)
	require.NoError(t, err)
	fv.expired = "guest-1"

	_, err = c.Whoami(ctx)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.True(t, IsSessionLost(err))
	assert.Equal(t, 2, fv.begun)
	assert.Equal(t, "guest-2", c.sessionToken())
}

func TestPing(t *testing.T) {
	c, _, hs := newTestClient(t)

	hs.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	assert.NoError(t, c.Ping(context.Background()))

	hs.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestUploadAndAdminBrowse(t *testing.T) {
	c, fv, _ := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Upload(ctx, "a.bin", []byte{0, 1}))
	assert.Equal(t, &pb.UploadRequest{Filename: "a.bin", Content: []byte{0, 1}}, fv.lastReq)

	owners, err := c.AdminOwners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, owners)

	files, err := c.AdminFiles(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob.txt"}, files)

	fv.err = status.Error(codes.Unavailable, "backend unavailable")
	err = c.Upload(ctx, "a.bin", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "backend unavailable", err.Error())
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	cases := []struct {
		in   error
		want error
	}{
		{status.Error(codes.Unauthenticated, "invalid userid or password"), common.ErrorInvalidCredentials},
		{status.Error(codes.InvalidArgument, common.ErrorInvalidCaptchaAnswer.Error()), common.ErrorInvalidCaptchaAnswer},
		{status.Error(codes.InvalidArgument, "create: invalid input"), common.ErrorInvalidInput},
		{status.Error(codes.AlreadyExists, "already exists"), common.ErrorAlreadyExists},
		{status.Error(codes.NotFound, "not found"), common.ErrorNotFound},
		{status.Error(codes.Unauthenticated, "login required"), common.ErrorUnauthorized},
		{status.Error(codes.PermissionDenied, "forbidden"), common.ErrorForbidden},
		{status.Error(codes.DeadlineExceeded, "slow"), ErrUnavailable},
	}
	for _, tc := range cases {
		got := c.mapError(tc.in)
		assert.True(t, errors.Is(got, tc.want), "%v -> %v", tc.in, got)
	}

	assert.Nil(t, c.mapError(nil))

	plain := errors.New("plain")
	assert.Equal(t, plain, c.mapError(plain))

	internal := c.mapError(status.Error(codes.Internal, "internal error"))
	assert.Contains(t, internal.Error(), "rpc error")
	assert.False(t, errors.Is(internal, common.ErrorInvalidInput))
}
