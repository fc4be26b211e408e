package grpc

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/logging"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
	"github.com/dmitrijs2005/securevault/internal/server/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newInterceptorServer() *GRPCServer {
	return NewGRPCServer("", logging.Nop(), nil, Services{
		Sessions: session.NewManager(testAdmin, []byte("k"), time.Hour, nil, nil, logging.Nop()),
	})
}

func withToken(t *testing.T, s *GRPCServer, sess session.Session) context.Context {
	t.Helper()
	tok, err := s.sessions.Encode(sess)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.SessionTokenHeaderName, tok))
}

func TestSessionInterceptor_BeginSessionNeedsNoToken(t *testing.T) {
	s := newInterceptorServer()
	called := false

	_, err := s.sessionInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: pb.MethodBeginSession},
		func(ctx context.Context, req interface{}) (interface{}, error) {
			called = true
			return nil, nil
		})
	if err != nil || !called {
		t.Fatalf("handler not reached: called=%v err=%v", called, err)
	}
}

func TestSessionInterceptor_MissingAndBadToken(t *testing.T) {
	s := newInterceptorServer()
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called")
		return nil, nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: pb.MethodWhoami}

	_, err := s.sessionInterceptor(context.Background(), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", err)
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.SessionTokenHeaderName, "junk"))
	_, err = s.sessionInterceptor(ctx, nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", err)
	}
}

func TestSessionInterceptor_PutsSessionInContext(t *testing.T) {
	s := newInterceptorServer()
	want := session.Session{Identity: "alice", Role: session.RoleUser, CaptchaA: 2, CaptchaB: 5}

	_, err := s.sessionInterceptor(withToken(t, s, want), nil, &grpc.UnaryServerInfo{FullMethod: pb.MethodUpload},
		func(ctx context.Context, req interface{}) (interface{}, error) {
			got, ok := session.FromContext(ctx)
			if !ok || got != want {
				t.Fatalf("session in context = %+v, %v", got, ok)
			}
			return nil, nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionInterceptor_Authorization(t *testing.T) {
	s := newInterceptorServer()
	ok := func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil }

	guest := session.Session{Role: session.RoleGuest, CaptchaA: 1, CaptchaB: 1}
	alice := session.Session{Identity: "alice", Role: session.RoleUser}
	admin := session.Session{Identity: testAdmin, Role: session.RoleAdmin}

	cases := []struct {
		method string
		sess   session.Session
		want   codes.Code
	}{
		{pb.MethodUpload, guest, codes.Unauthenticated},
		{pb.MethodExportActivity, guest, codes.Unauthenticated},
		{pb.MethodSupport, guest, codes.OK},
		{pb.MethodSignup, guest, codes.OK},
		{pb.MethodAdminBrowse, alice, codes.PermissionDenied},
		{pb.MethodAdminBrowse, admin, codes.OK},
		{pb.MethodListFiles, alice, codes.OK},
	}
	for _, c := range cases {
		_, err := s.sessionInterceptor(withToken(t, s, c.sess), nil, &grpc.UnaryServerInfo{FullMethod: c.method}, ok)
		if status.Code(err) != c.want {
			t.Errorf("%s as %q: want %v, got %v", c.method, c.sess.Identity, c.want, err)
		}
	}
}

func TestRequestInterceptor_RecordsMetrics(t *testing.T) {
	h := newHarness(t)
	h.begin(t)

	_, err := h.client.Upload(context.Background(), &pb.UploadRequest{Filename: "a"})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("want Unauthenticated, got %v", err)
	}

	n, err := testutil.GatherAndCount(h.metrics.Registry(), "securevault_rpc_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 series (BeginSession OK, Upload Unauthenticated), got %d", n)
	}

	err = testutil.GatherAndCompare(h.metrics.Registry(), strings.NewReader(`
# HELP securevault_rpc_requests_total Total number of gRPC requests by method and status code.
# TYPE securevault_rpc_requests_total counter
securevault_rpc_requests_total{code="OK",method="/securevault.Vault/BeginSession"} 1
securevault_rpc_requests_total{code="Unauthenticated",method="/securevault.Vault/Upload"} 1
`), "securevault_rpc_requests_total")
	if err != nil {
		t.Fatal(err)
	}
}
