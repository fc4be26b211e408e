package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
	"github.com/dmitrijs2005/securevault/internal/server/session"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDHeader = "x-request-id"

// Methods that need a logged in session.
var loginRequired = map[string]bool{
	pb.MethodUpload:         true,
	pb.MethodListFiles:      true,
	pb.MethodDownload:       true,
	pb.MethodRename:         true,
	pb.MethodDelete:         true,
	pb.MethodAccount:        true,
	pb.MethodExportActivity: true,
	pb.MethodAdminBrowse:    true,
}

func sessionless(method string) bool {
	return method == pb.MethodBeginSession || strings.HasPrefix(method, "/grpc.health.v1.Health/")
}

func firstValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// requestInterceptor tags every call with a request id, logs it and records
// its outcome in the RPC metrics.
func (s *GRPCServer) requestInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	id := firstValue(ctx, requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, id))

	start := time.Now()
	resp, err := handler(ctx, req)
	d := time.Since(start)

	code := status.Code(err)
	s.metrics.ObserveRPC(info.FullMethod, code.String(), d)
	s.logger.Info(ctx, "rpc", "request_id", id, "method", info.FullMethod, "code", code.String(), "duration", d)

	return resp, err
}

// sessionInterceptor restores the caller's session from the session token
// and rejects calls the session may not make.
func (s *GRPCServer) sessionInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if sessionless(info.FullMethod) {
		return handler(ctx, req)
	}

	token := firstValue(ctx, common.SessionTokenHeaderName)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing session token")
	}

	sess, err := s.sessions.Decode(token)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	if loginRequired[info.FullMethod] && !sess.LoggedIn() {
		return nil, status.Error(codes.Unauthenticated, "login required")
	}
	if info.FullMethod == pb.MethodAdminBrowse && !s.sessions.IsAdmin(sess) {
		return nil, status.Error(codes.PermissionDenied, common.ErrorForbidden.Error())
	}

	return handler(session.NewContext(ctx, sess), req)
}
