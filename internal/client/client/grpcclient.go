package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/securevault/internal/common"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.VaultClient
	health      healthpb.HealthClient

	mu    sync.Mutex
	token string
}

var _ Client = (*GRPCClient)(nil)

func withSessionToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.SessionTokenHeaderName)
	if token != "" {
		md.Set(common.SessionTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) sessionToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *GRPCClient) setSessionToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// sessionInterceptor attaches the current session token and stores the one
// the server sends back in the trailer. An expired session is replaced with
// a fresh guest session, as is one the server no longer accepts.
func (s *GRPCClient) sessionInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if _, ok := ctx.Deadline(); !ok && s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx = withSessionToken(ctx, s.sessionToken())

	var trailer metadata.MD
	err := invoker(ctx, method, req, reply, cc, append(opts, grpc.Trailer(&trailer))...)

	if v := trailer.Get(common.SessionTokenHeaderName); len(v) > 0 {
		s.setSessionToken(v[0])
	}

	if err != nil && method != pb.MethodBeginSession {
		st, ok := status.FromError(err)
		if ok && st.Code() == codes.Unauthenticated &&
			(st.Message() == common.ErrTokenExpired.Error() || st.Message() == common.ErrInvalidToken.Error()) {
			// a new guest session, obtained through this interceptor
			_, _ = s.client.BeginSession(ctx, &pb.Empty{})
		}
	}

	return err
}

func NewVaultClientService(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	err := c.InitGRPCClient(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.sessionInterceptor),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(pb.MaxMessageSize),
			grpc.MaxCallSendMsgSize(pb.MaxMessageSize),
		),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewVaultClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Ping asks the standard health service whether the vault is serving.
func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) BeginSession(ctx context.Context) (*pb.SessionInfo, error) {
	resp, err := s.client.BeginSession(ctx, &pb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Session, nil
}

func (s *GRPCClient) Whoami(ctx context.Context) (*pb.SessionInfo, error) {
	resp, err := s.client.Whoami(ctx, &pb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Session, nil
}

func (s *GRPCClient) Signup(ctx context.Context, userID, email, password string) error {

	req := &pb.SignupRequest{UserID: userID, Email: email, Password: password}

	if _, err := s.client.Signup(ctx, req); err != nil {
		return s.mapError(err)
	}

	return nil

}

func (s *GRPCClient) Login(ctx context.Context, userID, password, captchaAnswer string) (*pb.SessionInfo, error) {

	req := &pb.LoginRequest{UserID: userID, Password: password, CaptchaAnswer: captchaAnswer}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &resp.Session, nil

}

func (s *GRPCClient) Logout(ctx context.Context) (*pb.SessionInfo, error) {
	resp, err := s.client.Logout(ctx, &pb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Session, nil
}

func (s *GRPCClient) Upload(ctx context.Context, filename string, content []byte) error {
	_, err := s.client.Upload(ctx, &pb.UploadRequest{Filename: filename, Content: content})
	return s.mapError(err)
}

func (s *GRPCClient) ListFiles(ctx context.Context, search string) ([]string, error) {
	resp, err := s.client.ListFiles(ctx, &pb.ListFilesRequest{Search: search})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Files, nil
}

func (s *GRPCClient) Download(ctx context.Context, filename string) ([]byte, error) {
	resp, err := s.client.Download(ctx, &pb.DownloadRequest{Filename: filename})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Content, nil
}

func (s *GRPCClient) Rename(ctx context.Context, oldName, newName string) error {
	_, err := s.client.Rename(ctx, &pb.RenameRequest{OldName: oldName, NewName: newName})
	return s.mapError(err)
}

func (s *GRPCClient) Delete(ctx context.Context, filename string) error {
	_, err := s.client.Delete(ctx, &pb.DeleteRequest{Filename: filename})
	return s.mapError(err)
}

func (s *GRPCClient) Account(ctx context.Context) (*pb.AccountResponse, error) {
	resp, err := s.client.Account(ctx, &pb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ExportActivity(ctx context.Context, req *pb.ExportActivityRequest) (*pb.ExportActivityResponse, error) {
	resp, err := s.client.ExportActivity(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Support(ctx context.Context, issueType, message string) error {
	_, err := s.client.Support(ctx, &pb.SupportRequest{IssueType: issueType, Message: message})
	return s.mapError(err)
}

func (s *GRPCClient) AdminOwners(ctx context.Context) ([]string, error) {
	resp, err := s.client.AdminBrowse(ctx, &pb.AdminBrowseRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Owners, nil
}

func (s *GRPCClient) AdminFiles(ctx context.Context, owner string) ([]string, error) {
	resp, err := s.client.AdminBrowse(ctx, &pb.AdminBrowseRequest{Owner: owner})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Files, nil
}

// Messages the server uses verbatim for these sentinels.
var exactSentinels = []error{
	common.ErrorInvalidCredentials,
	common.ErrorIncorrectCaptcha,
	common.ErrorInvalidCaptchaAnswer,
	common.ErrTokenExpired,
	common.ErrInvalidToken,
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, sentinel := range exactSentinels {
		if st.Message() == sentinel.Error() {
			return sentinel
		}
	}

	var kind error
	switch st.Code() {
	case codes.InvalidArgument:
		kind = common.ErrorInvalidInput
	case codes.AlreadyExists:
		kind = common.ErrorAlreadyExists
	case codes.NotFound:
		kind = common.ErrorNotFound
	case codes.Unauthenticated:
		kind = common.ErrorUnauthorized
	case codes.PermissionDenied:
		kind = common.ErrorForbidden
	case codes.Unavailable, codes.DeadlineExceeded:
		kind = ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}

	return &remoteError{msg: st.Message(), kind: kind}
}

// IsSessionLost reports whether err means the session token was rejected
// and a new one has been obtained.
func IsSessionLost(err error) bool {
	return errors.Is(err, common.ErrTokenExpired) || errors.Is(err, common.ErrInvalidToken)
}
