package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/securevault/internal/common"
	pb "github.com/dmitrijs2005/securevault/internal/proto"
	"github.com/dmitrijs2005/securevault/internal/server/export"
	"github.com/dmitrijs2005/securevault/internal/server/session"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RecentActivityLimit is the number of records shown on the account page.
const RecentActivityLimit = 10

// toStatus maps domain errors onto gRPC status codes. Backend and internal
// failures are logged and reported without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorInvalidInput),
		errors.Is(err, common.ErrorIncorrectCaptcha):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrorInvalidCredentials.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, common.ErrorForbidden.Error())
	case errors.Is(err, common.ErrorBackendUnavailable):
		s.logger.Error(ctx, "backend failure", "error", err)
		return status.Error(codes.Unavailable, common.ErrorBackendUnavailable.Error())
	default:
		s.logger.Error(ctx, "internal failure", "error", err)
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}

// issue sends the encoded session back to the client in the trailer.
func (s *GRPCServer) issue(ctx context.Context, sess session.Session) error {
	token, err := s.sessions.Encode(sess)
	if err != nil {
		return s.toStatus(ctx, err)
	}
	_ = grpc.SetTrailer(ctx, metadata.Pairs(common.SessionTokenHeaderName, token))
	return nil
}

func current(ctx context.Context) (session.Session, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return session.Session{}, status.Error(codes.Internal, "session missing from context")
	}
	return sess, nil
}

func sessionResponse(sess session.Session) *pb.SessionResponse {
	return &pb.SessionResponse{Session: pb.SessionInfo{
		Identity: sess.Identity,
		Role:     string(sess.Role),
		CaptchaA: sess.CaptchaA,
		CaptchaB: sess.CaptchaB,
	}}
}

func (s *GRPCServer) BeginSession(ctx context.Context, _ *pb.Empty) (*pb.SessionResponse, error) {
	sess := s.sessions.Begin()
	if err := s.issue(ctx, sess); err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

func (s *GRPCServer) Whoami(ctx context.Context, _ *pb.Empty) (*pb.SessionResponse, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.issue(ctx, sess); err != nil {
		return nil, err
	}
	return sessionResponse(sess), nil
}

func (s *GRPCServer) Signup(ctx context.Context, req *pb.SignupRequest) (*pb.Empty, error) {

	s.logger.Info(ctx, "Registration request", "userid", req.UserID)

	if err := s.creds.CreateAccount(ctx, req.UserID, req.Email, req.Password); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &pb.Empty{}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.SessionResponse, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	next, attemptErr := s.sessions.Attempt(ctx, sess, req.UserID, req.Password, req.CaptchaAnswer)
	if err := s.issue(ctx, next); err != nil {
		return nil, err
	}
	if attemptErr != nil {
		return nil, s.toStatus(ctx, attemptErr)
	}

	s.logger.Info(ctx, "Logged in", "userid", next.Identity)
	return sessionResponse(next), nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *pb.Empty) (*pb.SessionResponse, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	next := s.sessions.Logout(ctx, sess)
	if err := s.issue(ctx, next); err != nil {
		return nil, err
	}
	return sessionResponse(next), nil
}

func (s *GRPCServer) Upload(ctx context.Context, req *pb.UploadRequest) (*pb.Empty, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.files.Upload(ctx, sess.Identity, req.Filename, req.Content); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) ListFiles(ctx context.Context, req *pb.ListFilesRequest) (*pb.ListFilesResponse, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.files.List(ctx, sess.Identity, req.Search)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.ListFilesResponse{Files: names}, nil
}

func (s *GRPCServer) Download(ctx context.Context, req *pb.DownloadRequest) (*pb.DownloadResponse, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.files.Download(ctx, sess.Identity, req.Filename)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.DownloadResponse{Filename: req.Filename, Content: data}, nil
}

func (s *GRPCServer) Rename(ctx context.Context, req *pb.RenameRequest) (*pb.Empty, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.files.Rename(ctx, sess.Identity, req.OldName, req.NewName); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *pb.DeleteRequest) (*pb.Empty, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.files.Delete(ctx, sess.Identity, req.Filename); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) Account(ctx context.Context, _ *pb.Empty) (*pb.AccountResponse, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.creds.GetAccount(ctx, sess.Identity)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	usage, err := s.files.Usage(ctx, sess.Identity)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	recent, err := s.activity.Recent(ctx, sess.Identity, RecentActivityLimit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &pb.AccountResponse{
		UserID:      user.UserID,
		Email:       user.Email,
		FileCount:   usage.FileCount,
		UsedMB:      usage.MB(),
		LimitMB:     usage.LimitMB(),
		UsedPercent: usage.Percent(),
	}
	for _, r := range recent {
		resp.Recent = append(resp.Recent, &pb.ActivityEntry{
			UserID:  r.UserIDOrEmpty(),
			Action:  r.Action,
			Details: r.DetailsOrEmpty(),
			TS:      r.TS,
		})
	}

	return resp, nil
}

func (s *GRPCServer) ExportActivity(ctx context.Context, req *pb.ExportActivityRequest) (*pb.ExportActivityResponse, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}

	scope := export.Own()
	switch {
	case req.All:
		scope = export.All()
	case req.UserID != "":
		scope = export.Of(req.UserID)
	}

	switch req.Format {
	case pb.FormatCSV:
		data, err := s.exporter.CSV(ctx, sess, scope)
		if err != nil {
			return nil, s.toStatus(ctx, err)
		}
		return &pb.ExportActivityResponse{Content: data, ContentType: export.ContentTypeCSV, Extension: "csv"}, nil
	case pb.FormatDocument, "":
		doc, err := s.exporter.Document(ctx, sess, scope)
		if err != nil {
			return nil, s.toStatus(ctx, err)
		}
		return &pb.ExportActivityResponse{
			Content:     doc.Content,
			ContentType: doc.ContentType,
			Extension:   doc.Extension,
			Substituted: doc.Substituted,
		}, nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown export format %q", req.Format)
	}
}

func (s *GRPCServer) Support(ctx context.Context, req *pb.SupportRequest) (*pb.Empty, error) {
	sess, err := current(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.activity.SubmitSupport(ctx, sess.Identity, req.IssueType, req.Message); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.Empty{}, nil
}

func (s *GRPCServer) AdminBrowse(ctx context.Context, req *pb.AdminBrowseRequest) (*pb.AdminBrowseResponse, error) {
	if req.Owner == "" {
		owners, err := s.files.ListAllOwners(ctx)
		if err != nil {
			return nil, s.toStatus(ctx, err)
		}
		return &pb.AdminBrowseResponse{Owners: owners}, nil
	}

	files, err := s.files.ListFilesOf(ctx, req.Owner)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.AdminBrowseResponse{Files: files}, nil
}
