package client

import (
	"context"

	pb "github.com/dmitrijs2005/securevault/internal/proto"
)

// Client is the contract the terminal shell uses to talk to the core.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	BeginSession(ctx context.Context) (*pb.SessionInfo, error)
	Whoami(ctx context.Context) (*pb.SessionInfo, error)
	Signup(ctx context.Context, userID, email, password string) error
	Login(ctx context.Context, userID, password, captchaAnswer string) (*pb.SessionInfo, error)
	Logout(ctx context.Context) (*pb.SessionInfo, error)

	Upload(ctx context.Context, filename string, content []byte) error
	ListFiles(ctx context.Context, search string) ([]string, error)
	Download(ctx context.Context, filename string) ([]byte, error)
	Rename(ctx context.Context, oldName, newName string) error
	Delete(ctx context.Context, filename string) error

	Account(ctx context.Context) (*pb.AccountResponse, error)
	ExportActivity(ctx context.Context, req *pb.ExportActivityRequest) (*pb.ExportActivityResponse, error)
	Support(ctx context.Context, issueType, message string) error

	AdminOwners(ctx context.Context) ([]string, error)
	AdminFiles(ctx context.Context, owner string) ([]string, error)
}
