package proto

import (
	"context"

	"google.golang.org/grpc"
)

type VaultClient interface {
	BeginSession(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SessionResponse, error)
	Whoami(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SessionResponse, error)
	Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*Empty, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	Logout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SessionResponse, error)
	Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*Empty, error)
	ListFiles(ctx context.Context, in *ListFilesRequest, opts ...grpc.CallOption) (*ListFilesResponse, error)
	Download(ctx context.Context, in *DownloadRequest, opts ...grpc.CallOption) (*DownloadResponse, error)
	Rename(ctx context.Context, in *RenameRequest, opts ...grpc.CallOption) (*Empty, error)
	Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*Empty, error)
	Account(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*AccountResponse, error)
	ExportActivity(ctx context.Context, in *ExportActivityRequest, opts ...grpc.CallOption) (*ExportActivityResponse, error)
	Support(ctx context.Context, in *SupportRequest, opts ...grpc.CallOption) (*Empty, error)
	AdminBrowse(ctx context.Context, in *AdminBrowseRequest, opts ...grpc.CallOption) (*AdminBrowseResponse, error)
}

type vaultClient struct {
	cc grpc.ClientConnInterface
}

func NewVaultClient(cc grpc.ClientConnInterface) VaultClient {
	return &vaultClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *vaultClient) BeginSession(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodBeginSession, in, opts)
}

func (c *vaultClient) Whoami(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodWhoami, in, opts)
}

func (c *vaultClient) Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodSignup, in, opts)
}

func (c *vaultClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *vaultClient) Logout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *vaultClient) Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpload, in, opts)
}

func (c *vaultClient) ListFiles(ctx context.Context, in *ListFilesRequest, opts ...grpc.CallOption) (*ListFilesResponse, error) {
	return invoke[ListFilesResponse](ctx, c.cc, MethodListFiles, in, opts)
}

func (c *vaultClient) Download(ctx context.Context, in *DownloadRequest, opts ...grpc.CallOption) (*DownloadResponse, error) {
	return invoke[DownloadResponse](ctx, c.cc, MethodDownload, in, opts)
}

func (c *vaultClient) Rename(ctx context.Context, in *RenameRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodRename, in, opts)
}

func (c *vaultClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDelete, in, opts)
}

func (c *vaultClient) Account(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*AccountResponse, error) {
	return invoke[AccountResponse](ctx, c.cc, MethodAccount, in, opts)
}

func (c *vaultClient) ExportActivity(ctx context.Context, in *ExportActivityRequest, opts ...grpc.CallOption) (*ExportActivityResponse, error) {
	return invoke[ExportActivityResponse](ctx, c.cc, MethodExportActivity, in, opts)
}

func (c *vaultClient) Support(ctx context.Context, in *SupportRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodSupport, in, opts)
}

func (c *vaultClient) AdminBrowse(ctx context.Context, in *AdminBrowseRequest, opts ...grpc.CallOption) (*AdminBrowseResponse, error) {
	return invoke[AdminBrowseResponse](ctx, c.cc, MethodAdminBrowse, in, opts)
}
