package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "securevault.Vault"

const (
	MethodBeginSession   = "/" + ServiceName + "/BeginSession"
	MethodWhoami         = "/" + ServiceName + "/Whoami"
	MethodSignup         = "/" + ServiceName + "/Signup"
	MethodLogin          = "/" + ServiceName + "/Login"
	MethodLogout         = "/" + ServiceName + "/Logout"
	MethodUpload         = "/" + ServiceName + "/Upload"
	MethodListFiles      = "/" + ServiceName + "/ListFiles"
	MethodDownload       = "/" + ServiceName + "/Download"
	MethodRename         = "/" + ServiceName + "/Rename"
	MethodDelete         = "/" + ServiceName + "/Delete"
	MethodAccount        = "/" + ServiceName + "/Account"
	MethodExportActivity = "/" + ServiceName + "/ExportActivity"
	MethodSupport        = "/" + ServiceName + "/Support"
	MethodAdminBrowse    = "/" + ServiceName + "/AdminBrowse"
)

type VaultServer interface {
	BeginSession(context.Context, *Empty) (*SessionResponse, error)
	Whoami(context.Context, *Empty) (*SessionResponse, error)
	Signup(context.Context, *SignupRequest) (*Empty, error)
	Login(context.Context, *LoginRequest) (*SessionResponse, error)
	Logout(context.Context, *Empty) (*SessionResponse, error)
	Upload(context.Context, *UploadRequest) (*Empty, error)
	ListFiles(context.Context, *ListFilesRequest) (*ListFilesResponse, error)
	Download(context.Context, *DownloadRequest) (*DownloadResponse, error)
	Rename(context.Context, *RenameRequest) (*Empty, error)
	Delete(context.Context, *DeleteRequest) (*Empty, error)
	Account(context.Context, *Empty) (*AccountResponse, error)
	ExportActivity(context.Context, *ExportActivityRequest) (*ExportActivityResponse, error)
	Support(context.Context, *SupportRequest) (*Empty, error)
	AdminBrowse(context.Context, *AdminBrowseRequest) (*AdminBrowseResponse, error)
}

// UnimplementedVaultServer answers every method with codes.Unimplemented.
type UnimplementedVaultServer struct{}

func unimplemented(m string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", m)
}

func (UnimplementedVaultServer) BeginSession(context.Context, *Empty) (*SessionResponse, error) {
	return nil, unimplemented("BeginSession")
}
func (UnimplementedVaultServer) Whoami(context.Context, *Empty) (*SessionResponse, error) {
	return nil, unimplemented("Whoami")
}
func (UnimplementedVaultServer) Signup(context.Context, *SignupRequest) (*Empty, error) {
	return nil, unimplemented("Signup")
}
func (UnimplementedVaultServer) Login(context.Context, *LoginRequest) (*SessionResponse, error) {
	return nil, unimplemented("Login")
}
func (UnimplementedVaultServer) Logout(context.Context, *Empty) (*SessionResponse, error) {
	return nil, unimplemented("Logout")
}
func (UnimplementedVaultServer) Upload(context.Context, *UploadRequest) (*Empty, error) {
	return nil, unimplemented("Upload")
}
func (UnimplementedVaultServer) ListFiles(context.Context, *ListFilesRequest) (*ListFilesResponse, error) {
	return nil, unimplemented("ListFiles")
}
func (UnimplementedVaultServer) Download(context.Context, *DownloadRequest) (*DownloadResponse, error) {
	return nil, unimplemented("Download")
}
func (UnimplementedVaultServer) Rename(context.Context, *RenameRequest) (*Empty, error) {
	return nil, unimplemented("Rename")
}
func (UnimplementedVaultServer) Delete(context.Context, *DeleteRequest) (*Empty, error) {
	return nil, unimplemented("Delete")
}
func (UnimplementedVaultServer) Account(context.Context, *Empty) (*AccountResponse, error) {
	return nil, unimplemented("Account")
}
func (UnimplementedVaultServer) ExportActivity(context.Context, *ExportActivityRequest) (*ExportActivityResponse, error) {
	return nil, unimplemented("ExportActivity")
}
func (UnimplementedVaultServer) Support(context.Context, *SupportRequest) (*Empty, error) {
	return nil, unimplemented("Support")
}
func (UnimplementedVaultServer) AdminBrowse(context.Context, *AdminBrowseRequest) (*AdminBrowseResponse, error) {
	return nil, unimplemented("AdminBrowse")
}

func unary[Req, Resp any](name string, call func(VaultServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(VaultServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(VaultServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var VaultServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("BeginSession", VaultServer.BeginSession),
		unary("Whoami", VaultServer.Whoami),
		unary("Signup", VaultServer.Signup),
		unary("Login", VaultServer.Login),
		unary("Logout", VaultServer.Logout),
		unary("Upload", VaultServer.Upload),
		unary("ListFiles", VaultServer.ListFiles),
		unary("Download", VaultServer.Download),
		unary("Rename", VaultServer.Rename),
		unary("Delete", VaultServer.Delete),
		unary("Account", VaultServer.Account),
		unary("ExportActivity", VaultServer.ExportActivity),
		unary("Support", VaultServer.Support),
		unary("AdminBrowse", VaultServer.AdminBrowse),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "securevault.proto",
}

func RegisterVaultServer(s grpc.ServiceRegistrar, srv VaultServer) {
	s.RegisterService(&VaultServiceDesc, srv)
}
