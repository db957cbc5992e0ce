package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// PackServiceName パックサービスの完全サービス名
	PackServiceName = "packvault.v1.PackService"
	// AdminServiceName 管理サービスの完全サービス名
	AdminServiceName = "packvault.v1.AdminService"
)

// PackServiceServer パックサービスのサーバー実装
// メッセージは google.protobuf.Struct で受け渡す
type PackServiceServer interface {
	CreatePack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	OpenPack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransferShares(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPackContents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TotalSupply(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BalanceOf(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// AdminServiceServer 管理サービスのサーバー実装
type AdminServiceServer interface {
	GrantRole(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RevokeRole(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetPaused(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MintAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// unaryMethod Structを受け渡す単項メソッドの定義を作成
func unaryMethod[S any](service, method string, call func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(service, method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(S), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FullMethod gRPCの完全メソッド名を返す
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// PackServiceDesc パックサービスのサービス定義
var PackServiceDesc = grpc.ServiceDesc{
	ServiceName: PackServiceName,
	HandlerType: (*PackServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(PackServiceName, "CreatePack", PackServiceServer.CreatePack),
		unaryMethod(PackServiceName, "OpenPack", PackServiceServer.OpenPack),
		unaryMethod(PackServiceName, "TransferShares", PackServiceServer.TransferShares),
		unaryMethod(PackServiceName, "GetPack", PackServiceServer.GetPack),
		unaryMethod(PackServiceName, "GetPackContents", PackServiceServer.GetPackContents),
		unaryMethod(PackServiceName, "TotalSupply", PackServiceServer.TotalSupply),
		unaryMethod(PackServiceName, "BalanceOf", PackServiceServer.BalanceOf),
		unaryMethod(PackServiceName, "ListEvents", PackServiceServer.ListEvents),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "packvault/v1/pack.proto",
}

// AdminServiceDesc 管理サービスのサービス定義
var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(AdminServiceName, "GrantRole", AdminServiceServer.GrantRole),
		unaryMethod(AdminServiceName, "RevokeRole", AdminServiceServer.RevokeRole),
		unaryMethod(AdminServiceName, "SetPaused", AdminServiceServer.SetPaused),
		unaryMethod(AdminServiceName, "MintAsset", AdminServiceServer.MintAsset),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "packvault/v1/admin.proto",
}

// PublicMethods 認証なしで呼び出せるメソッド
var PublicMethods = []string{
	FullMethod(PackServiceName, "GetPack"),
	FullMethod(PackServiceName, "GetPackContents"),
	FullMethod(PackServiceName, "TotalSupply"),
	FullMethod(PackServiceName, "ListEvents"),
}

// RegisterPackServiceServer パックサービスを登録
func RegisterPackServiceServer(s grpc.ServiceRegistrar, srv PackServiceServer) {
	s.RegisterService(&PackServiceDesc, srv)
}

// RegisterAdminServiceServer 管理サービスを登録
func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminServiceDesc, srv)
}

// Client Structメッセージで任意のメソッドを呼び出すクライアント
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient 新しいClientを作成
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Call service/method を呼び出す
func (c *Client) Call(ctx context.Context, service, method string, in map[string]interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(service, method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
