package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service uses only well-known protobuf types, so the descriptor is
// written by hand instead of generated.
const (
	ServiceName = "caltracker.auth.v1.Auth"

	MethodPing      = "/" + ServiceName + "/Ping"
	MethodWhoAmI    = "/" + ServiceName + "/WhoAmI"
	MethodListMeals = "/" + ServiceName + "/ListMeals"
)

// AuthServer is implemented by GRPCServer.
type AuthServer interface {
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	WhoAmI(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListMeals(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ping",
			Handler: unary(MethodPing, func(s AuthServer, ctx context.Context, in *emptypb.Empty) (any, error) {
				return s.Ping(ctx, in)
			}),
		},
		{
			MethodName: "WhoAmI",
			Handler: unary(MethodWhoAmI, func(s AuthServer, ctx context.Context, in *emptypb.Empty) (any, error) {
				return s.WhoAmI(ctx, in)
			}),
		},
		{
			MethodName: "ListMeals",
			Handler: unary(MethodListMeals, func(s AuthServer, ctx context.Context, in *emptypb.Empty) (any, error) {
				return s.ListMeals(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "caltracker/auth/v1/auth.proto",
}

func RegisterAuthServer(r grpc.ServiceRegistrar, s AuthServer) {
	r.RegisterService(&authServiceDesc, s)
}

func unary(fullMethod string, call func(AuthServer, context.Context, *emptypb.Empty) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthClient calls the service over any client connection.
type AuthClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthClient(cc grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{cc: cc}
}

func (c *AuthClient) Ping(ctx context.Context, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, MethodPing, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) WhoAmI(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodWhoAmI, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) ListMeals(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodListMeals, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
