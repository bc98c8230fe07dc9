package grpc

import (
	"context"
	"errors"

	"github.com/Mal-back/cal-tracker/internal/common"
	"github.com/Mal-back/cal-tracker/internal/server/auth"
	"github.com/Mal-back/cal-tracker/internal/server/authctx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const authCtxKey ctxKey = "authctx"

// protectedMethods need a valid token.
var protectedMethods = map[string]bool{
	MethodWhoAmI:    true,
	MethodListMeals: true,
}

func ctxFrom(ctx context.Context) (authctx.Ctx, bool) {
	c, ok := ctx.Value(authCtxKey).(authctx.Ctx)
	return c, ok
}

// tokenInterceptor resolves the auth-token metadata value the same way the
// HTTP middleware resolves the cookie and sends the rotated token back as a
// header.
func (s *GRPCServer) tokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var raw string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthTokenName); len(values) > 0 {
			raw = values[0]
		}
	}

	c, fresh, err := s.resolver.Resolve(ctx, raw)
	if errors.Is(err, auth.ErrModelAccess) {
		s.logger.Error(ctx, "rpc token resolution failed", "method", info.FullMethod, "error_data", err.Error())
		return nil, status.Error(codes.Internal, "SERVICE_ERROR")
	}
	if err != nil {
		s.logger.Warn(ctx, "rpc unauthenticated", "method", info.FullMethod, "error_data", err.Error())
		return nil, status.Error(codes.Unauthenticated, "NO_AUTH")
	}

	// A token that cannot be handed back fails the call like any other
	// rotation failure.
	if err := grpc.SetHeader(ctx, metadata.Pairs(common.AuthTokenName, fresh.String())); err != nil {
		err = &auth.CtxExtError{Reason: auth.ErrTokenUpdateFailed, Cause: err}
		s.logger.Warn(ctx, "rpc unauthenticated", "method", info.FullMethod, "error_data", err.Error())
		return nil, status.Error(codes.Unauthenticated, "NO_AUTH")
	}

	return handler(context.WithValue(ctx, authCtxKey, c), req)
}

// observeInterceptor logs and counts every call.
func (s *GRPCServer) observeInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)

	code := status.Code(err)
	if s.metrics != nil {
		s.metrics.ObserveRPC(info.FullMethod, code.String())
	}
	s.logger.Info(ctx, "rpc", "method", info.FullMethod, "code", code.String())

	return resp, err
}
