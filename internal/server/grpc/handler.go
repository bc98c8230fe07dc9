package grpc

import (
	"context"
	"errors"

	"github.com/Mal-back/cal-tracker/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("OK"), nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	c, ok := ctxFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "NO_AUTH")
	}

	u, err := s.users.Get(ctx, c.UserID())
	if err != nil {
		return nil, s.internal(ctx, err)
	}

	out, err := structpb.NewStruct(map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"age":      u.Age,
		"size_cm":  u.SizeCm,
		"weight":   u.Weight,
	})
	if err != nil {
		return nil, s.internal(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) ListMeals(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	c, ok := ctxFrom(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "NO_AUTH")
	}

	list, err := s.meals.List(ctx, c.UserID())
	if err != nil {
		return nil, s.internal(ctx, err)
	}

	meals := make([]any, 0, len(list))
	for _, m := range list {
		meals = append(meals, map[string]any{
			"id":       m.ID,
			"name":     m.Name,
			"kcal":     m.Kcal,
			"carbs":    m.Carbs,
			"proteins": m.Proteins,
			"lipids":   m.Lipids,
		})
	}

	out, err := structpb.NewStruct(map[string]any{"meals": meals})
	if err != nil {
		return nil, s.internal(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) internal(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return status.Error(codes.NotFound, "NOT_FOUND")
	}
	s.logger.Error(ctx, "rpc failed", "error_data", err.Error())
	return status.Error(codes.Internal, "SERVICE_ERROR")
}
