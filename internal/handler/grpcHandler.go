package handler

import (
	"context"
	"time"

	"clouddrive/internal/apperr"
	"clouddrive/pkg/logger"
	"clouddrive/pkg/middleware"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Principal достаёт вызывающего, которого положил AuthInterceptor.
func Principal(ctx context.Context) (middleware.Principal, error) {
	p, ok := middleware.PrincipalFromContext(ctx)
	if !ok || p.Email == "" {
		return middleware.Principal{}, status.Error(codes.Unauthenticated, "authentication required")
	}
	return p, nil
}

// Status переводит ошибку сервиса в gRPC статус, внутренние ошибки пишет в лог.
func Status(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) == apperr.KindInternal {
		if _, ok := status.FromError(err); !ok {
			logger.GetLogger(ctx).Error("internal error", zap.Error(err))
		}
	}
	return apperr.ToStatus(err)
}

func Timestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}
