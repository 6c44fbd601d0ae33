package middleware

import (
	"context"
	"runtime/debug"
	"time"

	"clouddrive/pkg/logger"
	"clouddrive/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor даёт каждому вызову дочерний логгер с request_id и method.
func LoggingInterceptor(base *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		l := base.With(zap.String("request_id", uuid.NewString()), zap.String("method", info.FullMethod))
		ctx = logger.WithLogger(ctx, l)
		start := time.Now()

		resp, err := handler(ctx, req)
		logDone(l, err, time.Since(start))
		return resp, err
	}
}

func StreamLoggingInterceptor(base *logger.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		l := base.With(zap.String("request_id", uuid.NewString()), zap.String("method", info.FullMethod))
		ctx := logger.WithLogger(ss.Context(), l)
		start := time.Now()

		err := handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
		logDone(l, err, time.Since(start))
		return err
	}
}

func logDone(l *logger.Logger, err error, d time.Duration) {
	code := status.Code(err)
	fields := []zap.Field{zap.String("code", code.String()), zap.Duration("duration", d)}
	switch code {
	case codes.OK:
		l.Info("rpc finished", fields...)
	case codes.Internal, codes.Unknown:
		l.Error("rpc failed", append(fields, zap.Error(err))...)
	default:
		l.Warn("rpc rejected", append(fields, zap.Error(err))...)
	}
}

func MetricsInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		m.ObserveRPC(info.FullMethod, status.Code(err).String(), time.Since(start))
		return resp, err
	}
}

func StreamMetricsInterceptor(m *metrics.Metrics) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		m.ObserveRPC(info.FullMethod, status.Code(err).String(), time.Since(start))
		return err
	}
}

// RecoveryInterceptor превращает панику обработчика в codes.Internal.
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.GetLogger(ctx).Error("panic in handler",
					zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

func StreamRecoveryInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.GetLogger(ss.Context()).Error("panic in stream handler",
					zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(srv, ss)
	}
}
