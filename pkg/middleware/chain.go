package middleware

import (
	"clouddrive/pkg/logger"
	"clouddrive/pkg/metrics"

	"google.golang.org/grpc"
)

// ServerOptions собирает цепочку: логгер, recovery, метрики, авторизация.
func ServerOptions(verifier TokenVerifier, public map[string]bool, base *logger.Logger, m *metrics.Metrics) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(base),
			RecoveryInterceptor(),
			MetricsInterceptor(m),
			AuthInterceptor(verifier, public),
		),
		grpc.ChainStreamInterceptor(
			StreamLoggingInterceptor(base),
			StreamRecoveryInterceptor(),
			StreamMetricsInterceptor(m),
			StreamAuthInterceptor(verifier, public),
		),
	}
}
