package middleware

import (
	"context"
	"testing"

	"clouddrive/pkg/logger"
	"clouddrive/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type fakeVerifier struct{}

func (fakeVerifier) GetPrincipalByToken(_ context.Context, token string) (int64, string, bool) {
	if token == "good" {
		return 42, "user@test.com", true
	}
	return 0, "", false
}

var public = map[string]bool{"/drive.AuthService/SignIn": true}

func TestAuthInterceptor(t *testing.T) {
	interceptor := AuthInterceptor(fakeVerifier{}, public)

	var got Principal
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = PrincipalFromContext(ctx)
		return "ok", nil
	}

	t.Run("public method", func(t *testing.T) {
		resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/drive.AuthService/SignIn"}, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})

	info := &grpc.UnaryServerInfo{FullMethod: "/drive.ContentsService/NewFolder"}

	t.Run("no metadata", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("no token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x", "y"))
		_, err := interceptor(ctx, nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("invalid token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer bad"))
		_, err := interceptor(ctx, nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("valid token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer good"))
		_, err := interceptor(ctx, nil, info, handler)
		require.NoError(t, err)
		assert.Equal(t, Principal{UserID: 42, Email: "user@test.com", Token: "good"}, got)
	})
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeStream) Context() context.Context {
	return f.ctx
}

func TestStreamAuthInterceptor(t *testing.T) {
	interceptor := StreamAuthInterceptor(fakeVerifier{}, public)
	info := &grpc.StreamServerInfo{FullMethod: "/drive.FileTransferService/ReceiveFileChunk"}

	var email string
	handler := func(srv interface{}, ss grpc.ServerStream) error {
		p, _ := PrincipalFromContext(ss.Context())
		email = p.Email
		return nil
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer good"))
	require.NoError(t, interceptor(nil, &fakeStream{ctx: ctx}, info, handler))
	assert.Equal(t, "user@test.com", email)

	err := interceptor(nil, &fakeStream{ctx: context.Background()}, info, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestLoggingInterceptorSetsLogger(t *testing.T) {
	interceptor := LoggingInterceptor(logger.NewNop())
	var l *logger.Logger
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/m"}, func(ctx context.Context, req interface{}) (interface{}, error) {
		l = logger.GetLogger(ctx)
		return nil, status.Error(codes.NotFound, "nope")
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.NotNil(t, l)
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	interceptor := MetricsInterceptor(metrics.New(reg))

	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/m"}, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "clouddrive_rpc_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := RecoveryInterceptor()
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/m"}, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))

	stream := StreamRecoveryInterceptor()
	err = stream(nil, &fakeStream{ctx: context.Background()}, &grpc.StreamServerInfo{}, func(srv interface{}, ss grpc.ServerStream) error {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}
