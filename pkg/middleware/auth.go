package middleware

import (
	"context"
	"strings"

	"clouddrive/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenVerifier проверяет access токен и отдаёт id и почту владельца.
type TokenVerifier interface {
	GetPrincipalByToken(ctx context.Context, token string) (int64, string, bool)
}

// Principal - аутентифицированный вызывающий.
type Principal struct {
	UserID int64
	Email  string
	Token  string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func authenticate(ctx context.Context, verifier TokenVerifier) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata not provided")
	}

	authHeader := md.Get("authorization")
	if len(authHeader) == 0 {
		return nil, status.Error(codes.Unauthenticated, "authorization token not provided")
	}

	token := strings.TrimPrefix(authHeader[0], "Bearer ")
	uid, email, valid := verifier.GetPrincipalByToken(ctx, token)
	if !valid {
		logger.GetLogger(ctx).Debug("invalid token")
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	logger.GetLogger(ctx).Debug("token validated", zap.Int64("user_id", uid))
	return WithPrincipal(ctx, Principal{UserID: uid, Email: email, Token: token}), nil
}

// AuthInterceptor пропускает публичные методы, остальным кладёт Principal в контекст.
func AuthInterceptor(verifier TokenVerifier, public map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if public[info.FullMethod] {
			return handler(ctx, req)
		}
		newCtx, err := authenticate(ctx, verifier)
		if err != nil {
			return nil, err
		}
		return handler(newCtx, req)
	}
}

func StreamAuthInterceptor(verifier TokenVerifier, public map[string]bool) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if public[info.FullMethod] {
			return handler(srv, ss)
		}
		newCtx, err := authenticate(ss.Context(), verifier)
		if err != nil {
			return err
		}

		// Оборачиваем ServerStream для использования нового контекста
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: newCtx})
	}
}

// wrappedServerStream помогает передать измененный контекст в обработчик стрима.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
