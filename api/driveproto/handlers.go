package driveproto

import (
	"context"

	"google.golang.org/grpc"
)

// unary собирает grpc.MethodHandler для унарного метода. S - интерфейс сервера сервиса.
func unary[S any, Req any, Res any](fullMethod string, call func(S, context.Context, *Req) (*Res, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func invoke[Res any](ctx context.Context, cc grpc.ClientConnInterface, fullMethod string, in any, opts []grpc.CallOption) (*Res, error) {
	out := new(Res)
	if err := cc.Invoke(ctx, fullMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicMethods - методы, которые вызываются без токена.
func PublicMethods() map[string]bool {
	return map[string]bool{
		AuthService_SignUp_FullMethodName:       true,
		AuthService_SignIn_FullMethodName:       true,
		AuthService_RefreshToken_FullMethodName: true,
		PlansService_GetAll_FullMethodName:      true,
	}
}
