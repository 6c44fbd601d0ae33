package authHandler

import (
	"context"

	"clouddrive/api/driveproto"
	"clouddrive/internal/handler"
	"clouddrive/internal/service/authService"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type GRPChandler struct {
	authService *authService.AuthService
	driveproto.UnimplementedAuthServiceServer
}

func New(service *authService.AuthService) *GRPChandler {
	return &GRPChandler{authService: service}
}

func (h *GRPChandler) SignUp(ctx context.Context, req *driveproto.SignUpRequest) (*driveproto.TokenResponse, error) {
	accessToken, refreshToken, err := h.authService.SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return h.tokens(ctx, accessToken, refreshToken)
}

func (h *GRPChandler) SignIn(ctx context.Context, req *driveproto.SignInRequest) (*driveproto.TokenResponse, error) {
	accessToken, refreshToken, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return h.tokens(ctx, accessToken, refreshToken)
}

func (h *GRPChandler) RefreshToken(ctx context.Context, req *driveproto.RefreshTokenRequest) (*driveproto.TokenResponse, error) {
	accessToken, refreshToken, err := h.authService.RefreshToken(ctx, req.UserId, req.RefreshToken)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.TokenResponse{UserId: req.UserId, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (h *GRPChandler) Logout(ctx context.Context, _ *emptypb.Empty) (*driveproto.Ok, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.authService.Logout(ctx, p.UserID, p.Token); err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.Ok{Ok: true}, nil
}

// tokens достаёт id пользователя из только что выданного токена, клиенту он нужен для RefreshToken.
func (h *GRPChandler) tokens(ctx context.Context, accessToken, refreshToken string) (*driveproto.TokenResponse, error) {
	uid, _, ok := h.authService.GetPrincipalByToken(ctx, accessToken)
	if !ok {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &driveproto.TokenResponse{UserId: uid, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
