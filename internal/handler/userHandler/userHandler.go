package userHandler

import (
	"context"

	"clouddrive/api/driveproto"
	"clouddrive/internal/handler"
	"clouddrive/internal/service/userService"

	"google.golang.org/protobuf/types/known/emptypb"
)

type UserHandler struct {
	userService *userService.UserService
	driveproto.UnimplementedUsersServiceServer
}

func New(service *userService.UserService) *UserHandler {
	return &UserHandler{userService: service}
}

func (h *UserHandler) GetProfile(ctx context.Context, _ *emptypb.Empty) (*driveproto.Profile, error) {
	p, err := handler.Principal(ctx)
	if err != nil {
		return nil, err
	}
	user, storage, err := h.userService.Profile(ctx, p.Email)
	if err != nil {
		return nil, handler.Status(ctx, err)
	}
	return &driveproto.Profile{
		Id:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		StorageId: storage.ID,
		Quota:     storage.Quota,
		Used:      storage.Used,
		CreatedAt: handler.Timestamp(user.CreatedAt),
	}, nil
}
