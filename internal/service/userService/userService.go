package userService

import (
	"context"
	"fmt"

	"clouddrive/internal/apperr"
	"clouddrive/internal/model/account"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*account.User, error)
}

type Guard interface {
	Resolve(ctx context.Context, email string) (*account.Storage, error)
}

type UserService struct {
	users UserRepository
	guard Guard
}

func New(users UserRepository, guard Guard) *UserService {
	return &UserService{users: users, guard: guard}
}

// Profile отдаёт пользователя вместе с его хранилищем.
func (s *UserService) Profile(ctx context.Context, email string) (*account.User, *account.Storage, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, apperr.NotFound("User not found")
	}
	storage, err := s.guard.Resolve(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	return user, storage, nil
}
