package service

import (
	"github.com/rotaguide/rota-backend/internal/app/model"
	"github.com/rotaguide/rota-backend/internal/app/repository"
)

type UserService interface {
	// Sync mirrors the identity carried by an access token into the users table.
	Sync(user model.User) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Sync(user model.User) error {
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if err := s.users.Upsert(&user); err != nil {
		return persistenceError("sync user", err, map[string]interface{}{"user_id": user.ID})
	}
	return nil
}
