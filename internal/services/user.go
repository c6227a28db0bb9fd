package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, role string) ([]dto.UserDTO, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, logger: logger}
}

func UserToDTO(u *entities.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// GetUsers — список пользователей, опционально по роли
// (?role=TECHNICIAN для формы назначения техника).
func (s *UserService) GetUsers(ctx context.Context, role string) ([]dto.UserDTO, error) {
	normalized := ""
	if role != "" {
		parsed, ok := entities.ParseRole(role)
		if !ok {
			return nil, apperrors.NewInvalidInputError("неизвестная роль: %s", role)
		}
		normalized = string(parsed)
	}

	users, err := s.userRepo.GetUsers(ctx, normalized)
	if err != nil {
		return nil, err
	}

	result := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		result = append(result, *UserToDTO(&users[i]))
	}
	return result, nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return UserToDTO(user), nil
}
