package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/config"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterDTO) (*entities.User, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error)
	GetUserByID(ctx context.Context, userID uint64) (*entities.User, error)
	RequestPasswordReset(ctx context.Context, payload dto.ForgotPasswordDTO) (string, error)
	ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	logger    *zap.Logger
	cfg       *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*entities.User, error) {
	if payload.Password != payload.ConfirmPassword {
		return nil, apperrors.NewInvalidInputError("пароли не совпадают")
	}

	role, ok := entities.ParseRole(payload.Role)
	if !ok {
		return nil, apperrors.NewInvalidInputError("неизвестная роль: %s", payload.Role)
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, fmt.Errorf("ошибка хэширования пароля: %w", err)
	}

	user := &entities.User{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordHash: hash,
		Role:         role,
	}

	id, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewHttpError(409, "Пользователь с таким email уже существует", err, nil)
		}
		return nil, err
	}
	user.ID = id

	s.logger.Info("Зарегистрирован новый пользователь",
		zap.Uint64("userID", id), zap.String("role", string(role)))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*entities.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := s.checkLockout(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	s.resetLoginAttempts(ctx, user.ID)
	return user, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("GetUserByID: не удалось найти пользователя", zap.Uint64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// RequestPasswordReset выдает одноразовый токен сброса. Для неизвестного
// email тихо возвращаем пустой токен, чтобы не раскрывать наличие аккаунта.
func (s *AuthService) RequestPasswordReset(ctx context.Context, payload dto.ForgotPasswordDTO) (string, error) {
	logger := s.logger.With(zap.String("email", payload.Email))

	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		logger.Warn("Попытка сброса пароля для несуществующего пользователя")
		return "", nil
	}

	resetToken := uuid.New().String()
	cacheKey := fmt.Sprintf("reset_token:%s", resetToken)
	if err := s.cacheRepo.Set(ctx, cacheKey, user.ID, s.cfg.ResetTokenTTL); err != nil {
		return "", fmt.Errorf("ошибка сохранения токена сброса: %w", err)
	}

	// TODO: отправлять токен по email, когда появится почтовый шлюз.
	logger.Warn("Выдан токен сброса пароля", zap.Uint64("userID", user.ID))
	return resetToken, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, payload dto.ResetPasswordDTO) error {
	if payload.NewPassword != payload.ConfirmPassword {
		return apperrors.NewInvalidInputError("пароли не совпадают")
	}

	cacheKey := fmt.Sprintf("reset_token:%s", payload.Token)
	userIDStr, err := s.cacheRepo.Get(ctx, cacheKey)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	// Токен одноразовый: гасим его до смены пароля.
	s.cacheRepo.Del(ctx, cacheKey)

	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil || userID == 0 {
		return fmt.Errorf("ошибка чтения ID пользователя из кэша: %w", err)
	}

	hash, err := utils.HashPassword(payload.NewPassword)
	if err != nil {
		return fmt.Errorf("ошибка хэширования нового пароля: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("ошибка обновления пароля пользователя: %w", err)
	}

	s.logger.Info("Пароль пользователя успешно сброшен", zap.Uint64("userID", userID))
	return nil
}

func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	lockoutKey := fmt.Sprintf("lockout:%d", userID)

	// Если ключ существует — аккаунт заблокирован
	if _, err := s.cacheRepo.Get(ctx, lockoutKey); err == nil {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	attempts, _ := s.cacheRepo.Incr(ctx, attemptsKey)
	if attempts == 1 {
		// Окно подсчета неудачных попыток ограничено временем блокировки.
		s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		lockoutKey := fmt.Sprintf("lockout:%d", userID)
		s.cacheRepo.Set(ctx, lockoutKey, "locked", s.cfg.LockoutDuration)
		s.cacheRepo.Del(ctx, attemptsKey)
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	lockoutKey := fmt.Sprintf("lockout:%d", userID)
	s.cacheRepo.Del(ctx, attemptsKey, lockoutKey)
}
