package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/pkg/config"
	apperrors "maintenance-system/pkg/errors"
)

type fakeUserRepo struct {
	users  map[uint64]*entities.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*entities.User), nextID: 1}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrConflict
		}
	}
	id := r.nextID
	r.nextID++
	stored := *user
	stored.ID = id
	r.users[id] = &stored
	return id, nil
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) GetUsers(ctx context.Context, role string) ([]entities.User, error) {
	result := make([]entities.User, 0)
	for _, u := range r.users {
		if role == "" || string(u.Role) == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", fmt.Errorf("ключ не найден")
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	var n int64
	fmt.Sscan(c.values[key], &n)
	n++
	c.values[key] = fmt.Sprint(n)
	return n, nil
}

func (c *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	_, ok := c.values[key]
	return ok, nil
}

func newAuthTestService() (AuthServiceInterface, *fakeUserRepo, *fakeCache) {
	userRepo := newFakeUserRepo()
	cache := newFakeCache()
	cfg := &config.AuthConfig{
		MaxLoginAttempts: 3,
		LockoutDuration:  time.Minute * 15,
		ResetTokenTTL:    time.Minute * 15,
	}
	return NewAuthService(userRepo, cache, zap.NewNop(), cfg), userRepo, cache
}

func registerTestUser(t *testing.T, svc AuthServiceInterface) *entities.User {
	t.Helper()
	user, err := svc.Register(context.Background(), dto.RegisterDTO{
		Name:            "Иван",
		Email:           "ivan@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            "technician",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_NormalizesRoleAndHashesPassword(t *testing.T) {
	svc, repo, _ := newAuthTestService()
	user := registerTestUser(t, svc)

	assert.Equal(t, entities.RoleTechnician, user.Role, "роль нормализуется к верхнему регистру")
	stored := repo.users[user.ID]
	assert.NotEqual(t, "secret123", stored.PasswordHash, "пароль не должен храниться открытым текстом")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthTestService()
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Name:            "Двойник",
		Email:           "ivan@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            "USER",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict, "повторный email — конфликт")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc, _, _ := newAuthTestService()

	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Name:            "Иван",
		Email:           "ivan@example.com",
		Password:        "secret123",
		ConfirmPassword: "другой",
		Role:            "USER",
	})
	var invalidInput *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalidInput)
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := newAuthTestService()
	registered := registerTestUser(t, svc)

	user, err := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "ivan@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLogin_WrongPasswordThenLockout(t *testing.T) {
	svc, _, _ := newAuthTestService()
	registerTestUser(t, svc)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, dto.LoginDTO{Email: "ivan@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	// После исчерпания попыток даже верный пароль не проходит.
	_, err := svc.Login(ctx, dto.LoginDTO{Email: "ivan@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked, "аккаунт должен быть заблокирован")
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newAuthTestService()

	_, err := svc.Login(context.Background(), dto.LoginDTO{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "несуществующий email не отличим от неверного пароля")
}

func TestPasswordReset_TokenIsSingleUse(t *testing.T) {
	svc, _, _ := newAuthTestService()
	registerTestUser(t, svc)
	ctx := context.Background()

	token, err := svc.RequestPasswordReset(ctx, dto.ForgotPasswordDTO{Email: "ivan@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = svc.ResetPassword(ctx, dto.ResetPasswordDTO{
		Token:           token,
		NewPassword:     "newsecret",
		ConfirmPassword: "newsecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginDTO{Email: "ivan@example.com", Password: "newsecret"})
	assert.NoError(t, err, "новый пароль должен работать")

	// Повторное использование того же токена.
	err = svc.ResetPassword(ctx, dto.ResetPasswordDTO{
		Token:           token,
		NewPassword:     "another",
		ConfirmPassword: "another",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "токен одноразовый")
}

func TestPasswordReset_UnknownEmailSilent(t *testing.T) {
	svc, _, _ := newAuthTestService()

	token, err := svc.RequestPasswordReset(context.Background(), dto.ForgotPasswordDTO{Email: "ghost@example.com"})
	assert.NoError(t, err, "неизвестный email не раскрывается ошибкой")
	assert.Empty(t, token)
}
