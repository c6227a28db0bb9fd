package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/service"
	"maintenance-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	jwtService  service.JWTService
	logger      *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		jwtService:  jwtService,
		logger:      logger,
	}
}

func (c *AuthController) Register(ctx echo.Context) error {
	var payload dto.RegisterDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.authService.Register(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, services.UserToDTO(user), "Пользователь успешно зарегистрирован", http.StatusCreated)
}

func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.authService.Login(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	accessToken, refreshToken, err := c.jwtService.GenerateTokens(user.ID, string(user.Role))
	if err != nil {
		c.logger.Error("Login: ошибка генерации токенов", zap.Uint64("userID", user.ID), zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.ErrInternalServer, c.logger)
	}

	response := dto.LoginResponseDTO{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         services.UserToDTO(user),
	}
	return utils.SuccessResponse(ctx, response, "Вход выполнен успешно", http.StatusOK)
}

func (c *AuthController) Me(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.authService.GetUserByID(ctx.Request().Context(), userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, services.UserToDTO(user), "Профиль успешно получен", http.StatusOK)
}

func (c *AuthController) ForgotPassword(ctx echo.Context) error {
	var payload dto.ForgotPasswordDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	token, err := c.authService.RequestPasswordReset(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	// Ответ одинаковый для известных и неизвестных email.
	response := dto.ForgotPasswordResponseDTO{
		Message:    "Если такой email зарегистрирован, токен сброса выдан",
		ResetToken: token,
	}
	return utils.SuccessResponse(ctx, response, "Запрос на сброс пароля принят", http.StatusOK)
}

func (c *AuthController) ResetPassword(ctx echo.Context) error {
	var payload dto.ResetPasswordDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.authService.ResetPassword(ctx.Request().Context(), payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Пароль успешно изменён", http.StatusOK)
}
