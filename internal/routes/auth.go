package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runAuthRouter(api *echo.Group, secureGroup *echo.Group, ctrl *controllers.AuthController) {
	{
		api.POST("/auth/register", ctrl.Register)
		api.POST("/auth/login", ctrl.Login)
		api.POST("/auth/forgot-password", ctrl.ForgotPassword)
		api.POST("/auth/reset-password", ctrl.ResetPassword)

		secureGroup.GET("/auth/me", ctrl.Me)
	}
}
