package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runUserRouter(secureGroup *echo.Group, ctrl *controllers.UserController) {
	{
		secureGroup.GET("/users", ctrl.GetUsers)
		secureGroup.GET("/users/:id", ctrl.FindUser)
	}
}
