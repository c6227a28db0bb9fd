package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runRequestRouter(secureGroup *echo.Group, ctrl *controllers.RequestController) {
	{
		secureGroup.GET("/requests", ctrl.GetRequests)
		secureGroup.POST("/requests", ctrl.CreateRequest)
		secureGroup.GET("/requests/:id", ctrl.FindRequest)
		secureGroup.PATCH("/requests/:id/assign", ctrl.AssignTechnician)
		secureGroup.PATCH("/requests/:id/status", ctrl.ChangeStatus)
		secureGroup.GET("/requests/:id/history", ctrl.GetRequestHistory)
	}
}
