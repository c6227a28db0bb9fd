package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runEquipmentRouter(secureGroup *echo.Group, ctrl *controllers.EquipmentController, requestCtrl *controllers.RequestController) {
	{
		secureGroup.GET("/equipment", ctrl.GetEquipments)
		secureGroup.POST("/equipment", ctrl.CreateEquipment)
		secureGroup.GET("/equipment/:id", ctrl.FindEquipment)
		secureGroup.GET("/equipment/:id/autofill", ctrl.GetAutofill)
		secureGroup.GET("/equipment/:id/requests", requestCtrl.GetEquipmentRequests)
		secureGroup.GET("/equipment/:id/open-requests-count", ctrl.CountOpenRequests)

		secureGroup.GET("/equipment-categories", ctrl.GetCategories)
		secureGroup.POST("/equipment-categories", ctrl.CreateCategory)
	}
}
