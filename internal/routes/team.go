package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runTeamRouter(secureGroup *echo.Group, ctrl *controllers.TeamController) {
	{
		secureGroup.GET("/teams", ctrl.GetTeams)
		secureGroup.POST("/teams", ctrl.CreateTeam)
		secureGroup.GET("/teams/:id", ctrl.FindTeam)
		secureGroup.PUT("/teams/:id", ctrl.UpdateTeam)
		secureGroup.DELETE("/teams/:id", ctrl.DeleteTeam)

		secureGroup.GET("/teams/:id/members", ctrl.ListMembers)
		secureGroup.POST("/teams/:id/members", ctrl.AddMember)
		secureGroup.DELETE("/teams/:id/members/:userId", ctrl.RemoveMember)
	}
}
