package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runAuthRouter(api *echo.Group, ctrl *controllers.AuthController) {
	auth := api.Group("/auth")
	auth.POST("/signin", ctrl.SignIn)
	auth.POST("/refresh", ctrl.Refresh)
}

func runSessionRouter(secure *echo.Group, ctrl *controllers.SessionController) {
	secure.GET("/session", ctrl.GetSession)
}
