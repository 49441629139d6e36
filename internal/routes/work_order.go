package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/controllers"
)

func runWorkOrderRouter(secure *echo.Group, ctrl *controllers.WorkOrderController) {
	g := secure.Group("/work-orders")
	g.POST("", ctrl.CreateWorkOrder)
	g.GET("/:id", ctrl.GetWorkOrder)
	g.PATCH("/:id", ctrl.UpdateWorkOrder)
	g.DELETE("/:id", ctrl.DeleteWorkOrder)
}

func runAssetRouter(secure *echo.Group, ctrl *controllers.AssetController) {
	g := secure.Group("/assets")
	g.POST("", ctrl.CreateAsset)
	g.GET("/:id", ctrl.GetAsset)
	g.PATCH("/:id", ctrl.UpdateAsset)
	g.DELETE("/:id", ctrl.DeleteAsset)
}

func runFormRouter(secure *echo.Group, ctrl *controllers.FormController) {
	secure.GET("/forms/:entity", ctrl.GetForm)
}
