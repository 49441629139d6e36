package routes

import (
	"github.com/labstack/echo/v4"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/controllers"
)

// runSearchRouter mounts search, quick search and export under the base path
// of every searchable entity.
func runSearchRouter(secure *echo.Group, ctrl *controllers.SearchController) {
	for basePath, tag := range authz.SearchableEntities {
		g := secure.Group("/" + basePath)
		g.GET("", ctrl.QuickSearch(tag))
		g.POST("/search", ctrl.Search(tag))
		g.POST("/export", ctrl.Export(tag))
	}
}
