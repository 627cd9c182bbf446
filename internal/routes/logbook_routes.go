package routes

import (
	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/controllers"
)

func LogbookRoutes(r *gin.RouterGroup, deps Deps) {
	lc := controllers.NewLogbookController(deps.Store)
	logbook := r.Group("/logbook")
	protect(logbook, deps)
	{
		logbook.GET("/:userId", lc.ListEntries)
		logbook.GET("/:userId/entries/:id/route.geojson", lc.RouteGeoJSON)
		logbook.POST("", lc.CreateEntry)
		logbook.PUT("/:id", lc.UpdateEntry)
	}
}
