package routes

import (
	"github.com/gin-gonic/gin"

	"pilot_logbook/internal/controllers"
)

func StatisticsRoutes(r *gin.RouterGroup, deps Deps) {
	sc := controllers.NewStatisticsController(deps.Aggregator)

	statistics := r.Group("/statistics")
	protect(statistics, deps)
	statistics.GET("/:userId", sc.Statistics)

	dashboard := r.Group("/dashboard")
	protect(dashboard, deps)
	dashboard.GET("/:userId", sc.Statistics)
}
